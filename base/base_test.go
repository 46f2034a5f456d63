package base_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/denoise/base"
)

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{7, 2, 3},
		{-7, 2, -4},
		{-1, 2, -1},
		{6, 2, 3},
		{-6, 2, -3},
		{0, 2, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, base.FloorDiv(tt.a, tt.b), "%d // %d", tt.a, tt.b)
	}
}

func TestPadLast(t *testing.T) {
	x := ts.MustOfSlice([]float32{1, 2, 3, 4}).MustView([]int64{1, 1, 4}, true)

	tests := []struct {
		name        string
		left, right int64
		want        []float64
	}{
		{"pad", 1, 2, []float64{0, 1, 2, 3, 4, 0, 0}},
		{"crop", -1, -1, []float64{2, 3}},
		{"mixed", -1, 1, []float64{2, 3, 4, 0}},
		{"none", 0, 0, []float64{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.PadLast(x, tt.left, tt.right)
			assert.Equal(t, []int64{1, 1, int64(len(tt.want))}, got.MustSize())
			assert.Equal(t, tt.want, got.Float64Values())
		})
	}
}

func TestUpsampleLinear1d(t *testing.T) {
	x := ts.MustOfSlice([]float32{0, 1, 2}).MustView([]int64{1, 1, 3}, true)
	got := base.UpsampleLinear1d(x, 2)
	require.Equal(t, []int64{1, 1, 6}, got.MustSize())

	want := []float64{0, 0.4, 0.8, 1.2, 1.6, 2}
	assert.InDeltaSlice(t, want, got.Float64Values(), 1e-5)
}

func TestUpsampleBilinear2d(t *testing.T) {
	x := ts.MustRand([]int64{1, 2, 3, 4}, gotch.Float, gotch.CPU)
	got := base.UpsampleBilinear2d(x, 2)
	require.Equal(t, []int64{1, 2, 6, 8}, got.MustSize())

	// corners are preserved with align-corners interpolation
	in := x.Float64Values()
	out := got.Float64Values()
	assert.InDelta(t, in[0], out[0], 1e-5)
	assert.InDelta(t, in[3], out[7], 1e-5)
	assert.InDelta(t, in[11], out[47], 1e-5)
}

func TestPool(t *testing.T) {
	x := ts.MustOfSlice([]float32{1, 3, 2, 5, 4}).MustView([]int64{1, 1, 5}, true)

	maxPool := base.NewPool1d(base.MaxPool, 2)
	assert.Equal(t, []float64{3, 5}, maxPool.Forward(x).Float64Values())

	avgPool := base.NewPool1d(base.AvgPool, 2)
	assert.Equal(t, []float64{2, 3.5}, avgPool.Forward(x).Float64Values())

	x2 := ts.MustRand([]int64{1, 2, 6, 5}, gotch.Float, gotch.CPU)
	pool2d := base.NewPool2d(base.AvgPool, 2)
	assert.Equal(t, []int64{1, 2, 3, 2}, pool2d.Forward(x2).MustSize())
}

func TestAvgPool2dValues(t *testing.T) {
	// [1 1 2 4], one 2x2 window per output
	x := ts.MustOfSlice([]float32{
		1, 2, 3, 4,
		5, 6, 7, 9,
	}).MustView([]int64{1, 1, 2, 4}, true)

	avg := base.NewPool2d(base.AvgPool, 2).Forward(x)
	require.Equal(t, []int64{1, 1, 1, 2}, avg.MustSize())
	assert.InDeltaSlice(t, []float64{3.5, 5.75}, avg.Float64Values(), 1e-6)

	peak := base.NewPool2d(base.MaxPool, 2).Forward(x)
	assert.Equal(t, []float64{6, 9}, peak.Float64Values())
}

func TestParsePoolKind(t *testing.T) {
	kind, err := base.ParsePoolKind("avg")
	require.NoError(t, err)
	assert.Equal(t, base.AvgPool, kind)
	assert.Equal(t, "avg", kind.String())

	_, err = base.ParsePoolKind("median")
	assert.Error(t, err)
}

func TestConvBR(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)

	conv2d := base.NewConvBR2d(vs.Root().Sub("c2"), 3, 8, base.ConvBRKernel(3, 1))
	x2 := ts.MustRand([]int64{2, 3, 10, 12}, gotch.Float, gotch.CPU)
	y2 := conv2d.ForwardT(x2, false)
	assert.Equal(t, []int64{2, 8, 10, 12}, y2.MustSize())
	for _, v := range y2.Float64Values() {
		assert.GreaterOrEqual(t, v, 0.0)
	}

	cfg := base.ConvBRKernel(5, 2)
	cfg.Stride = 2
	cfg.Activation = false
	conv1d := base.NewConvBR1d(vs.Root().Sub("c1"), 3, 4, cfg)
	x1 := ts.MustRand([]int64{2, 3, 20}, gotch.Float, gotch.CPU)
	assert.Equal(t, []int64{2, 4, 10}, conv1d.ForwardT(x1, true).MustSize())
}

func TestSCSE(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)
	m := base.NewSCSE1d(vs.Root(), 16)

	x := ts.MustRand([]int64{2, 16, 7}, gotch.Float, gotch.CPU)
	got := m.ForwardT(x, false)
	cse := m.CSE.ForwardT(x, false)
	sse := m.SSE.ForwardT(x, false)
	want := cse.MustAdd(sse, true)

	require.Equal(t, x.MustSize(), got.MustSize())
	assert.InDeltaSlice(t, want.Float64Values(), got.Float64Values(), 1e-5)
}

func TestSCSE2d(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)
	m := base.NewSCSE2d(vs.Root(), 16, 4)

	x := ts.MustRand([]int64{2, 16, 5, 6}, gotch.Float, gotch.CPU)
	got := base.NewAttention(m).ForwardT(x, false)
	cse := m.CSE.ForwardT(x, false)
	sse := m.SSE.ForwardT(x, false)
	want := cse.MustAdd(sse, true)

	require.Equal(t, []int64{2, 16, 5, 6}, got.MustSize())
	assert.InDeltaSlice(t, want.Float64Values(), got.Float64Values(), 1e-5)
}

func TestSSEGate(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)
	m := base.NewSSE2d(vs.Root(), 4)

	x := ts.MustRand([]int64{1, 4, 3, 5}, gotch.Float, gotch.CPU)
	gate := m.Gate(x)
	assert.Equal(t, []int64{1, 1, 3, 5}, gate.MustSize())
	for _, v := range gate.Float64Values() {
		assert.True(t, v > 0 && v < 1)
	}
}

func TestAttentionIdentity(t *testing.T) {
	x := ts.MustRand([]int64{1, 4, 6}, gotch.Float, gotch.CPU)
	got := base.NewAttention().ForwardT(x, false)

	assert.Equal(t, x.Float64Values(), got.Float64Values())
}
