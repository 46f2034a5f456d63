package preprocess_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/denoise/preprocess"
)

// [F T] = [2 3]
func spec23() *ts.Tensor {
	return ts.MustOfSlice([]float32{1, 2, 3, 4, 5, 6}).MustView([]int64{2, 3}, true)
}

func TestNoise(t *testing.T) {
	x := ts.MustRand([]int64{4, 16}, gotch.Float, gotch.CPU).MustAddScalar(ts.FloatScalar(1), true)

	keepAll := &preprocess.Noise{P: 0, Low: 0, High: 0.5}
	assert.Equal(t, x.Float64Values(), keepAll.Forward(x).Float64Values())

	zeroAll := &preprocess.Noise{P: 1, Low: 0, High: 0}
	for _, v := range zeroAll.Forward(x).Float64Values() {
		assert.Equal(t, 0.0, v)
	}

	def := preprocess.DefaultNoise()
	in := x.Float64Values()
	for i, v := range def.Forward(x).Float64Values() {
		assert.LessOrEqual(t, v, in[i])
	}
}

func TestFlip(t *testing.T) {
	x := spec23()
	y := spec23().MustMulScalar(ts.FloatScalar(10), true)

	h := preprocess.NewHFlip1d(0)
	hx, hy := h.Apply(x, y)
	assert.Equal(t, []float64{3, 2, 1, 6, 5, 4}, hx.Float64Values())
	assert.Equal(t, []float64{30, 20, 10, 60, 50, 40}, hy.Float64Values())

	v := preprocess.NewVFlip1d(0)
	vx, _ := v.Apply(x, y)
	assert.Equal(t, []float64{4, 5, 6, 1, 2, 3}, vx.Float64Values())

	skip := preprocess.NewHFlip1d(1)
	skip.Rand = rand.New(rand.NewSource(1))
	sx, sy := skip.Apply(x, y)
	assert.Equal(t, x.Float64Values(), sx.Float64Values())
	assert.Equal(t, y.Float64Values(), sy.Float64Values())
}

func TestScaler(t *testing.T) {
	s := &preprocess.Scaler{High: 1, Low: 0}
	got := s.Forward(spec23())

	assert.InDeltaSlice(t, []float64{0.5, 1.5, 2.5, 3.5, 4.5, 5.5}, got.Float64Values(), 1e-6)
}

func TestVote(t *testing.T) {
	a := ts.MustOfSlice([]float32{1, 4, 2})
	b := ts.MustOfSlice([]float32{3, 0, 2})

	tests := []struct {
		method string
		want   []float64
	}{
		{"mean", []float64{2, 2, 2}},
		{"max", []float64{3, 4, 2}},
		{"min", []float64{1, 0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got := preprocess.NewVote(tt.method).Forward([]*ts.Tensor{a, b})
			assert.Equal(t, tt.want, got.Float64Values())
		})
	}

	// inputs survive the reduction
	require.Equal(t, []float64{1, 4, 2}, a.Float64Values())
}

func TestKFold(t *testing.T) {
	folds := preprocess.NewKFold(3).Split(10)
	require.Len(t, folds, 3)

	sizes := []int{4, 3, 3}
	seen := make(map[int]int)
	for i, f := range folds {
		assert.Len(t, f.Valid, sizes[i])
		assert.Len(t, f.Train, 10-sizes[i])
		for _, j := range f.Valid {
			seen[j]++
		}
	}
	assert.Len(t, seen, 10)
	for _, n := range seen {
		assert.Equal(t, 1, n)
	}

	assert.Equal(t, 5, preprocess.NewKFold().NSplit)
}
