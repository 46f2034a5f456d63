package unet_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/denoise/unet"
)

func TestUp1dAlignsToSkip(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)

	tests := []struct {
		name   string
		cfg    *unet.UpConfig
		x1Len  int64
		x2Len  int64
		wanted int64
	}{
		{"crop", unet.DefaultUpConfig(), 5, 9, 9},
		{"pad", unet.DefaultUpConfig(), 4, 11, 11},
		{"linear", &unet.UpConfig{Bilinear: true, Merge: true}, 5, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := unet.NewUp1d(vs.Root().Sub(tt.name), 16, 8, tt.cfg)
			x1 := ts.MustRand([]int64{1, 16, tt.x1Len}, gotch.Float, gotch.CPU)
			x2 := ts.MustRand([]int64{1, 8, tt.x2Len}, gotch.Float, gotch.CPU)

			got := up.ForwardSkip(x1, x2, false)
			assert.Equal(t, []int64{1, 8, tt.wanted}, got.MustSize())
		})
	}
}

func TestUp2dWithoutMerge(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)
	up := unet.NewUp2d(vs.Root(), 16, 16, &unet.UpConfig{Bilinear: false, Merge: false})

	x1 := ts.MustRand([]int64{1, 16, 3, 4}, gotch.Float, gotch.CPU)
	x2 := ts.MustRand([]int64{1, 16, 6, 8}, gotch.Float, gotch.CPU)
	assert.Equal(t, []int64{1, 16, 6, 8}, up.ForwardSkip(x1, x2, false).MustSize())
}

func TestUNet1dKeepsLength(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)
	net := unet.NewUNet1d(vs.Root(), 4, 4, &unet.Config{BaseChannel: 8})

	for _, length := range []int64{14, 30, 47} {
		x := ts.MustRand([]int64{2, 4, length}, gotch.Float, gotch.CPU)
		y := net.ForwardT(x, false)
		require.Equal(t, []int64{2, 4, length}, y.MustSize(), "length %d", length)

		for _, v := range y.Float64Values() {
			assert.GreaterOrEqual(t, v, 1e-10)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestUNet2d(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)
	net := unet.NewUNet2d(vs.Root(), 1, 1, unet.DefaultUNet2dConfig())

	for _, size := range [][]int64{{2, 64, 64}, {1, 32, 48}} {
		x := ts.MustRand(size, gotch.Float, gotch.CPU).MustAddScalar(ts.FloatScalar(0.1), true)
		y := net.ForwardT(x, false)
		require.Equal(t, size, y.MustSize())

		for _, v := range y.Float64Values() {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			assert.Greater(t, v, 0.0)
		}
	}
}

func TestUNet2dTrainStep(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)
	net := unet.NewUNet2d(vs.Root(), 1, 1, &unet.Config{BaseChannel: 16})
	opt, err := nn.DefaultAdamConfig().Build(vs, 1e-3)
	require.NoError(t, err)

	x := ts.MustRand([]int64{2, 16, 16}, gotch.Float, gotch.CPU).MustAddScalar(ts.FloatScalar(0.1), true)
	y := net.ForwardT(x, true)
	loss := y.MustSub(x, false).MustSquare(true).MustMean(gotch.Float, true)
	require.NoError(t, opt.BackwardStep(loss))

	assert.False(t, math.IsNaN(loss.Float64Values()[0]))
}
