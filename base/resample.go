package base

import (
	"github.com/sugarme/gotch/ts"
)

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}

// PadLast zero-pads the last axis of x by left and right elements.
// A negative amount crops that many elements from the corresponding side.
func PadLast(x *ts.Tensor, left, right int64) *ts.Tensor {
	return x.MustConstantPadNd([]int64{left, right}, false)
}

// UpsampleLinear1d resizes [B C L] to [B C L*scale] with align-corners
// linear interpolation.
func UpsampleLinear1d(x *ts.Tensor, scale int64) *ts.Tensor {
	l := x.MustSize()[2]

	return x.MustUpsampleLinear1d([]int64{l * scale}, true, nil, false)
}

// UpsampleBilinear2d resizes [B C H W] to [B C H*scale W*scale] with
// align-corners bilinear interpolation.
func UpsampleBilinear2d(x *ts.Tensor, scale int64) *ts.Tensor {
	size := x.MustSize()
	outSize := []int64{size[2] * scale, size[3] * scale}

	return x.MustUpsampleBilinear2d(outSize, true, nil, nil, false)
}
