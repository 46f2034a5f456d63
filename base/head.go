package base

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"
)

// NewClampHead1d creates a projection head (nn.SequentialT): Conv1d then
// clamping to [min, max] (hardtanh).
func NewClampHead1d(p *nn.Path, cIn, cOut, ksize, padding int64, min, max float64) *nn.SequentialT {
	seq := nn.SeqT()
	seq.Add(Conv1d(p.Sub("0"), cIn, cOut, ksize, padding, 1))
	seq.AddFn(nn.NewFunc(func(xs *ts.Tensor) *ts.Tensor {
		return xs.MustClamp(ts.FloatScalar(min), ts.FloatScalar(max), false)
	}))

	return seq
}

// NewSigmoidHead2d creates a projection head (nn.SequentialT): Conv2d with
// bias then sigmoid.
func NewSigmoidHead2d(p *nn.Path, cIn, cOut, ksize, padding int64) *nn.SequentialT {
	seq := nn.SeqT()
	seq.Add(Conv2d(p.Sub("0"), cIn, cOut, ksize, padding, 1))
	seq.AddFn(nn.NewFunc(func(xs *ts.Tensor) *ts.Tensor {
		return xs.MustSigmoid(false)
	}))

	return seq
}
