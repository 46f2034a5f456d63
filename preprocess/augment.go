package preprocess

import (
	"log"
	"math/rand"

	"github.com/sugarme/gotch/ts"
)

// Noise masks random elements of a spectrogram: each element is kept with
// probability 1-P, otherwise it is scaled by a factor drawn from U(Low, High).
type Noise struct {
	P    float64
	Low  float64
	High float64
}

// DefaultNoise returns P 0.1, Low 0, High 0.5.
func DefaultNoise() *Noise {
	return &Noise{P: 0.1, Low: 0, High: 0.5}
}

// Forward applies the mask. The input is left untouched.
func (n *Noise) Forward(x *ts.Tensor) *ts.Tensor {
	size := x.MustSize()
	dtype := x.DType()
	device := x.MustDevice()

	keep := ts.MustRand(size, dtype, device).
		MustGt(ts.FloatScalar(n.P), true).
		MustTotype(dtype, true)
	dropped := keep.MustMulScalar(ts.FloatScalar(-1), false).MustAddScalar(ts.FloatScalar(1), true)
	scale := ts.MustRand(size, dtype, device).
		MustMulScalar(ts.FloatScalar(n.High-n.Low), true).
		MustAddScalar(ts.FloatScalar(n.Low), true)

	fill := dropped.MustMul(scale, true)
	scale.MustDrop()
	factor := keep.MustAdd(fill, true)
	fill.MustDrop()
	out := x.MustMul(factor, false)
	factor.MustDrop()

	return out
}

// flip is a paired flip of input and target with probability 1-P.
type flip struct {
	P    float64
	Rand *rand.Rand // nil uses the global source
	dim  int64
}

func (f *flip) enabled() bool {
	var u float64
	if f.Rand != nil {
		u = f.Rand.Float64()
	} else {
		u = rand.Float64()
	}

	return u >= f.P
}

// Apply returns flipped copies of x and y, or shallow clones when skipped.
func (f *flip) Apply(x, y *ts.Tensor) (*ts.Tensor, *ts.Tensor) {
	if !f.enabled() {
		return x.MustShallowClone(), y.MustShallowClone()
	}
	dims := []int64{f.dim}

	return x.MustFlip(dims, false), y.MustFlip(dims, false)
}

// HFlip1d reverses [F T] spectrograms along time.
type HFlip1d struct{ flip }

// NewHFlip1d creates HFlip1d that skips with probability p.
func NewHFlip1d(p float64) *HFlip1d {
	return &HFlip1d{flip{P: p, dim: -1}}
}

// VFlip1d reverses [F T] spectrograms along frequency.
type VFlip1d struct{ flip }

// NewVFlip1d creates VFlip1d that skips with probability p.
func NewVFlip1d(p float64) *VFlip1d {
	return &VFlip1d{flip{P: p, dim: -2}}
}

// Scaler centres values between Low and High around zero.
type Scaler struct {
	High float64
	Low  float64
}

// Forward returns x - (High+Low)/2.
func (s *Scaler) Forward(x *ts.Tensor) *ts.Tensor {
	avg := (s.High + s.Low) / 2
	return x.MustAddScalar(ts.FloatScalar(-avg), false)
}

// Vote reduces an ensemble of same-shaped predictions element-wise.
type Vote struct {
	Method string // "mean", "max" or "min"
}

// NewVote creates Vote. Unknown methods are fatal.
func NewVote(method string) *Vote {
	switch method {
	case "mean", "max", "min":
	default:
		log.Fatalf("Unsupported vote method: %q\n", method)
	}

	return &Vote{Method: method}
}

// Forward combines predictions. Inputs are left untouched. An empty
// ensemble is fatal.
func (v *Vote) Forward(preds []*ts.Tensor) *ts.Tensor {
	if len(preds) == 0 {
		log.Fatalf("Vote %q needs at least one prediction\n", v.Method)
	}
	acc := preds[0].MustShallowClone()
	for _, p := range preds[1:] {
		var next *ts.Tensor
		switch v.Method {
		case "max":
			next = acc.MustMaximum(p, true)
		case "min":
			next = acc.MustMinimum(p, true)
		default:
			next = acc.MustAdd(p, true)
		}
		acc = next
	}
	if v.Method == "mean" {
		return acc.MustDivScalar(ts.FloatScalar(float64(len(preds))), true)
	}

	return acc
}
