// Package micro implements Micro2d, a plain convolutional encoder-decoder
// without skip or residual paths, used as a lightweight baseline.
package micro

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/denoise/base"
)

// Config holds the hidden width of Micro2d.
type Config struct {
	Channel int64
}

// DefaultMicro2dConfig returns a hidden width of 128.
func DefaultMicro2dConfig() *Config {
	return &Config{Channel: 128}
}

// Micro2d maps [B H W] spectrograms to a [B H W] mask in (0, 1).
type Micro2d struct {
	inc *nn.SequentialT
}

// NewMicro2d creates Micro2d. cIn and cOut do not change the graph.
func NewMicro2d(p *nn.Path, cIn, cOut int64, cfg *Config) *Micro2d {
	c := cfg.Channel
	inc := p.Sub("inc")

	// Spatial size: H -> H -> H -> H -> H+2 -> H
	up1 := base.ConvTranspose2d(inc.Sub("4"), c, c, 5, 2, 1)
	up2 := base.ConvTranspose2d(inc.Sub("6"), c, c, 3, 0, 1)

	seq := nn.SeqT()
	seq.Add(base.Conv2d(inc.Sub("0"), 1, c, 5, 2, 1))
	seq.AddFn(relu())
	seq.Add(base.Conv2d(inc.Sub("2"), c, c, 3, 1, 1))
	seq.AddFn(relu())
	seq.AddFn(nn.NewFunc(func(xs *ts.Tensor) *ts.Tensor {
		return up1.Forward(xs)
	}))
	seq.AddFn(relu())
	seq.AddFn(nn.NewFunc(func(xs *ts.Tensor) *ts.Tensor {
		return up2.Forward(xs)
	}))
	seq.AddFn(relu())
	seq.Add(base.Conv2d(inc.Sub("8"), c, 1, 3, 0, 1))
	seq.AddFn(nn.NewFunc(func(xs *ts.Tensor) *ts.Tensor {
		return xs.MustSigmoid(false)
	}))

	return &Micro2d{inc: seq}
}

func relu() nn.Func {
	return nn.NewFunc(func(xs *ts.Tensor) *ts.Tensor {
		return xs.MustRelu(false)
	})
}

// ForwardT implements ts.ModuleT for Micro2d struct.
func (m *Micro2d) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	size := x.MustSize() // [B H W]
	x4 := x.MustView([]int64{size[0], 1, size[1], size[2]}, false)
	out := m.inc.ForwardT(x4, train)
	x4.MustDrop()

	return out.MustView(size, true)
}
