// Package resnext implements ResNeXt-style spectrogram denoisers that
// predict an additive correction in square-root magnitude space:
//
//	out = (sqrt(x) + net(sqrt(x)))^2
package resnext

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/denoise/base"
	"github.com/sugarme/denoise/encoder"
)

// Config holds the channel schedule of a ResNext model.
type Config struct {
	Channels []int64
}

// DefaultResNext1dConfig returns channels [1024 2048].
func DefaultResNext1dConfig() *Config {
	return &Config{Channels: []int64{1024, 2048}}
}

// DefaultResNext2dConfig returns channels [128 256 512].
func DefaultResNext2dConfig() *Config {
	return &Config{Channels: []int64{128, 256, 512}}
}

// ResNext1d denoises [B C L] spectrograms, C == cIn == cOut.
type ResNext1d struct {
	inc         ts.Module
	bottlenecks *encoder.SENextBottleneck1d
	outc        *nn.SequentialT
}

// NewResNext1d creates ResNext1d. cOut must equal cIn for the residual sum.
func NewResNext1d(p *nn.Path, cIn, cOut int64, cfg *Config) *ResNext1d {
	c0, c1 := cfg.Channels[0], cfg.Channels[1]

	bcfg := encoder.DefaultBottleneck1dConfig()
	bcfg.Shortcut = true

	outc := p.Sub("outc")
	head := nn.SeqT()
	head.Add(base.NewConvBR1d(outc.Sub("0"), c1, c1, base.ConvBRKernel(5, 2)))
	head.Add(base.NewConvBR1d(outc.Sub("1"), c1, cOut, base.ConvBRKernel(3, 1)))
	head.Add(base.Conv1d(outc.Sub("2"), cOut, cOut, 1, 0, 1))

	return &ResNext1d{
		inc:         base.Conv1d(p.Sub("inc").Sub("0"), cIn, c0, 5, 2, 1),
		bottlenecks: encoder.NewSENextBottleneck1d(p.Sub("bottlenecks").Sub("0"), c0, c1, bcfg),
		outc:        head,
	}
}

// ForwardT implements ts.ModuleT for ResNext1d struct.
func (m *ResNext1d) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	root := x.MustSqrt(false)
	n0 := m.inc.Forward(root)               // [B c0 L]
	n1 := m.bottlenecks.ForwardT(n0, train) // [B c1 L]
	n0.MustDrop()
	n := m.outc.ForwardT(n1, train) // [B cOut L]
	n1.MustDrop()

	sum := root.MustAdd(n, true)
	n.MustDrop()

	return sum.MustSquare(true)
}

// ResNext2d denoises [B H W] spectrograms on a single implicit channel.
type ResNext2d struct {
	inc         *nn.SequentialT
	bottlenecks *nn.SequentialT
	outc        *nn.SequentialT
}

// NewResNext2d creates ResNext2d. cIn and cOut do not change the graph.
func NewResNext2d(p *nn.Path, cIn, cOut int64, cfg *Config) *ResNext2d {
	c0, c1, c2 := cfg.Channels[0], cfg.Channels[1], cfg.Channels[2]

	incPath := p.Sub("inc")
	inc := nn.SeqT()
	inc.Add(base.NewConvBR2d(incPath.Sub("0"), 1, c0, base.ConvBRKernel(5, 2)))
	inc.Add(base.NewConvBR2d(incPath.Sub("1"), c0, c0, base.ConvBRKernel(3, 1)))

	bcfg := encoder.DefaultBottleneck2dConfig()
	bPath := p.Sub("bottlenecks")
	bottlenecks := nn.SeqT()
	bottlenecks.Add(encoder.NewSENextBottleneck2d(bPath.Sub("0"), c0, c1, bcfg))
	bottlenecks.Add(encoder.NewSENextBottleneck2d(bPath.Sub("1"), c1, c2, bcfg))

	return &ResNext2d{
		inc:         inc,
		bottlenecks: bottlenecks,
		outc:        base.NewSigmoidHead2d(p.Sub("outc"), c2, 1, 1, 0),
	}
}

// ForwardT implements ts.ModuleT for ResNext2d struct.
func (m *ResNext2d) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	size := x.MustSize() // [B H W]
	root := x.MustView([]int64{size[0], 1, size[1], size[2]}, false).MustSqrt(true)

	n0 := m.inc.ForwardT(root, train)       // [B c0 H W]
	n1 := m.bottlenecks.ForwardT(n0, train) // [B c2 H W]
	n0.MustDrop()
	n := m.outc.ForwardT(n1, train) // [B 1 H W]
	n1.MustDrop()

	sum := root.MustAdd(n, true)
	n.MustDrop()

	return sum.MustSquare(true).MustView(size, true)
}
