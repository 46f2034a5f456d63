package unet

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/denoise/base"
	"github.com/sugarme/denoise/encoder"
)

// Config holds the width of a UNet. Channels double at every down stage.
type Config struct {
	BaseChannel int64
}

// DefaultUNet1dConfig returns a base width of 128.
func DefaultUNet1dConfig() *Config {
	return &Config{BaseChannel: 128}
}

// DefaultUNet2dConfig returns a base width of 16.
func DefaultUNet2dConfig() *Config {
	return &Config{BaseChannel: 16}
}

// UNet1d denoises [B cIn L] spectrograms into [B cOut L].
// Ref: https://arxiv.org/abs/1505.04597
type UNet1d struct {
	encoder encoder.Encoder
	decoder *UNet1dDecoder
	outc    *nn.SequentialT
}

// NewUNet1d creates UNet1d. Output values are clamped to [1e-10, 1].
func NewUNet1d(p *nn.Path, cIn, cOut int64, cfg *Config) *UNet1d {
	b := cfg.BaseChannel

	return &UNet1d{
		encoder: encoder.NewUNet1dEncoder(p, cIn, b),
		decoder: NewUNet1dDecoder(p, b),
		outc:    base.NewClampHead1d(p.Sub("outc"), b, cOut, 3, 0, 1e-10, 1.0),
	}
}

// ForwardT implements ts.ModuleT for UNet1d struct.
// The length must satisfy L+2 >= 16.
func (n *UNet1d) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	features := n.encoder.ForwardAll(x, train)
	out := n.decoder.ForwardFeatures(features, train) // [B b L+2]
	logit := n.outc.ForwardT(out, train)              // [B cOut L]

	for _, f := range features {
		f.MustDrop()
	}
	out.MustDrop()

	return logit
}

// UNet2d denoises [B H W] spectrograms. It predicts a correction in log
// space: out = exp(net(log x) + log x). Inputs must be positive; H and W
// should be multiples of 8.
type UNet2d struct {
	encoder encoder.Encoder
	decoder *UNet2dDecoder
	outc    *encoder.SENextBottleneck2d
	logit   ts.Module
}

// NewUNet2d creates UNet2d. The network works on a single implicit channel,
// cIn and cOut describe the caller's convention and do not change the graph.
func NewUNet2d(p *nn.Path, cIn, cOut int64, cfg *Config) *UNet2d {
	b := cfg.BaseChannel
	outc := p.Sub("outc")

	return &UNet2d{
		encoder: encoder.NewUNet2dEncoder(p, b),
		decoder: NewUNet2dDecoder(p, b),
		outc:    encoder.NewSENextBottleneck2d(outc.Sub("0"), b, b, encoder.DefaultBottleneck2dConfig()),
		logit:   base.Conv2d(outc.Sub("1"), b, 1, 1, 0, 1),
	}
}

// ForwardT implements ts.ModuleT for UNet2d struct.
func (n *UNet2d) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	size := x.MustSize() // [B H W]
	x4 := x.MustView([]int64{size[0], 1, size[1], size[2]}, false)
	logx := x4.MustLog(true) // [B 1 H W]

	features := n.encoder.ForwardAll(logx, train)
	z := n.decoder.ForwardFeatures(features, train) // [B b H W]
	for _, f := range features {
		f.MustDrop()
	}
	o := n.outc.ForwardT(z, train)
	z.MustDrop()
	delta := n.logit.Forward(o) // [B 1 H W]
	o.MustDrop()

	sum := delta.MustAdd(logx, true)
	logx.MustDrop()

	return sum.MustExp(true).MustView(size, true)
}
