package encoder

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/denoise/base"
)

// BottleneckConfig configures a SENextBottleneck block.
type BottleneckConfig struct {
	Stride    int64
	Reduction int64 // squeeze-excitation channel reduction
	Dilation  int64
	Padding   int64
	Pool      base.PoolKind // branch down-sampling when Stride > 1
	Shortcut  bool          // project the residual through a 1x1 ConvBR
}

// DefaultBottleneck2dConfig returns stride 1, reduction 4, max pool, with shortcut.
func DefaultBottleneck2dConfig() *BottleneckConfig {
	return &BottleneckConfig{
		Stride:    1,
		Reduction: 4,
		Dilation:  1,
		Padding:   1,
		Pool:      base.MaxPool,
		Shortcut:  true,
	}
}

// DefaultBottleneck1dConfig returns stride 1, reduction 16, max pool, without shortcut.
func DefaultBottleneck1dConfig() *BottleneckConfig {
	return &BottleneckConfig{
		Stride:    1,
		Reduction: 16,
		Dilation:  1,
		Padding:   1,
		Pool:      base.MaxPool,
		Shortcut:  false,
	}
}

// SENextBottleneck2d is a residual block gated by channel squeeze-excitation.
//
//	branch   = CSE(pool(conv2(x)))
//	residual = shortcut(avgpool(x)) or x
//	out      = relu(residual + branch)
//
// conv1 is evaluated and its output discarded; the branch reads conv2(x).
// Pool and Shortcut are nil when not configured. Without a shortcut the
// input must already have cOut channels.
type SENextBottleneck2d struct {
	Conv1    *base.ConvBR
	Conv2    *base.ConvBR
	SE       *base.Attention
	Pool     *base.Pool
	Shortcut *base.ConvBR

	shortcutPool *base.Pool
}

// NewSENextBottleneck2d creates SENextBottleneck2d.
func NewSENextBottleneck2d(p *nn.Path, cIn, cOut int64, cfg *BottleneckConfig) *SENextBottleneck2d {
	convCfg := base.ConvBRKernel(3, cfg.Padding)
	convCfg.Dilation = cfg.Dilation

	b := &SENextBottleneck2d{
		Conv1: base.NewConvBR2d(p.Sub("conv1"), cIn, cOut, convCfg),
		Conv2: base.NewConvBR2d(p.Sub("conv2"), cIn, cOut, convCfg),
		SE:    base.NewAttention(base.NewCSE2d(p.Sub("se"), cOut, cfg.Reduction)),
	}
	if cfg.Shortcut {
		scCfg := base.DefaultConvBRConfig()
		scCfg.Activation = false
		b.Shortcut = base.NewConvBR2d(p.Sub("shortcut"), cIn, cOut, scCfg)
	}
	if cfg.Stride > 1 {
		b.Pool = base.NewPool2d(cfg.Pool, cfg.Stride)
		b.shortcutPool = base.NewPool2d(base.AvgPool, cfg.Stride)
	}

	return b
}

// ForwardT implements ts.ModuleT for SENextBottleneck2d struct.
func (b *SENextBottleneck2d) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	// conv1 still runs so its batch-norm statistics track the input.
	c1 := b.Conv1.ForwardT(x, train)
	c1.MustDrop()

	s := b.Conv2.ForwardT(x, train)
	if b.Pool != nil {
		pooled := b.Pool.Forward(s)
		s.MustDrop()
		s = pooled
	}
	gated := b.SE.ForwardT(s, train)
	s.MustDrop()

	res := residual(x, b.Shortcut, b.shortcutPool, train)
	sum := res.MustAdd(gated, true)
	gated.MustDrop()

	return sum.MustRelu(true)
}

// SENextBottleneck1d is the [B C L] residual block gated by SCSE.
//
//	branch   = SCSE(pool(conv2(conv1(x))))
//	residual = shortcut(avgpool(x)) or x
//	out      = relu(residual + branch)
type SENextBottleneck1d struct {
	Conv1    *base.ConvBR
	Conv2    *base.ConvBR
	SE       *base.Attention
	Pool     *base.Pool
	Shortcut *base.ConvBR

	shortcutPool *base.Pool
}

// NewSENextBottleneck1d creates SENextBottleneck1d.
func NewSENextBottleneck1d(p *nn.Path, cIn, cOut int64, cfg *BottleneckConfig) *SENextBottleneck1d {
	convCfg := base.ConvBRKernel(3, cfg.Padding)
	convCfg.Dilation = cfg.Dilation

	b := &SENextBottleneck1d{
		Conv1: base.NewConvBR1d(p.Sub("conv1"), cIn, cOut, convCfg),
		Conv2: base.NewConvBR1d(p.Sub("conv2"), cOut, cOut, convCfg),
		SE:    base.NewAttention(base.NewSCSE1d(p.Sub("se"), cOut, cfg.Reduction)),
	}
	if cfg.Shortcut {
		scCfg := base.DefaultConvBRConfig()
		scCfg.Activation = false
		b.Shortcut = base.NewConvBR1d(p.Sub("shortcut"), cIn, cOut, scCfg)
	}
	if cfg.Stride > 1 {
		b.Pool = base.NewPool1d(cfg.Pool, cfg.Stride)
		b.shortcutPool = base.NewPool1d(base.AvgPool, cfg.Stride)
	}

	return b
}

// ForwardT implements ts.ModuleT for SENextBottleneck1d struct.
func (b *SENextBottleneck1d) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	c1 := b.Conv1.ForwardT(x, train)
	s := b.Conv2.ForwardT(c1, train)
	c1.MustDrop()
	if b.Pool != nil {
		pooled := b.Pool.Forward(s)
		s.MustDrop()
		s = pooled
	}
	gated := b.SE.ForwardT(s, train)
	s.MustDrop()

	res := residual(x, b.Shortcut, b.shortcutPool, train)
	sum := res.MustAdd(gated, true)
	gated.MustDrop()

	return sum.MustRelu(true)
}

// residual returns the shortcut path of a bottleneck. The input is never
// dropped.
func residual(x *ts.Tensor, shortcut *base.ConvBR, pool *base.Pool, train bool) *ts.Tensor {
	if shortcut == nil {
		return x.MustShallowClone()
	}
	if pool == nil {
		return shortcut.ForwardT(x, train)
	}

	pooled := pool.Forward(x)
	out := shortcut.ForwardT(pooled, train)
	pooled.MustDrop()

	return out
}
