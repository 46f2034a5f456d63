package encoder

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/denoise/base"
)

// Down1d halves the length with one strided SENextBottleneck1d.
type Down1d struct {
	Block *SENextBottleneck1d
}

// NewDown1d creates Down1d.
func NewDown1d(p *nn.Path, cIn, cOut int64, pool base.PoolKind) *Down1d {
	cfg := DefaultBottleneck1dConfig()
	cfg.Stride = 2
	cfg.Shortcut = true
	cfg.Pool = pool

	return &Down1d{
		Block: NewSENextBottleneck1d(p.Sub("block").Sub("0"), cIn, cOut, cfg),
	}
}

// ForwardT implements ts.ModuleT for Down1d struct.
func (d *Down1d) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	return d.Block.ForwardT(x, train)
}

// Down2d halves height and width with a strided SENextBottleneck2d, then
// refines with a stride 1 block without shortcut.
type Down2d struct {
	Block *nn.SequentialT
}

// NewDown2d creates Down2d.
func NewDown2d(p *nn.Path, cIn, cOut int64, pool base.PoolKind) *Down2d {
	first := DefaultBottleneck2dConfig()
	first.Stride = 2
	first.Shortcut = true
	first.Pool = pool

	second := DefaultBottleneck2dConfig()
	second.Shortcut = false

	block := nn.SeqT()
	block.Add(NewSENextBottleneck2d(p.Sub("block").Sub("0"), cIn, cOut, first))
	block.Add(NewSENextBottleneck2d(p.Sub("block").Sub("1"), cOut, cOut, second))

	return &Down2d{block}
}

// ForwardT implements ts.ModuleT for Down2d struct.
func (d *Down2d) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	return d.Block.ForwardT(x, train)
}
