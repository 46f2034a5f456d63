package base

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"
)

// SSE is the spatial squeeze and excitation gate.
// A 1x1 convolution to a single channel followed by sigmoid gives one weight
// per position, broadcast over channels.
type SSE struct {
	conv ts.Module
}

// NewSSE2d creates SSE over [B C H W] inputs.
func NewSSE2d(p *nn.Path, cIn int64) *SSE {
	return &SSE{conv: Conv2d(p.Sub("se").Sub("0"), cIn, 1, 1, 0, 1)}
}

// NewSSE1d creates SSE over [B C L] inputs.
func NewSSE1d(p *nn.Path, cIn int64) *SSE {
	return &SSE{conv: Conv1d(p.Sub("se").Sub("0"), cIn, 1, 1, 0, 1)}
}

// Gate returns the [B 1 ...] position mask in (0, 1).
func (m *SSE) Gate(x *ts.Tensor) *ts.Tensor {
	return m.conv.Forward(x).MustSigmoid(true)
}

// ForwardT implements ts.ModuleT for SSE struct.
func (m *SSE) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	gate := m.Gate(x)
	out := x.MustMul(gate, false)
	gate.MustDrop()

	return out
}

// CSE is the channel squeeze and excitation gate.
// Ref. https://arxiv.org/abs/1709.01507
type CSE struct {
	pool    func(x *ts.Tensor) *ts.Tensor
	squeeze ts.Module
	expand  ts.Module
}

// NewCSE2d creates CSE over [B C H W] inputs.
// cIn should be divisible by reduction (default 16).
func NewCSE2d(p *nn.Path, cIn int64, reductionOpt ...int64) *CSE {
	reduction := reductionOf(reductionOpt)
	se := p.Sub("se")

	return &CSE{
		pool: func(x *ts.Tensor) *ts.Tensor {
			return x.MustAdaptiveAvgPool2d([]int64{1, 1}, false)
		},
		squeeze: Conv2d(se.Sub("1"), cIn, cIn/reduction, 1, 0, 1),
		expand:  Conv2d(se.Sub("3"), cIn/reduction, cIn, 1, 0, 1),
	}
}

// NewCSE1d creates CSE over [B C L] inputs.
func NewCSE1d(p *nn.Path, cIn int64, reductionOpt ...int64) *CSE {
	reduction := reductionOf(reductionOpt)
	se := p.Sub("se")

	return &CSE{
		pool: func(x *ts.Tensor) *ts.Tensor {
			return x.MustAdaptiveAvgPool1d([]int64{1}, false)
		},
		squeeze: Conv1d(se.Sub("1"), cIn, cIn/reduction, 1, 0, 1),
		expand:  Conv1d(se.Sub("3"), cIn/reduction, cIn, 1, 0, 1),
	}
}

// Gate returns the [B C 1 ...] channel weights in (0, 1).
func (m *CSE) Gate(x *ts.Tensor) *ts.Tensor {
	pooled := m.pool(x)
	sqz := m.squeeze.Forward(pooled)
	pooled.MustDrop()
	relu := sqz.MustRelu(true)
	exc := m.expand.Forward(relu)
	relu.MustDrop()

	return exc.MustSigmoid(true)
}

// ForwardT implements ts.ModuleT for CSE struct.
func (m *CSE) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	gate := m.Gate(x)
	out := x.MustMul(gate, false)
	gate.MustDrop()

	return out
}

// SCSE is concurrent spatial and channel squeeze and excitement module.
// The two gated maps are summed: CSE(x) + SSE(x).
// Ref. https://arxiv.org/abs/1808.08127
type SCSE struct {
	CSE *CSE
	SSE *SSE
}

// NewSCSE2d creates SCSE over [B C H W] inputs.
func NewSCSE2d(p *nn.Path, cIn int64, reductionOpt ...int64) *SCSE {
	return &SCSE{
		CSE: NewCSE2d(p.Sub("c_se"), cIn, reductionOpt...),
		SSE: NewSSE2d(p.Sub("s_se"), cIn),
	}
}

// NewSCSE1d creates SCSE over [B C L] inputs.
func NewSCSE1d(p *nn.Path, cIn int64, reductionOpt ...int64) *SCSE {
	return &SCSE{
		CSE: NewCSE1d(p.Sub("c_se"), cIn, reductionOpt...),
		SSE: NewSSE1d(p.Sub("s_se"), cIn),
	}
}

// ForwardT implements ts.ModuleT for SCSE struct.
func (m *SCSE) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	cse := m.CSE.ForwardT(x, train)
	sse := m.SSE.ForwardT(x, train)
	res := cse.MustAdd(sse, true)
	sse.MustDrop()

	return res
}

func reductionOf(opt []int64) int64 {
	var reduction int64 = 16
	if len(opt) > 0 {
		reduction = opt[0]
	}

	return reduction
}
