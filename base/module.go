package base

import (
	"log"

	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"
)

// Identity is a nn.Module placeholder.
// It forwards a shallow clone of the input so the result can be dropped
// without releasing the caller's tensor.
type Identity struct{}

// Forward implement nn.Module for Identity struct
func (i *Identity) Forward(x *ts.Tensor) *ts.Tensor {
	return x.MustShallowClone()
}

// ForwardT implement nn.ModuleT for Identity struct.
func (i *Identity) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	return x.MustShallowClone()
}

// NewIdentity creates a new Identity struct.
func NewIdentity() *Identity {
	return &Identity{}
}

// Attention wraps one of the squeeze-excitation gates (SSE, CSE, SCSE).
// Without a gate it behaves as Identity.
type Attention struct {
	attn ts.ModuleT
}

// ForwardT implements ts.ModuleT for Attention struct.
func (a *Attention) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	return a.attn.ForwardT(x, train)
}

// NewAttention creates a new Attention.
func NewAttention(moduleOpt ...ts.ModuleT) *Attention {
	var attention ts.ModuleT = NewIdentity()
	if len(moduleOpt) > 0 {
		attention = moduleOpt[0]
		switch attention.(type) {
		case *SSE, *CSE, *SCSE:
		default:
			log.Fatalf("Unsupported module type. Only support SSE, CSE and SCSE module types. Got %T\n", attention)
		}
	}

	return &Attention{attention}
}

// Conv2d creates Conv2D module.
func Conv2d(p *nn.Path, cIn, cOut, ksize, padding, stride int64) *nn.Conv2D {
	config := nn.DefaultConv2DConfig()
	config.Stride = []int64{stride, stride}
	config.Padding = []int64{padding, padding}

	return nn.NewConv2D(p, cIn, cOut, ksize, config)
}

// Conv1d creates Conv1D module.
func Conv1d(p *nn.Path, cIn, cOut, ksize, padding, stride int64) *nn.Conv1D {
	config := nn.DefaultConv1DConfig()
	config.Stride = []int64{stride}
	config.Padding = []int64{padding}

	return nn.NewConv1D(p, cIn, cOut, ksize, config)
}

// ConvTranspose1d creates ConvTranspose1D module with bias.
func ConvTranspose1d(p *nn.Path, cIn, cOut, ksize, padding, stride int64) *nn.ConvTranspose1D {
	config := nn.DefaultConvTranspose1DConfig()
	config.Stride = []int64{stride}
	config.Padding = []int64{padding}

	return nn.NewConvTranspose1D(p, cIn, cOut, []int64{ksize}, config)
}

// ConvTranspose2d creates ConvTranspose2D module with bias.
func ConvTranspose2d(p *nn.Path, cIn, cOut, ksize, padding, stride int64) *nn.ConvTranspose2D {
	config := nn.DefaultConvTranspose2DConfig()
	config.Stride = []int64{stride, stride}
	config.Padding = []int64{padding, padding}

	return nn.NewConvTranspose2D(p, cIn, cOut, []int64{ksize, ksize}, config)
}
