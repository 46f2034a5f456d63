package base

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"
)

// ConvBRConfig holds the convolution geometry of a ConvBR block.
type ConvBRConfig struct {
	KSize      int64
	Padding    int64
	Dilation   int64
	Stride     int64
	Activation bool // apply ReLU after batch norm
}

// DefaultConvBRConfig returns a 1x1, stride 1 config with activation.
func DefaultConvBRConfig() *ConvBRConfig {
	return &ConvBRConfig{
		KSize:      1,
		Padding:    0,
		Dilation:   1,
		Stride:     1,
		Activation: true,
	}
}

// ConvBRKernel returns DefaultConvBRConfig with the given kernel size and padding.
func ConvBRKernel(ksize, padding int64) *ConvBRConfig {
	cfg := DefaultConvBRConfig()
	cfg.KSize = ksize
	cfg.Padding = padding

	return cfg
}

// ConvBR is convolution + batch norm + optional ReLU.
// The 2D variant has no convolution bias, the 1D variant has one.
type ConvBR struct {
	Conv       ts.Module
	Bn         *nn.BatchNorm
	activation bool
}

// NewConvBR2d creates a ConvBR over [B C H W] inputs.
func NewConvBR2d(p *nn.Path, cIn, cOut int64, cfg *ConvBRConfig) *ConvBR {
	config := nn.DefaultConv2DConfig()
	config.Bias = false
	config.Stride = []int64{cfg.Stride, cfg.Stride}
	config.Padding = []int64{cfg.Padding, cfg.Padding}
	config.Dilation = []int64{cfg.Dilation, cfg.Dilation}

	return &ConvBR{
		Conv:       nn.NewConv2D(p.Sub("conv"), cIn, cOut, cfg.KSize, config),
		Bn:         nn.BatchNorm2D(p.Sub("bn"), cOut, nn.DefaultBatchNormConfig()),
		activation: cfg.Activation,
	}
}

// NewConvBR1d creates a ConvBR over [B C L] inputs.
func NewConvBR1d(p *nn.Path, cIn, cOut int64, cfg *ConvBRConfig) *ConvBR {
	config := nn.DefaultConv1DConfig()
	config.Bias = true
	config.Stride = []int64{cfg.Stride}
	config.Padding = []int64{cfg.Padding}
	config.Dilation = []int64{cfg.Dilation}

	return &ConvBR{
		Conv:       nn.NewConv1D(p.Sub("conv"), cIn, cOut, cfg.KSize, config),
		Bn:         nn.BatchNorm1D(p.Sub("bn"), cOut, nn.DefaultBatchNormConfig()),
		activation: cfg.Activation,
	}
}

// ForwardT implements ts.ModuleT for ConvBR struct.
func (m *ConvBR) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	conv := m.Conv.Forward(x)
	bn := m.Bn.ForwardT(conv, train)
	conv.MustDrop()
	if !m.activation {
		return bn
	}

	return bn.MustRelu(true)
}
