package encoder

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/denoise/base"
)

// Encoder is encoder interface for a spectrogram denoising model.
// ForwardAll returns the stem output followed by every down-sampling stage,
// finest first. The caller owns and drops the returned tensors.
type Encoder interface {
	ForwardAll(x *ts.Tensor, train bool) []*ts.Tensor
}

// UNet1dEncoder is the contracting path of UNet1d.
type UNet1dEncoder struct {
	Inc    ts.Module
	Down1  *Down1d
	Down2  *Down1d
	Down3  *Down1d
	Down4  *Down1d
	Center *SENextBottleneck1d
}

// NewUNet1dEncoder creates UNet1dEncoder with the given base width.
func NewUNet1dEncoder(p *nn.Path, cIn, baseChannel int64) *UNet1dEncoder {
	b := baseChannel

	return &UNet1dEncoder{
		// kernel 3 with padding 2 grows the length by 2; the head trims it back.
		Inc:    base.Conv1d(p.Sub("inc").Sub("0"), cIn, b, 3, 2, 1),
		Down1:  NewDown1d(p.Sub("down1"), b, b*2, base.MaxPool),
		Down2:  NewDown1d(p.Sub("down2"), b*2, b*4, base.MaxPool),
		Down3:  NewDown1d(p.Sub("down3"), b*4, b*8, base.MaxPool),
		Down4:  NewDown1d(p.Sub("down4"), b*8, b*16, base.MaxPool),
		Center: NewSENextBottleneck1d(p.Sub("center"), b*16, b*16, DefaultBottleneck1dConfig()),
	}
}

// ForwardAll implements Encoder interface for UNet1dEncoder.
// Features: [n0 n1 n2 n3 n4], n4 being the center output.
func (e *UNet1dEncoder) ForwardAll(x *ts.Tensor, train bool) []*ts.Tensor {
	n0 := e.Inc.Forward(x)             // [B b    L+2     ]
	n1 := e.Down1.ForwardT(n0, train)  // [B 2b   (L+2)/2 ]
	n2 := e.Down2.ForwardT(n1, train)  // [B 4b   (L+2)/4 ]
	n3 := e.Down3.ForwardT(n2, train)  // [B 8b   (L+2)/8 ]
	d4 := e.Down4.ForwardT(n3, train)  // [B 16b  (L+2)/16]
	n4 := e.Center.ForwardT(d4, train) // [B 16b  (L+2)/16]
	d4.MustDrop()

	return []*ts.Tensor{n0, n1, n2, n3, n4}
}

// UNet2dEncoder is the contracting path of UNet2d.
type UNet2dEncoder struct {
	Inc   ts.Module
	Down1 *Down2d
	Down2 *Down2d
	Down3 *Down2d
}

// NewUNet2dEncoder creates UNet2dEncoder. The stem always reads one channel.
func NewUNet2dEncoder(p *nn.Path, baseChannel int64) *UNet2dEncoder {
	b := baseChannel

	return &UNet2dEncoder{
		Inc:   base.Conv2d(p.Sub("inc").Sub("0"), 1, b, 3, 1, 1),
		Down1: NewDown2d(p.Sub("down1"), b, b*2, base.MaxPool),
		Down2: NewDown2d(p.Sub("down2"), b*2, b*4, base.MaxPool),
		Down3: NewDown2d(p.Sub("down3"), b*4, b*8, base.AvgPool),
	}
}

// ForwardAll implements Encoder interface for UNet2dEncoder.
// Features: [n0 n1 n2 n3].
func (e *UNet2dEncoder) ForwardAll(x *ts.Tensor, train bool) []*ts.Tensor {
	n0 := e.Inc.Forward(x)            // [B b  H   W  ]
	n1 := e.Down1.ForwardT(n0, train) // [B 2b H/2 W/2]
	n2 := e.Down2.ForwardT(n1, train) // [B 4b H/4 W/4]
	n3 := e.Down3.ForwardT(n2, train) // [B 8b H/8 W/8]

	return []*ts.Tensor{n0, n1, n2, n3}
}
