package unet

import (
	"log"

	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/denoise/base"
	"github.com/sugarme/denoise/encoder"
)

// UpConfig configures an up-sampling block.
type UpConfig struct {
	Bilinear bool // fixed interpolation instead of a learned transposed conv
	Merge    bool // concatenate the skip input on channels
}

// DefaultUpConfig returns transposed conv up-sampling with merge.
func DefaultUpConfig() *UpConfig {
	return &UpConfig{Bilinear: false, Merge: true}
}

// Up1d doubles the length of x1, aligns it to the skip input x2, merges and
// refines with two ConvBR1d.
type Up1d struct {
	Up    ts.Module // nil for linear interpolation
	Conv1 *base.ConvBR
	Conv2 *base.ConvBR

	merge bool
}

// NewUp1d creates Up1d.
func NewUp1d(p *nn.Path, cIn, cOut int64, cfg *UpConfig) *Up1d {
	u := &Up1d{merge: cfg.Merge}
	if !cfg.Bilinear {
		u.Up = base.ConvTranspose1d(p.Sub("up"), cIn, cIn, 2, 0, 2)
	}

	conv1In := cIn
	if cfg.Merge {
		conv1In += cOut
	}
	u.Conv1 = base.NewConvBR1d(p.Sub("conv1"), conv1In, cOut, base.ConvBRKernel(3, 1))
	u.Conv2 = base.NewConvBR1d(p.Sub("conv2"), cOut, cOut, base.ConvBRKernel(3, 1))

	return u
}

// ForwardSkip upsamples x1 and fuses it with skip input x2.
// x1: [B cIn L], x2: [B cOut L2] => [B cOut L2].
func (u *Up1d) ForwardSkip(x1, x2 *ts.Tensor, train bool) *ts.Tensor {
	var up *ts.Tensor
	if u.Up != nil {
		up = u.Up.Forward(x1)
	} else {
		up = base.UpsampleLinear1d(x1, 2)
	}

	// Split is [diff//2, diff - diff//2]; a negative diff crops.
	diff := x2.MustSize()[2] - up.MustSize()[2]
	half := base.FloorDiv(diff, 2)
	aligned := base.PadLast(up, half, diff-half)
	up.MustDrop()

	x := merge(x2, aligned, u.merge)
	c1 := u.Conv1.ForwardT(x, train)
	x.MustDrop()
	c2 := u.Conv2.ForwardT(c1, train)
	c1.MustDrop()

	return c2
}

// Up2d doubles height and width of x1, aligns it to x2, merges, then
// refines through ConvBR2d and SENextBottleneck2d.
type Up2d struct {
	Up    ts.Module // nil for bilinear interpolation
	Conv1 *base.ConvBR
	Conv2 *encoder.SENextBottleneck2d

	merge bool
}

// NewUp2d creates Up2d.
func NewUp2d(p *nn.Path, cIn, cOut int64, cfg *UpConfig) *Up2d {
	u := &Up2d{merge: cfg.Merge}
	if !cfg.Bilinear {
		u.Up = base.ConvTranspose2d(p.Sub("up"), cIn, cIn, 2, 0, 2)
	}

	conv1In := cIn
	if cfg.Merge {
		conv1In += cOut
	}
	u.Conv1 = base.NewConvBR2d(p.Sub("conv1"), conv1In, cIn, base.ConvBRKernel(3, 1))
	u.Conv2 = encoder.NewSENextBottleneck2d(p.Sub("conv2"), cIn, cOut, encoder.DefaultBottleneck2dConfig())

	return u
}

// ForwardSkip upsamples x1 and fuses it with skip input x2.
// x1: [B cIn H W], x2: [B cOut H2 W2] => [B cOut H2 W2].
//
// Only the width axis is padded, by (diffH - diffH//2, diffW - diffW//2).
// Height is never reconciled, so H2 must equal 2H; inputs whose spatial
// sizes are multiples of 8 always satisfy this in UNet2d.
func (u *Up2d) ForwardSkip(x1, x2 *ts.Tensor, train bool) *ts.Tensor {
	var up *ts.Tensor
	if u.Up != nil {
		up = u.Up.Forward(x1)
	} else {
		up = base.UpsampleBilinear2d(x1, 2)
	}

	upSize := up.MustSize()
	x2Size := x2.MustSize()
	diffH := x2Size[2] - upSize[2]
	diffW := x2Size[3] - upSize[3]
	aligned := base.PadLast(up, diffH-base.FloorDiv(diffH, 2), diffW-base.FloorDiv(diffW, 2))
	up.MustDrop()

	x := merge(x2, aligned, u.merge)
	c1 := u.Conv1.ForwardT(x, train)
	x.MustDrop()
	c2 := u.Conv2.ForwardT(c1, train)
	c1.MustDrop()

	return c2
}

// merge concatenates [skip, up] on channels and releases up.
func merge(skip, up *ts.Tensor, enabled bool) *ts.Tensor {
	if !enabled {
		return up
	}

	cat := ts.MustCat([]*ts.Tensor{skip, up}, 1)
	up.MustDrop()

	return cat
}

// UNet1dDecoder is the expanding path of UNet1d.
type UNet1dDecoder struct {
	Up4 *Up1d
	Up3 *Up1d
	Up2 *Up1d
	Up1 *Up1d
}

// NewUNet1dDecoder creates UNet1dDecoder.
func NewUNet1dDecoder(p *nn.Path, baseChannel int64) *UNet1dDecoder {
	b := baseChannel
	cfg := DefaultUpConfig()

	return &UNet1dDecoder{
		Up4: NewUp1d(p.Sub("up4"), b*16, b*8, cfg),
		Up3: NewUp1d(p.Sub("up3"), b*8, b*4, cfg),
		Up2: NewUp1d(p.Sub("up2"), b*4, b*2, cfg),
		Up1: NewUp1d(p.Sub("up1"), b*2, b, cfg),
	}
}

// ForwardFeatures forwards through encoder features [n0 n1 n2 n3 n4].
//
// Every stage reads encoder features only: up4(n4, n3), up3(n3, n2),
// up2(n2, n1), up1(n1, n0). The outputs of up4, up3 and up2 are released
// unused and up1's output is returned. Trained checkpoints depend on this
// wiring.
// TODO: chain the decoder outputs once checkpoints trained with this wiring are retired.
func (d *UNet1dDecoder) ForwardFeatures(features []*ts.Tensor, train bool) *ts.Tensor {
	if len(features) != 5 {
		log.Fatalf("Expected features of 5 tensors. Got %v\n", len(features))
	}
	n0, n1, n2, n3, n4 := features[0], features[1], features[2], features[3], features[4]

	z4 := d.Up4.ForwardSkip(n4, n3, train)
	z4.MustDrop()
	z3 := d.Up3.ForwardSkip(n3, n2, train)
	z3.MustDrop()
	z2 := d.Up2.ForwardSkip(n2, n1, train)
	z2.MustDrop()

	return d.Up1.ForwardSkip(n1, n0, train) // [B b L+2]
}

// UNet2dDecoder is the expanding path of UNet2d.
type UNet2dDecoder struct {
	Up3 *Up2d
	Up2 *Up2d
	Up1 *Up2d
}

// NewUNet2dDecoder creates UNet2dDecoder with bilinear up-sampling.
func NewUNet2dDecoder(p *nn.Path, baseChannel int64) *UNet2dDecoder {
	b := baseChannel
	cfg := &UpConfig{Bilinear: true, Merge: true}

	return &UNet2dDecoder{
		Up3: NewUp2d(p.Sub("up3"), b*8, b*4, cfg),
		Up2: NewUp2d(p.Sub("up2"), b*4, b*2, cfg),
		Up1: NewUp2d(p.Sub("up1"), b*2, b, cfg),
	}
}

// ForwardFeatures forwards through encoder features [n0 n1 n2 n3].
//
// Same wiring as UNet1dDecoder: up3(n3, n2), up2(n2, n1), up1(n1, n0), only
// up1's output is returned.
func (d *UNet2dDecoder) ForwardFeatures(features []*ts.Tensor, train bool) *ts.Tensor {
	if len(features) != 4 {
		log.Fatalf("Expected features of 4 tensors. Got %v\n", len(features))
	}
	n0, n1, n2, n3 := features[0], features[1], features[2], features[3]

	z3 := d.Up3.ForwardSkip(n3, n2, train)
	z3.MustDrop()
	z2 := d.Up2.ForwardSkip(n2, n1, train)
	z2.MustDrop()

	return d.Up1.ForwardSkip(n1, n0, train) // [B b H W]
}
