// Package viz renders spectrograms as plots and images for inspection.
package viz

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/chai2010/tiff"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/sugarme/gotch/ts"
)

// ErrEmptySpectrogram is returned when there is nothing to render.
var ErrEmptySpectrogram = errors.New("empty spectrogram")

// Gray16 maps a [F T] spectrogram to a 16-bit grayscale image of width T
// and height F, min-max normalised, with bin 0 on the bottom row.
func Gray16(spec *ts.Tensor) (*image.Gray16, error) {
	g, err := newGrid(spec)
	if err != nil {
		return nil, err
	}
	lo, hi := g.minMax()
	scale := 0.0
	if hi > lo {
		scale = math.MaxUint16 / (hi - lo)
	}

	img := image.NewGray16(image.Rect(0, 0, g.cols, g.rows))
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			v := (g.Z(c, r) - lo) * scale
			img.SetGray16(c, g.rows-1-r, color.Gray16{Y: uint16(math.Round(v))})
		}
	}

	return img, nil
}

// SaveImage writes a spectrogram as a grayscale image, resized to
// width x height when both are positive. The format follows the file
// extension.
func SaveImage(spec *ts.Tensor, path string, width, height int) error {
	gray, err := Gray16(spec)
	if err != nil {
		return err
	}
	var img image.Image = gray
	if width > 0 && height > 0 {
		img = resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	}

	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	return nil
}

// SaveTIFF writes a spectrogram as a lossless 16-bit grayscale TIFF.
func SaveTIFF(spec *ts.Tensor, path string) error {
	img, err := Gray16(spec)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tiff.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return f.Close()
}
