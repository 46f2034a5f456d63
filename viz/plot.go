package viz

import (
	"fmt"
	"math"
	"os"

	"github.com/sugarme/gotch/ts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// grid exposes a [F T] spectrogram as a plotter.GridXYZ with time on the
// x axis and frequency bin on the y axis.
type grid struct {
	values []float64
	rows   int
	cols   int
}

var _ plotter.GridXYZ = (*grid)(nil)

func newGrid(spec *ts.Tensor) (*grid, error) {
	size := spec.MustSize()
	if len(size) != 2 {
		return nil, fmt.Errorf("expected spectrogram of shape [F T], got %v", size)
	}
	if size[0] == 0 || size[1] == 0 {
		return nil, ErrEmptySpectrogram
	}

	return &grid{
		values: spec.Float64Values(),
		rows:   int(size[0]),
		cols:   int(size[1]),
	}, nil
}

func (g *grid) Dims() (c, r int) { return g.cols, g.rows }

func (g *grid) Z(c, r int) float64 { return g.values[r*g.cols+c] }

func (g *grid) X(c int) float64 { return float64(c) }

func (g *grid) Y(r int) float64 { return float64(r) }

func (g *grid) minMax() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range g.values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// PlotSpectrograms writes the spectrograms as vertically stacked heat maps
// into a PNG file. All panels share one colour scale.
func PlotSpectrograms(specs []*ts.Tensor, path string) error {
	if len(specs) == 0 {
		return ErrEmptySpectrogram
	}

	grids := make([]*grid, len(specs))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, spec := range specs {
		g, err := newGrid(spec)
		if err != nil {
			return fmt.Errorf("spectrogram %d: %w", i, err)
		}
		grids[i] = g
		l, h := g.minMax()
		lo, hi = math.Min(lo, l), math.Max(hi, h)
	}
	if lo == hi {
		hi = lo + 1
	}

	pal := palette.Heat(12, 1)
	plots := make([][]*plot.Plot, len(grids))
	for i, g := range grids {
		p, err := plot.New()
		if err != nil {
			return err
		}
		p.Title.Text = fmt.Sprintf("#%d", i)
		p.X.Label.Text = "frame"
		p.Y.Label.Text = "bin"

		h := plotter.NewHeatMap(g, pal)
		h.Min, h.Max = lo, hi
		p.Add(h)
		plots[i] = []*plot.Plot{p}
	}

	return savePlots(plots, path)
}

// savePlots draws a column of aligned plots into a PNG file.
func savePlots(plots [][]*plot.Plot, path string) error {
	const panelHeight = 3 * vg.Inch
	img := vgimg.New(8*vg.Inch, vg.Length(len(plots))*panelHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(plots),
		Cols: 1,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Close()
}
