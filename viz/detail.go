package viz

import (
	"fmt"
	"image/color"

	"github.com/sugarme/gotch/ts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
)

// gray is a linear black-to-white palette.
type gray int

func (n gray) Colors() []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		y := uint16(i * 0xffff / (int(n) - 1))
		out[i] = color.Gray16{Y: y}
	}
	return out
}

var _ palette.Palette = gray(0)

// diff returns the difference between neighbouring frequency bins,
// row r holding bin r+1 minus bin r.
func (g *grid) diff() *grid {
	out := &grid{
		values: make([]float64, (g.rows-1)*g.cols),
		rows:   g.rows - 1,
		cols:   g.cols,
	}
	for r := 0; r < out.rows; r++ {
		for c := 0; c < g.cols; c++ {
			out.values[r*g.cols+c] = g.Z(c, r+1) - g.Z(c, r)
		}
	}
	return out
}

// energy sums each frame over its frequency bins.
func (g *grid) energy() plotter.XYs {
	xys := make(plotter.XYs, g.cols)
	for c := range xys {
		xys[c].X = float64(c)
		for r := 0; r < g.rows; r++ {
			xys[c].Y += g.Z(c, r)
		}
	}
	return xys
}

func heatPlot(g *grid, title string, pal palette.Palette) (*plot.Plot, error) {
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = title
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "bin"

	h := plotter.NewHeatMap(g, pal)
	if lo, hi := g.minMax(); lo == hi {
		h.Min, h.Max = lo, lo+1
	}
	p.Add(h)
	return p, nil
}

// PlotDetail writes a three-panel inspection plot of one [F T] spectrogram:
// the spectrogram in grayscale, its difference along the frequency axis and
// the energy of every frame. The spectrogram needs at least two bins.
func PlotDetail(spec *ts.Tensor, path string) error {
	g, err := newGrid(spec)
	if err != nil {
		return err
	}
	if g.rows < 2 {
		return fmt.Errorf("frequency difference needs at least 2 bins, got %d", g.rows)
	}

	pal := gray(64)
	magnitude, err := heatPlot(g, "spectrogram", pal)
	if err != nil {
		return err
	}
	delta, err := heatPlot(g.diff(), "frequency difference", pal)
	if err != nil {
		return err
	}

	energy, err := plot.New()
	if err != nil {
		return err
	}
	energy.Title.Text = "frame energy"
	energy.X.Label.Text = "frame"
	energy.Y.Label.Text = "energy"
	line, err := plotter.NewLine(g.energy())
	if err != nil {
		return err
	}
	energy.Add(line)

	return savePlots([][]*plot.Plot{{magnitude}, {delta}, {energy}}, path)
}
