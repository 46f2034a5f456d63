package preprocess

import (
	"math"

	"github.com/go-gota/gota/dataframe"
)

type clipStats struct {
	ID     string  `dataframe:"id"`
	Frames int     `dataframe:"frames"`
	Min    float64 `dataframe:"min"`
	Max    float64 `dataframe:"max"`
}

// Summary returns one row per clip with columns id, frames, min and max.
func Summary(audios []*Audio) dataframe.DataFrame {
	rows := make([]clipStats, 0, len(audios))
	for _, a := range audios {
		size := a.Spectrogram.MustSize()
		lo, hi := valueRange(a.Spectrogram.Float64Values())
		rows = append(rows, clipStats{
			ID:     a.ID,
			Frames: int(size[len(size)-1]),
			Min:    lo,
			Max:    hi,
		})
	}

	return dataframe.LoadStructs(rows)
}

// Ranges returns the frame count range and value range over all clips.
func Ranges(audios []*Audio) (frames [2]int, values [2]float64) {
	frames = [2]int{math.MaxInt32, 0}
	values = [2]float64{math.Inf(1), math.Inf(-1)}
	for _, a := range audios {
		size := a.Spectrogram.MustSize()
		n := int(size[len(size)-1])
		if n < frames[0] {
			frames[0] = n
		}
		if n > frames[1] {
			frames[1] = n
		}
		lo, hi := valueRange(a.Spectrogram.Float64Values())
		values[0] = math.Min(values[0], lo)
		values[1] = math.Max(values[1], hi)
	}

	return frames, values
}

func valueRange(v []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}

	return lo, hi
}
