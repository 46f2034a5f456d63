package preprocess

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/sugarme/gotch/ts"
)

// Audio is a clip id with its [NMels T] mel spectrogram.
type Audio struct {
	ID          string
	Spectrogram *ts.Tensor
}

var idPattern = regexp.MustCompile(`\d+`)

// AudioID returns the first run of digits in the file name, or the base
// name without extension when there is none.
func AudioID(path string) string {
	name := filepath.Base(path)
	if id := idPattern.FindString(name); id != "" {
		return id
	}

	return strings.TrimSuffix(name, filepath.Ext(name))
}

// LoadAudio loads a .wav or .flac file.
func LoadAudio(path string) ([]float64, int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return LoadWav(path)
	case ".flac":
		return LoadFlac(path)
	default:
		return nil, 0, fmt.Errorf("unsupported audio format: %s", path)
	}
}

// ConvertAll converts audio files to mel spectrograms with at most workers
// goroutines. The first failure cancels the remaining work. Results are
// sorted by ID.
func (c *MelConfig) ConvertAll(ctx context.Context, paths []string, workers int) ([]*Audio, error) {
	if workers < 1 {
		workers = 1
	}

	audios := make([]*Audio, len(paths))
	p := pool.New().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(workers)
	for i, path := range paths {
		i, path := i, path
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			samples, sr, err := LoadAudio(path)
			if err != nil {
				return err
			}
			if sr != c.SampleRate {
				log.Printf("%s: sample rate %d differs from configured %d\n", path, sr, c.SampleRate)
			}
			spec, err := c.ToMel(samples)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			audios[i] = &Audio{ID: AudioID(path), Spectrogram: spec}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		for _, a := range audios {
			if a != nil {
				a.Spectrogram.MustDrop()
			}
		}
		return nil, err
	}
	log.Printf("Converted %d audio files\n", len(audios))

	sort.Slice(audios, func(i, j int) bool { return audios[i].ID < audios[j].ID })

	return audios, nil
}
