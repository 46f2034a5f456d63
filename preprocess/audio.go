package preprocess

import (
	"fmt"
	"io"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/mewkiz/flac"
)

// LoadWav loads a wav file as mono samples in [-1, 1] and returns its
// sample rate. Multi-channel audio is averaged.
func LoadWav(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	stream, format, err := wav.Decode(f)
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	defer stream.Close()

	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := stream.Stream(buf)
		for i := 0; i < n; i++ {
			if format.NumChannels == 1 {
				out = append(out, buf[i][0])
			} else {
				out = append(out, (buf[i][0]+buf[i][1])/2)
			}
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	if len(out) == 0 {
		return nil, 0, ErrEmptyAudio
	}

	return out, int(format.SampleRate), nil
}

// SaveWav writes mono 16-bit samples.
func SaveWav(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	pos := 0
	streamer := beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}
		n := copy2(buf, samples[pos:])
		pos += n
		return n, true
	})
	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 1,
		Precision:   2,
	}
	if err := wav.Encode(f, streamer, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return f.Close()
}

func copy2(dst [][2]float64, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] = [2]float64{src[i], src[i]}
	}

	return n
}

// LoadFlac loads the first channel of a flac file as samples in [-1, 1]
// and returns its sample rate.
func LoadFlac(path string) ([]float64, int, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", path, err)
	}
	defer stream.Close()

	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))
	var out []float64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", path, err)
		}
		sub := frame.Subframes[0]
		for i := 0; i < sub.NSamples; i++ {
			out = append(out, float64(sub.Samples[i])/scale)
		}
	}
	if len(out) == 0 {
		return nil, 0, ErrEmptyAudio
	}

	return out, int(stream.Info.SampleRate), nil
}
