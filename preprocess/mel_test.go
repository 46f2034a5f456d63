package preprocess_test

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sugarme/denoise/preprocess"
)

func testConfig() *preprocess.MelConfig {
	return &preprocess.MelConfig{
		SampleRate:           8000,
		NFFT:                 512,
		HopLength:            128,
		NMels:                32,
		GriffinLimIterations: 4,
	}
}

func sine(n int, freq, sampleRate float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

func TestToMel(t *testing.T) {
	cfg := testConfig()
	samples := sine(128*40, 440, 8000)

	spec, err := cfg.ToMel(samples)
	require.NoError(t, err)
	assert.Equal(t, []int64{32, 41}, spec.MustSize())
	for _, v := range spec.Float64Values() {
		assert.GreaterOrEqual(t, v, 0.0)
	}

	_, err = cfg.ToMel(nil)
	assert.ErrorIs(t, err, preprocess.ErrEmptyAudio)
}

func TestToAudio(t *testing.T) {
	cfg := testConfig()
	samples := sine(128*40, 440, 8000)

	spec, err := cfg.ToMel(samples)
	require.NoError(t, err)

	for _, iters := range []int{0, 4} {
		cfg.GriffinLimIterations = iters
		audio, err := cfg.ToAudio(spec)
		require.NoError(t, err)
		assert.Len(t, audio, len(samples))

		var energy float64
		for _, v := range audio {
			require.False(t, math.IsNaN(v))
			energy += v * v
		}
		assert.Greater(t, energy, 0.0, "iterations %d", iters)
	}

	_, err = cfg.ToAudio(spec.MustView([]int64{4, 8, 41}, false))
	assert.Error(t, err)
}

func TestWavRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	samples := sine(4000, 220, 8000)

	require.NoError(t, preprocess.SaveWav(path, samples, 8000))

	got, sr, err := preprocess.LoadWav(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, sr)
	assert.InDeltaSlice(t, samples, got, 1e-3)
}

func TestLoadAudioUnsupported(t *testing.T) {
	_, _, err := preprocess.LoadAudio("clip.mp3")
	assert.Error(t, err)
}

func TestAudioID(t *testing.T) {
	assert.Equal(t, "0042", preprocess.AudioID("/data/train/clip_0042.wav"))
	assert.Equal(t, "noise", preprocess.AudioID("noise.flac"))
}

func TestConvertAll(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()

	var paths []string
	for _, name := range []string{"clip_2.wav", "clip_1.wav", "clip_3.wav"} {
		path := filepath.Join(dir, name)
		require.NoError(t, preprocess.SaveWav(path, sine(128*20, 330, 8000), 8000))
		paths = append(paths, path)
	}

	audios, err := cfg.ConvertAll(context.Background(), paths, 2)
	require.NoError(t, err)
	require.Len(t, audios, 3)
	for i, a := range audios {
		assert.Equal(t, string(rune('1'+i)), a.ID)
		assert.Equal(t, []int64{32, 21}, a.Spectrogram.MustSize())
	}

	df := preprocess.Summary(audios)
	assert.Equal(t, 3, df.Nrow())
	assert.Equal(t, []string{"1", "2", "3"}, df.Col("id").Records())
	frameCounts, err := df.Col("frames").Int()
	assert.Equal(t, []int{21, 21, 21}, mustInts(t, frameCounts, err))

	frames, values := preprocess.Ranges(audios)
	assert.Equal(t, [2]int{21, 21}, frames)
	assert.LessOrEqual(t, values[0], values[1])
}

func TestConvertAllFails(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "clip_1.wav")
	require.NoError(t, preprocess.SaveWav(good, sine(1024, 330, 8000), 8000))
	bad := filepath.Join(dir, "clip_2.wav")
	require.NoError(t, os.WriteFile(bad, []byte("not a wav file"), 0o644))

	_, err := testConfig().ConvertAll(context.Background(), []string{good, bad}, 2)
	assert.Error(t, err)
}

func mustInts(t *testing.T, v []int, err error) []int {
	t.Helper()
	require.NoError(t, err)
	return v
}
