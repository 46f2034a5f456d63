package preprocess

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/r9y9/gossp/stft"
	"github.com/sugarme/gotch/ts"
)

// ErrEmptyAudio is returned when there are no samples to convert.
var ErrEmptyAudio = errors.New("empty audio")

// MelConfig represents the configuration for mel spectrogram conversion.
type MelConfig struct {
	SampleRate int
	NFFT       int
	HopLength  int
	NMels      int
	FMin       float64
	FMax       float64 // 0 means SampleRate/2

	GriffinLimIterations int
}

// DefaultMelConfig returns 22050Hz, 2048-point FFT, hop 512, 128 mel bands.
func DefaultMelConfig() *MelConfig {
	return &MelConfig{
		SampleRate:           22050,
		NFFT:                 2048,
		HopLength:            512,
		NMels:                128,
		FMin:                 0,
		FMax:                 0,
		GriffinLimIterations: 32,
	}
}

func (c *MelConfig) fmax() float64 {
	if c.FMax <= 0 {
		return float64(c.SampleRate) / 2
	}
	return c.FMax
}

// ToMel converts mono samples to a [NMels T] power mel spectrogram with
// T = len(samples)/HopLength + 1. Frames are centred: the signal is
// reflect-padded by NFFT/2 on both sides, as librosa does by default.
func (c *MelConfig) ToMel(samples []float64) (*ts.Tensor, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyAudio
	}

	s := stft.New(c.HopLength, c.NFFT)
	frames := s.STFT(c.centre(samples))
	if len(frames) == 0 {
		return nil, fmt.Errorf("no STFT frame for %d samples", len(samples))
	}

	bins := c.NFFT/2 + 1
	fb := melFilterBank(c.SampleRate, c.NFFT, c.NMels, c.FMin, c.fmax())
	nFrames := len(frames)
	out := make([]float32, c.NMels*nFrames)
	power := make([]float64, bins)
	for t, frame := range frames {
		for k := 0; k < bins; k++ {
			a := cmplx.Abs(frame[k])
			power[k] = a * a
		}
		for m := 0; m < c.NMels; m++ {
			var v float64
			for k, w := range fb[m] {
				v += w * power[k]
			}
			out[m*nFrames+t] = float32(v)
		}
	}

	return ts.MustOfSlice(out).MustView([]int64{int64(c.NMels), int64(nFrames)}, true), nil
}

// ToAudio reconstructs mono samples from a [NMels T] power mel spectrogram.
// The filter bank is inverted by its normalised transpose (exact for flat
// spectra) and phase is estimated with Griffin-Lim. The result holds
// (T-1)*HopLength samples.
func (c *MelConfig) ToAudio(spec *ts.Tensor) ([]float64, error) {
	size := spec.MustSize()
	if len(size) != 2 || size[0] != int64(c.NMels) {
		return nil, fmt.Errorf("expected spectrogram of shape [%d T], got %v", c.NMels, size)
	}
	nFrames := int(size[1])
	if nFrames == 0 {
		return nil, ErrEmptyAudio
	}
	values := spec.Float64Values()

	bins := c.NFFT/2 + 1
	fb := melFilterBank(c.SampleRate, c.NFFT, c.NMels, c.FMin, c.fmax())
	bandSum := make([]float64, c.NMels)
	binSum := make([]float64, bins)
	for m := range fb {
		for k, w := range fb[m] {
			bandSum[m] += w
			binSum[k] += w
		}
	}

	mag := make([][]float64, nFrames)
	for t := range mag {
		mag[t] = make([]float64, bins)
		for k := 0; k < bins; k++ {
			if binSum[k] == 0 {
				continue
			}
			var v float64
			for m := 0; m < c.NMels; m++ {
				if bandSum[m] > 0 {
					v += fb[m][k] * values[m*nFrames+t] / bandSum[m]
				}
			}
			mag[t][k] = math.Sqrt(math.Max(v/binSum[k], 0))
		}
	}

	signal := c.griffinLim(mag)

	// undo centring
	start := c.NFFT / 2
	n := (nFrames - 1) * c.HopLength
	out := make([]float64, n)
	if start < len(signal) {
		copy(out, signal[start:])
	}

	return out, nil
}

// centre reflect-pads NFFT/2 samples on both sides so frames are centred on
// multiples of HopLength.
func (c *MelConfig) centre(samples []float64) []float64 {
	return reflectPad(samples, c.NFFT/2)
}

// reflectPad mirrors x around its first and last samples without repeating
// them (numpy "reflect"). Pads longer than the signal keep bouncing.
func reflectPad(x []float64, pad int) []float64 {
	n := len(x)
	out := make([]float64, n+2*pad)
	if n == 1 {
		for i := range out {
			out[i] = x[0]
		}
		return out
	}

	period := 2 * (n - 1)
	for i := range out {
		j := (i - pad) % period
		if j < 0 {
			j += period
		}
		if j >= n {
			j = period - j
		}
		out[i] = x[j]
	}

	return out
}

// griffinLim estimates phases for the [T NFFT/2+1] magnitudes, alternating
// gossp's inverse STFT with re-analysis of the estimate.
func (c *MelConfig) griffinLim(mag [][]float64) []float64 {
	s := stft.New(c.HopLength, c.NFFT)
	spectrum := make([][]complex128, len(mag))
	for t := range mag {
		spectrum[t] = make([]complex128, c.NFFT)
		setHalf(spectrum[t], mag[t], nil)
	}

	signal := s.ISTFT(spectrum)
	for iter := 0; iter < c.GriffinLimIterations; iter++ {
		estimate := s.STFT(signal)
		for t := range spectrum {
			if t >= len(estimate) {
				break
			}
			setHalf(spectrum[t], mag[t], estimate[t])
		}
		signal = s.ISTFT(spectrum)
	}

	return signal
}

// setHalf writes magnitudes with the phases of estimate (zero phase when
// nil) and mirrors them into a Hermitian-symmetric frame.
func setHalf(frame []complex128, mag []float64, estimate []complex128) {
	n := len(frame)
	for k, m := range mag {
		phase := 0.0
		if estimate != nil {
			phase = cmplx.Phase(estimate[k])
		}
		frame[k] = cmplx.Rect(m, phase)
		if k > 0 && k < n-k {
			frame[n-k] = cmplx.Conj(frame[k])
		}
	}
}

// Slaney mel scale: linear below 1kHz, logarithmic above.
const (
	melFSp       = 200.0 / 3
	melMinLogHz  = 1000.0
	melMinLogMel = melMinLogHz / melFSp
)

var melLogStep = math.Log(6.4) / 27

func hzToMel(hz float64) float64 {
	if hz < melMinLogHz {
		return hz / melFSp
	}
	return melMinLogMel + math.Log(hz/melMinLogHz)/melLogStep
}

func melToHz(mel float64) float64 {
	if mel < melMinLogMel {
		return mel * melFSp
	}
	return melMinLogHz * math.Exp(melLogStep*(mel-melMinLogMel))
}

// melFilterBank returns [nMels nfft/2+1] area-normalised triangular filters.
func melFilterBank(sampleRate, nfft, nMels int, fmin, fmax float64) [][]float64 {
	bins := nfft/2 + 1
	lo, hi := hzToMel(fmin), hzToMel(fmax)
	edges := make([]float64, nMels+2)
	for i := range edges {
		edges[i] = melToHz(lo + (hi-lo)*float64(i)/float64(nMels+1))
	}

	fb := make([][]float64, nMels)
	for m := 0; m < nMels; m++ {
		fb[m] = make([]float64, bins)
		left, centre, right := edges[m], edges[m+1], edges[m+2]
		enorm := 2 / (right - left)
		for k := 0; k < bins; k++ {
			f := float64(k) * float64(sampleRate) / float64(nfft)
			lower := (f - left) / (centre - left)
			upper := (right - f) / (right - centre)
			w := math.Max(0, math.Min(lower, upper))
			fb[m][k] = w * enorm
		}
	}

	return fb
}
