package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns the magnitudes of the first half of the spectrum of
// data after removing its mean and zero padding it to a power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	padded := make([]float64, nextPow2(len(data)))
	for i, v := range data {
		padded[i] = v - mean
	}

	spec := fft.FFTReal(padded)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// Dominant returns the frequency in Hz and the magnitude of the strongest
// bin above DC, for data sampled at rate Hz. Flat series give (0, 0).
func Dominant(data []float64, rate float64) (freq, power float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, 0
	}
	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > power {
			power = ps[i]
			best = i
		}
	}
	if best == 0 || power < 1e-9 {
		return 0, 0
	}
	n := 2 * len(ps)
	return float64(best) * rate / float64(n), power
}
