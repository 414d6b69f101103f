package diag

import (
	"math/cmplx"

	"github.com/maddyblue/go-dsp/fft"
)

const (
	// SpectrumWindow is the number of scope samples transformed.
	SpectrumWindow = 128
	// SpectrumBins is the number of low-frequency bins kept for display.
	SpectrumBins = 32
)

// Spectrum returns the magnitudes of the first SpectrumBins bins of the
// discrete Fourier transform of samples, each normalized to [-1, 1).
// Magnitudes are not divided by the window length. Bins past len(samples)
// are zero.
func Spectrum(samples []int16) []float64 {
	mag := make([]float64, SpectrumBins)
	if len(samples) == 0 {
		return mag
	}
	in := make([]float64, len(samples))
	for i, s := range samples {
		in[i] = float64(s) / 32768
	}
	out := fft.FFTReal(in)
	for k := 0; k < SpectrumBins && k < len(out); k++ {
		mag[k] = cmplx.Abs(out[k])
	}
	return mag
}

// ScopeSpectrum snapshots the most recent SpectrumWindow samples of s and
// returns their spectrum.
func ScopeSpectrum(s *Scope) []float64 {
	n := SpectrumWindow
	if n > s.Size() {
		n = s.Size()
	}
	snap := make([]int16, n)
	s.Snapshot(snap)
	return Spectrum(snap)
}
