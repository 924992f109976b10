package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrShortSeries = errors.New("analysis: series needs at least 4 samples")
	ErrInterval    = errors.New("analysis: sampling interval must be positive")
)

// Spectrum is the one-sided power spectrum of a series sampled every
// Interval steps. Power[k] belongs to Frequency(k).
type Spectrum struct {
	Power    []float64
	Interval int
	samples  int
}

// PowerSpectrum removes the mean of series and returns |X_k|^2 for
// k = 0..n/2.
func PowerSpectrum(series []float64, interval int) (Spectrum, error) {
	if len(series) < 4 {
		return Spectrum{}, fmt.Errorf("%w, got %d", ErrShortSeries, len(series))
	}
	if interval < 1 {
		return Spectrum{}, fmt.Errorf("%w, got %d", ErrInterval, interval)
	}

	mean := stat.Mean(series, nil)
	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}

	coeff := fourier.NewFFT(len(series)).Coefficients(nil, centered)
	power := make([]float64, len(coeff))
	for k, c := range coeff {
		a := cmplx.Abs(c)
		power[k] = a * a
	}
	return Spectrum{Power: power, Interval: interval, samples: len(series)}, nil
}

// Frequency of bin k in cycles per step.
func (s Spectrum) Frequency(k int) float64 {
	return float64(k) / float64(s.samples*s.Interval)
}

// Dominant returns the strongest non-constant bin and its period in steps.
// A flat series has no dominant bin and returns 0, 0.
func (s Spectrum) Dominant() (int, float64) {
	if len(s.Power) < 2 {
		return 0, 0
	}
	k := floats.MaxIdx(s.Power[1:]) + 1
	if s.Power[k] == 0 {
		return 0, 0
	}
	return k, 1 / s.Frequency(k)
}
