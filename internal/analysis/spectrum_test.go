package analysis

import (
	"errors"
	"math"
	"testing"
)

func TestPowerSpectrumDominant(t *testing.T) {
	// period of 8 samples, offset to check the mean is removed
	series := make([]float64, 64)
	for i := range series {
		series[i] = 5 + math.Sin(2*math.Pi*float64(i)/8)
	}

	s, err := PowerSpectrum(series, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Power) != 33 {
		t.Fatalf("bins = %d, want 33", len(s.Power))
	}
	if s.Power[0] > 1e-9 {
		t.Errorf("constant bin = %v, want ~0", s.Power[0])
	}

	k, period := s.Dominant()
	if k != 8 {
		t.Errorf("dominant bin = %d, want 8", k)
	}
	if math.Abs(period-80) > 1e-9 {
		t.Errorf("period = %v steps, want 80", period)
	}
}

func TestPowerSpectrumFlat(t *testing.T) {
	s, err := PowerSpectrum([]float64{2, 2, 2, 2, 2, 2}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if k, period := s.Dominant(); k != 0 || period != 0 {
		t.Errorf("flat series dominant = %d, %v", k, period)
	}
}

func TestPowerSpectrumErrors(t *testing.T) {
	if _, err := PowerSpectrum([]float64{1, 2, 3}, 1); !errors.Is(err, ErrShortSeries) {
		t.Errorf("short series: err = %v", err)
	}
	if _, err := PowerSpectrum([]float64{1, 2, 3, 4}, 0); !errors.Is(err, ErrInterval) {
		t.Errorf("zero interval: err = %v", err)
	}
}
