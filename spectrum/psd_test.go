package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-emg/emg"
)

func TestPSDBand(t *testing.T) {
	p := PSD{
		Freqs: []float64{0, 10, 20, 30, 40},
		Power: []float64{1, 2, 3, 4, 5},
	}

	got := p.Band(10, 30)
	wantF := []float64{10, 20, 30}
	wantP := []float64{2, 3, 4}
	if len(got.Freqs) != 3 {
		t.Fatalf("got %d bins, want 3", len(got.Freqs))
	}
	for i := range wantF {
		if got.Freqs[i] != wantF[i] || got.Power[i] != wantP[i] {
			t.Fatalf("bin %d: (%v, %v), want (%v, %v)", i, got.Freqs[i], got.Power[i], wantF[i], wantP[i])
		}
	}

	if empty := p.Band(100, 200); empty.Len() != 0 {
		t.Fatalf("out-of-range band has %d bins, want 0", empty.Len())
	}
}

func TestPSDResample(t *testing.T) {
	p := PSD{
		Freqs: []float64{0, 10, 20, 30},
		Power: []float64{0, 1, 2, 3},
	}

	got, err := p.Resample([]float64{5, 15, 25, 35, -5})
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}

	want := []float64{0.5, 1.5, 2.5, 3, 0}
	for i := range want {
		if math.Abs(got.Power[i]-want[i]) > 1e-12 {
			t.Errorf("query %v: power %v, want %v", got.Freqs[i], got.Power[i], want[i])
		}
	}
}

func TestPSDResample_TooFewBins(t *testing.T) {
	p := PSD{Freqs: []float64{0}, Power: []float64{1}}

	var ierr *emg.InsufficientDataError
	if _, err := p.Resample([]float64{1, 2}); !errors.As(err, &ierr) {
		t.Fatalf("want InsufficientDataError, got %v", err)
	}
}

func TestPSDPeakBin(t *testing.T) {
	p := PSD{Freqs: []float64{0, 1, 2}, Power: []float64{0.2, 0.9, 0.4}}
	if got := p.PeakBin(); got != 1 {
		t.Fatalf("peak bin %d, want 1", got)
	}
	if got := (PSD{}).PeakBin(); got != -1 {
		t.Fatalf("empty peak bin %d, want -1", got)
	}
}

func TestPSDTotalPower(t *testing.T) {
	p := PSD{Freqs: []float64{0, 1, 2}, Power: []float64{0.5, 1.5, 2}}
	if got := p.TotalPower(); math.Abs(got-4) > 1e-12 {
		t.Fatalf("total power %v, want 4", got)
	}
}
