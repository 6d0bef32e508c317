// Package spectrum estimates one-sided power spectral densities from
// recordings with validity gaps. Estimation is Welch's method restricted
// to valid material: windows are carved from contiguous valid runs and
// never span a gap, so unusable samples contribute nothing.
package spectrum

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/cwbudde/algo-emg/emg"
)

// PSD is a one-sided power spectral density. Freqs and Power are parallel
// slices with Freqs strictly increasing from DC.
type PSD struct {
	Freqs []float64
	Power []float64
}

// Len returns the number of frequency bins.
func (p PSD) Len() int {
	return len(p.Freqs)
}

// TotalPower returns the sum over all bins.
func (p PSD) TotalPower() float64 {
	return floats.Sum(p.Power)
}

// Band returns the bins with low <= f <= high. The result shares no
// storage with the receiver and may be empty.
func (p PSD) Band(low, high float64) PSD {
	out := PSD{}
	for i, f := range p.Freqs {
		if f < low || f > high {
			continue
		}
		out.Freqs = append(out.Freqs, f)
		out.Power = append(out.Power, p.Power[i])
	}
	return out
}

// Resample evaluates the density on a new frequency grid by piecewise
// linear interpolation. Queries outside the source grid take the nearest
// endpoint value, so resampling never extrapolates.
func (p PSD) Resample(freqs []float64) (PSD, error) {
	if p.Len() < 2 {
		return PSD{}, &emg.InsufficientDataError{Op: "spectrum", Need: 2, Have: p.Len()}
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(p.Freqs, p.Power); err != nil {
		return PSD{}, fmt.Errorf("spectrum: %w", err)
	}

	lo := p.Freqs[0]
	hi := p.Freqs[len(p.Freqs)-1]

	out := PSD{
		Freqs: make([]float64, len(freqs)),
		Power: make([]float64, len(freqs)),
	}
	for i, f := range freqs {
		out.Freqs[i] = f
		out.Power[i] = pl.Predict(min(max(f, lo), hi))
	}
	return out, nil
}

// PeakBin returns the index of the strongest bin, or -1 for an empty
// density.
func (p PSD) PeakBin() int {
	if len(p.Power) == 0 {
		return -1
	}
	return floats.MaxIdx(p.Power)
}
