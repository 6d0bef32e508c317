package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/segment"
	"github.com/cwbudde/algo-emg/window"
)

// minWindowSize is the smallest usable Welch window.
const minWindowSize = 4

// Option configures the Welch estimate.
type Option func(*config)

type config struct {
	windowSize int
	normalize  bool
}

// WithWindowSize fixes the window length in samples instead of deriving it
// from the sampling rate. The size must be a power of two of at least 4.
func WithWindowSize(n int) Option {
	return func(c *config) {
		c.windowSize = n
	}
}

// WithNormalize divides the density by its strongest bin, so the peak
// power is exactly 1.
func WithNormalize(enabled bool) Option {
	return func(c *config) {
		c.normalize = enabled
	}
}

// EMGToPSD computes a one-sided Welch power spectral density from the
// usable samples of one channel.
//
// Each valid run is carved into Hann-tapered windows with 50% overlap; a
// window never spans a gap and invalid samples are never zero-filled. The
// per-window mean is removed before tapering. Squared FFT magnitudes are
// accumulated, averaged over every window from every run, and scaled by
// 1/(rate * sum(w^2)) with the one-sided doubling of interior bins.
//
// The window length defaults to the largest power of two not exceeding the
// sampling rate, shrunk to fit the longest valid run. When no run can host
// a single window the result is an InsufficientDataError.
func EMGToPSD(samples []float64, valid []bool, rate float64, opts ...Option) (PSD, error) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return PSD{}, emg.Parameterf("spectrum", "sampling rate", "must be > 0 and finite: %g", rate)
	}
	if len(samples) != len(valid) {
		return PSD{}, emg.Parameterf("spectrum", "mask", "length %d does not match %d samples", len(valid), len(samples))
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	runs := segment.ValidRuns(valid)
	longest := segment.LongestValid(valid)

	w := cfg.windowSize
	switch {
	case w == 0:
		w = prevPowerOf2(int(rate))
		if w > longest {
			w = prevPowerOf2(longest)
		}
		if w < minWindowSize {
			return PSD{}, &emg.InsufficientDataError{Op: "spectrum", Need: minWindowSize, Have: longest}
		}
	case w < minWindowSize || w&(w-1) != 0:
		return PSD{}, emg.Parameterf("spectrum", "window size", "must be a power of two >= %d: %d", minWindowSize, w)
	case w > longest:
		return PSD{}, &emg.InsufficientDataError{Op: "spectrum", Need: w, Have: longest}
	}

	coeffs := window.Generate(window.TypeHann, w, window.WithPeriodic())
	sumSq, err := window.SumSquares(coeffs)
	if err != nil {
		return PSD{}, fmt.Errorf("spectrum: %w", err)
	}

	plan, err := algofft.NewPlan64(w)
	if err != nil {
		return PSD{}, fmt.Errorf("spectrum: %w", err)
	}

	half := w / 2
	hop := half

	in := make([]complex128, w)
	out := make([]complex128, w)
	re := make([]float64, half+1)
	im := make([]float64, half+1)
	pw := make([]float64, half+1)
	acc := make([]float64, half+1)

	windows := 0
	for _, r := range runs {
		for start := r.Start; start+w <= r.End; start += hop {
			seg := samples[start : start+w]
			mean := floats.Sum(seg) / float64(w)
			for i, v := range seg {
				in[i] = complex((v-mean)*coeffs[i], 0)
			}

			if err := plan.Forward(out, in); err != nil {
				return PSD{}, fmt.Errorf("spectrum: %w", err)
			}

			for i := 0; i <= half; i++ {
				re[i] = real(out[i])
				im[i] = imag(out[i])
			}
			vecmath.Power(pw, re, im)
			floats.Add(acc, pw)
			windows++
		}
	}

	if windows == 0 {
		return PSD{}, &emg.InsufficientDataError{Op: "spectrum", Need: w, Have: longest}
	}

	scale := 1 / (rate * sumSq * float64(windows))
	psd := PSD{
		Freqs: make([]float64, half+1),
		Power: acc,
	}
	for i := range acc {
		psd.Freqs[i] = float64(i) * rate / float64(w)
		p := acc[i] * scale
		if i > 0 && i < half {
			p *= 2
		}
		acc[i] = p
	}

	if cfg.normalize {
		// Divide rather than multiply by the reciprocal: x/x is exactly 1,
		// so the peak bin lands on 1.0 with no rounding slack.
		if maxv := floats.Max(acc); maxv > 0 {
			for i := range acc {
				acc[i] /= maxv
			}
		}
	}

	return psd, nil
}

// prevPowerOf2 returns the largest power of 2 <= n, or 0 for n < 1.
func prevPowerOf2(n int) int {
	if n < 1 {
		return 0
	}
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
