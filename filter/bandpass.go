package filter

import (
	"math"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/filter/biquad"
	"github.com/cwbudde/algo-emg/pipeline"
	"github.com/cwbudde/algo-emg/segment"
)

const defaultBandpassOrder = 4

// Bandpass retains the frequency interval (low, high) using a causal
// Butterworth cascade: a highpass at the low edge followed by a lowpass at
// the high edge, each of the configured order.
type Bandpass struct {
	low, high float64
	order     int
}

// NewBandpass validates the band edges. Passing order 0 selects the
// default order. The upper Nyquist bound is checked on Apply.
func NewBandpass(low, high float64, order int) (*Bandpass, error) {
	if low <= 0 || math.IsNaN(low) || math.IsInf(low, 0) {
		return nil, emg.Parameterf("bandpass", "low", "must be > 0: %g", low)
	}
	if high <= low || math.IsNaN(high) || math.IsInf(high, 0) {
		return nil, emg.Parameterf("bandpass", "band", "requires low < high: (%g, %g)", low, high)
	}
	if order == 0 {
		order = defaultBandpassOrder
	}
	if order < 0 {
		return nil, emg.Parameterf("bandpass", "order", "must be > 0: %d", order)
	}

	return &Bandpass{low: low, high: high, order: order}, nil
}

func (f *Bandpass) Name() string { return "bandpass" }

// Apply filters every valid run through the cascade with state reset at
// each run boundary. The mask is unchanged.
func (f *Bandpass) Apply(ctx pipeline.Context, rec emg.Record) (emg.Record, error) {
	if f.high >= ctx.SampleRate/2 {
		return emg.Record{}, emg.Parameterf("bandpass", "high",
			"must be < rate/2 (%g): %g", ctx.SampleRate/2, f.high)
	}

	coeffs, err := biquad.ButterworthBand(f.low, f.high, f.order, ctx.SampleRate)
	if err != nil {
		return emg.Record{}, err
	}
	chain := biquad.NewChain(coeffs)

	out := rec.Clone()
	for _, r := range segment.ValidRuns(out.Valid) {
		chain.Reset()
		chain.ProcessBlock(out.Samples[r.Start:r.End])
	}

	return out, nil
}
