package filter

import (
	"math"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/filter/biquad"
	"github.com/cwbudde/algo-emg/pipeline"
	"github.com/cwbudde/algo-emg/segment"
)

// Band is one notch target: a center frequency and a quality factor.
// Lower Q removes a wider band around the center.
type Band struct {
	Freq float64 // center frequency, Hz
	Q    float64
}

// Notch removes one or more narrow frequency bands, applied in listed
// order. Each band is a second-order IIR notch run causally over every
// valid segment with fresh state, so ringing never crosses a gap.
type Notch struct {
	bands []Band
}

// NewNotch validates the band list. The Nyquist bound is checked on Apply
// when the sampling rate is known.
func NewNotch(bands ...Band) (*Notch, error) {
	if len(bands) == 0 {
		return nil, emg.Parameterf("notch", "bands", "at least one band required")
	}
	for _, b := range bands {
		if b.Freq <= 0 || math.IsNaN(b.Freq) || math.IsInf(b.Freq, 0) {
			return nil, emg.Parameterf("notch", "frequency", "must be > 0: %g", b.Freq)
		}
		if b.Q <= 0 || math.IsNaN(b.Q) || math.IsInf(b.Q, 0) {
			return nil, emg.Parameterf("notch", "q", "must be > 0: %g", b.Q)
		}
	}

	return &Notch{bands: bands}, nil
}

func (n *Notch) Name() string { return "notch" }

// Apply filters every valid run through each band in order. Invalid
// positions pass through untouched and the mask is unchanged.
func (n *Notch) Apply(ctx pipeline.Context, rec emg.Record) (emg.Record, error) {
	coeffs := make([]biquad.Coefficients, len(n.bands))
	for i, b := range n.bands {
		c, err := biquad.Notch(b.Freq, b.Q, ctx.SampleRate)
		if err != nil {
			return emg.Record{}, err
		}
		coeffs[i] = c
	}

	out := rec.Clone()
	for _, r := range segment.ValidRuns(out.Valid) {
		buf := out.Samples[r.Start:r.End]
		for _, c := range coeffs {
			biquad.NewSection(c).ProcessBlock(buf)
		}
	}

	return out, nil
}
