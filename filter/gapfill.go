package filter

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/interp"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/pipeline"
	"github.com/cwbudde/algo-emg/segment"
)

// GapFill reconstructs invalid runs strictly shorter than the configured
// maximum gap by interpolating over the channel's valid samples. Longer
// runs stay invalid: filling arbitrarily long gaps would invent data the
// recording does not support. Gaps touching the channel edges are never
// filled since they have no bracketing samples.
type GapFill struct {
	method        string
	maxGapSeconds float64
}

// Interpolation methods accepted by NewGapFill.
const (
	GapFillPCHIP  = "pchip"
	GapFillSpline = "spline"
)

// minimum valid points each interpolator needs for a defined fit.
var gapFillMinPoints = map[string]int{
	GapFillPCHIP:  2,
	GapFillSpline: 3,
}

// NewGapFill validates the method name and maximum gap duration.
func NewGapFill(method string, maxGapSeconds float64) (*GapFill, error) {
	method = strings.ToLower(method)
	if _, ok := gapFillMinPoints[method]; !ok {
		return nil, emg.Parameterf("gapfill", "method", "unknown: %q", method)
	}
	if maxGapSeconds <= 0 || math.IsNaN(maxGapSeconds) || math.IsInf(maxGapSeconds, 0) {
		return nil, emg.Parameterf("gapfill", "max_gap", "must be > 0: %g", maxGapSeconds)
	}

	return &GapFill{method: method, maxGapSeconds: maxGapSeconds}, nil
}

func (g *GapFill) Name() string { return "gapfill" }

// Apply fills qualifying gaps and marks the filled positions valid.
// Previously-valid positions are never modified or invalidated.
func (g *GapFill) Apply(ctx pipeline.Context, rec emg.Record) (emg.Record, error) {
	out := rec.Clone()

	policy := segment.Policy{MaxGapSeconds: g.maxGapSeconds}
	gaps := policy.FillableGaps(rec.Valid, ctx.SampleRate)
	if len(gaps) == 0 {
		return out, nil
	}

	xs := make([]float64, 0, rec.CountValid())
	ys := make([]float64, 0, rec.CountValid())
	for i, ok := range rec.Valid {
		if ok {
			xs = append(xs, float64(i))
			ys = append(ys, rec.Samples[i])
		}
	}

	need := gapFillMinPoints[g.method]
	if len(xs) < need {
		return emg.Record{}, &emg.InsufficientDataError{Op: "gapfill", Need: need, Have: len(xs)}
	}

	var predictor interp.FittablePredictor
	switch g.method {
	case GapFillPCHIP:
		predictor = &interp.FritschButland{}
	case GapFillSpline:
		predictor = &interp.NaturalCubic{}
	}

	if err := predictor.Fit(xs, ys); err != nil {
		return emg.Record{}, fmt.Errorf("gapfill: %w", err)
	}

	for _, r := range gaps {
		for i := r.Start; i < r.End; i++ {
			out.Samples[i] = predictor.Predict(float64(i))
			out.Valid[i] = true
		}
	}

	return out, nil
}
