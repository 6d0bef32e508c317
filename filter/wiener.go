package filter

import (
	"math"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/pipeline"
	"github.com/cwbudde/algo-emg/segment"
)

// Wiener applies local-variance adaptive noise suppression. Each valid
// sample is pulled toward its local mean in proportion to how close the
// local variance is to the run's noise floor, estimated as the mean of the
// local variances. The mask is unchanged.
type Wiener struct {
	windowSeconds float64
}

// NewWiener validates the window duration.
func NewWiener(windowSeconds float64) (*Wiener, error) {
	if windowSeconds <= 0 || math.IsNaN(windowSeconds) || math.IsInf(windowSeconds, 0) {
		return nil, emg.Parameterf("wiener", "window", "must be > 0: %g", windowSeconds)
	}

	return &Wiener{windowSeconds: windowSeconds}, nil
}

func (f *Wiener) Name() string { return "wiener" }

// Apply suppresses every valid run independently. Windows clamp to run
// boundaries and never read across a gap.
func (f *Wiener) Apply(ctx pipeline.Context, rec emg.Record) (emg.Record, error) {
	w := int(math.Round(f.windowSeconds * ctx.SampleRate))
	if w < 3 {
		return emg.Record{}, emg.Parameterf("wiener", "window",
			"must span at least 3 samples at rate %g: %d", ctx.SampleRate, w)
	}
	half := w / 2

	out := rec.Clone()
	src := rec.Samples

	for _, r := range segment.ValidRuns(rec.Valid) {
		n := r.Len()
		means := make([]float64, n)
		vars := make([]float64, n)

		// Sliding sums over the clamped window, updated incrementally as
		// the window edges move.
		sum, sumSq := 0.0, 0.0
		lo, hi := r.Start, r.Start
		for i := r.Start; i < r.End; i++ {
			wantLo := max(r.Start, i-half)
			wantHi := min(r.End, i+half+1)
			for hi < wantHi {
				sum += src[hi]
				sumSq += src[hi] * src[hi]
				hi++
			}
			for lo < wantLo {
				sum -= src[lo]
				sumSq -= src[lo] * src[lo]
				lo++
			}

			cnt := float64(hi - lo)
			m := sum / cnt
			v := sumSq/cnt - m*m
			if v < 0 {
				v = 0
			}
			means[i-r.Start] = m
			vars[i-r.Start] = v
		}

		noise := 0.0
		for _, v := range vars {
			noise += v
		}
		noise /= float64(n)

		for i := 0; i < n; i++ {
			if vars[i] < noise || vars[i] == 0 {
				out.Samples[r.Start+i] = means[i]
				continue
			}
			out.Samples[r.Start+i] = means[i] + (1-noise/vars[i])*(src[r.Start+i]-means[i])
		}
	}

	return out, nil
}
