package filter

import (
	"math"
	"sort"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/pipeline"
	"github.com/cwbudde/algo-emg/segment"
)

// madScale converts a median absolute deviation into a consistent estimate
// of the standard deviation for normally distributed data.
const madScale = 1.4826

// Hampel is a sliding-window outlier screen. For each valid sample it
// computes the median and MAD of the window centered on it; a sample whose
// deviation from the median exceeds nSigma*1.4826*MAD is replaced by the
// median and its mask bit is cleared, recording it as screened rather than
// silently repaired.
type Hampel struct {
	windowSeconds float64
	nSigma        float64
}

// NewHampel validates the window duration and sigma multiplier.
func NewHampel(windowSeconds, nSigma float64) (*Hampel, error) {
	if windowSeconds <= 0 || math.IsNaN(windowSeconds) || math.IsInf(windowSeconds, 0) {
		return nil, emg.Parameterf("hampel", "window", "must be > 0: %g", windowSeconds)
	}
	if nSigma <= 0 || math.IsNaN(nSigma) || math.IsInf(nSigma, 0) {
		return nil, emg.Parameterf("hampel", "n_sigma", "must be > 0: %g", nSigma)
	}

	return &Hampel{windowSeconds: windowSeconds, nSigma: nSigma}, nil
}

func (h *Hampel) Name() string { return "hampel" }

// Apply screens every valid run. Statistics are computed from the input
// samples, so a replacement never feeds a neighbor's window. Windows clamp
// to run boundaries and never read across a gap.
func (h *Hampel) Apply(ctx pipeline.Context, rec emg.Record) (emg.Record, error) {
	w := int(math.Round(h.windowSeconds * ctx.SampleRate))
	if w < 3 {
		return emg.Record{}, emg.Parameterf("hampel", "window",
			"must span at least 3 samples at rate %g: %d", ctx.SampleRate, w)
	}
	half := w / 2

	out := rec.Clone()
	src := rec.Samples
	scratch := make([]float64, 0, 2*half+1)

	for _, r := range segment.ValidRuns(rec.Valid) {
		for i := r.Start; i < r.End; i++ {
			lo := max(r.Start, i-half)
			hi := min(r.End, i+half+1)

			med := median(append(scratch[:0], src[lo:hi]...))

			dev := append(scratch[:0], src[lo:hi]...)
			for j, v := range dev {
				dev[j] = math.Abs(v - med)
			}
			mad := median(dev)

			if math.Abs(src[i]-med) > h.nSigma*madScale*mad {
				out.Samples[i] = med
				out.Valid[i] = false
			}
		}
	}

	return out, nil
}

// median sorts buf in place and returns its median, averaging the middle
// pair for even lengths.
func median(buf []float64) float64 {
	sort.Float64s(buf)
	n := len(buf)
	if n%2 == 1 {
		return buf[n/2]
	}

	return 0.5 * (buf[n/2-1] + buf[n/2])
}
