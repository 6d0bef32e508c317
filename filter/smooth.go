package filter

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/pipeline"
	"github.com/cwbudde/algo-emg/segment"
)

// Smoothing methods accepted by NewSmooth.
const (
	SmoothBoxcar = "boxcar"
	SmoothRMS    = "rms"
	SmoothGauss  = "gauss"
	SmoothLOESS  = "loess"
)

// Smooth applies a sliding-window estimate to every valid run. Boxcar is
// the unweighted mean, RMS the root of the mean square, Gauss a weighted
// mean with weights exp(-off^2/2sigma^2), LOESS a weighted mean with
// tricube weights (1-(|d|/maxd)^3)^3. Windows clamp at run edges so
// estimates never read across a gap. Boxcar, Gauss and LOESS renormalize
// over the samples actually covered, which preserves constants; RMS keeps
// the nominal window as denominator, so samples beyond the run count as
// zero energy and the envelope never carries more power than the signal.
type Smooth struct {
	method        string
	windowSeconds float64
}

// NewSmooth validates the method name and window duration.
func NewSmooth(method string, windowSeconds float64) (*Smooth, error) {
	method = strings.ToLower(method)
	switch method {
	case SmoothBoxcar, SmoothRMS, SmoothGauss, SmoothLOESS:
	default:
		return nil, emg.Parameterf("smooth", "method", "unknown: %q", method)
	}
	if windowSeconds <= 0 || math.IsNaN(windowSeconds) || math.IsInf(windowSeconds, 0) {
		return nil, emg.Parameterf("smooth", "window", "must be > 0: %g", windowSeconds)
	}

	return &Smooth{method: method, windowSeconds: windowSeconds}, nil
}

func (s *Smooth) Name() string { return "smooth" }

// Apply smooths every valid run independently. A window wider than half
// the run degenerates toward one global estimate, which is reported as a
// warning but still computed.
func (s *Smooth) Apply(ctx pipeline.Context, rec emg.Record) (emg.Record, error) {
	w := int(math.Round(s.windowSeconds * ctx.SampleRate))
	if w < 1 {
		return emg.Record{}, emg.Parameterf("smooth", "window",
			"must span at least 1 sample at rate %g: %d", ctx.SampleRate, w)
	}
	half := w / 2

	out := rec.Clone()
	for _, r := range segment.ValidRuns(rec.Valid) {
		if float64(w) > float64(r.Len())/2 {
			ctx.Warnf("smooth", "window of %d samples exceeds half the %d-sample segment", w, r.Len())
		}

		src := rec.Samples[r.Start:r.End]
		dst := out.Samples[r.Start:r.End]

		switch s.method {
		case SmoothBoxcar:
			slidingMean(dst, src, half)
		case SmoothRMS:
			slidingRMS(dst, src, half)
		case SmoothGauss:
			gaussRun(dst, src, w, half)
		case SmoothLOESS:
			loessRun(dst, src, half)
		}
	}

	return out, nil
}

// slidingMean writes the clamped-window mean of src into dst, maintaining
// a running sum as the window edges move.
func slidingMean(dst, src []float64, half int) {
	n := len(src)
	sum := 0.0
	lo, hi := 0, 0

	for i := range n {
		wantLo := max(0, i-half)
		wantHi := min(n, i+half+1)
		for hi < wantHi {
			sum += src[hi]
			hi++
		}
		for lo < wantLo {
			sum -= src[lo]
			lo++
		}

		dst[i] = sum / float64(hi-lo)
	}
}

// slidingRMS writes the root mean square of each window into dst. The
// denominator stays at the nominal window length even where the window
// clamps, so total envelope energy is bounded by total signal energy.
func slidingRMS(dst, src []float64, half int) {
	n := len(src)
	w := float64(2*half + 1)
	sum := 0.0
	lo, hi := 0, 0

	for i := range n {
		wantLo := max(0, i-half)
		wantHi := min(n, i+half+1)
		for hi < wantHi {
			sum += src[hi] * src[hi]
			hi++
		}
		for lo < wantLo {
			sum -= src[lo] * src[lo]
			lo++
		}

		m := sum / w
		if m < 0 {
			m = 0
		}
		dst[i] = math.Sqrt(m)
	}
}

// gaussRun convolves src with a normalized Gaussian kernel and divides by
// the convolved window coverage, which renormalizes shrunken edge windows.
func gaussRun(dst, src []float64, w, half int) {
	kernel := gaussKernel(w, half)

	ones := make([]float64, len(src))
	for i := range ones {
		ones[i] = 1
	}

	num := convolve(src, kernel)
	den := convolve(ones, kernel)

	for i := range dst {
		dst[i] = num[i+half] / den[i+half]
	}
}

// gaussKernel builds a centered Gaussian of full width 2*half+1 with
// sigma = w/6, normalized to sum 1.
func gaussKernel(w, half int) []float64 {
	sigma := float64(w) / 6
	k := make([]float64, 2*half+1)

	sum := 0.0
	for off := -half; off <= half; off++ {
		v := math.Exp(-float64(off*off) / (2 * sigma * sigma))
		k[off+half] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}

	return k
}

// convolve returns the full linear convolution of src with kernel. Scalar
// accumulation is the right strategy for kernels this short.
func convolve(src, kernel []float64) []float64 {
	out := make([]float64, len(src)+len(kernel)-1)
	for i, x := range src {
		for j, k := range kernel {
			out[i+j] += x * k
		}
	}
	return out
}

// loessRun writes the tricube-weighted mean of each clamped window into
// dst. The center sample always carries weight 1, so the denominator never
// vanishes.
func loessRun(dst, src []float64, half int) {
	n := len(src)
	for i := range n {
		lo := max(0, i-half)
		hi := min(n, i+half+1)

		maxd := float64(max(i-lo, hi-1-i))
		if maxd == 0 {
			dst[i] = src[i]
			continue
		}

		num, den := 0.0, 0.0
		for j := lo; j < hi; j++ {
			d := math.Abs(float64(j-i)) / maxd
			u := 1 - d*d*d
			wgt := u * u * u
			num += wgt * src[j]
			den += wgt
		}
		dst[i] = num / den
	}
}
