// Package outlier flags recordings whose power spectrum deviates from the
// inverse envelope typical of surface EMG. Peaks well above that envelope
// usually mean unshielded interference or a loose electrode rather than
// muscle activity.
package outlier

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/spectrum"
)

// Metric selects the statistic over peak deviations that scales the
// flagging limit.
type Metric string

const (
	MetricMedian Metric = "median"
	MetricMean   Metric = "mean"
)

// Config bounds the detector. Zero values select the documented defaults;
// explicitly out-of-range values are rejected.
type Config struct {
	// Threshold scales the deviation metric into the flagging limit.
	Threshold float64
	// Metric is the deviation statistic, default median.
	Metric Metric
	// WindowSize is the local-maximum comparison half-width in bins,
	// default 1.
	WindowSize int
	// Low and High bound the examined band in Hz. Zero High means up to
	// Nyquist.
	Low, High float64
}

// Detector holds a validated configuration.
type Detector struct {
	cfg Config
}

// New validates the configuration.
func New(cfg Config) (*Detector, error) {
	if cfg.Threshold <= 0 || math.IsNaN(cfg.Threshold) || math.IsInf(cfg.Threshold, 0) {
		return nil, emg.Parameterf("outlier", "threshold", "must be > 0 and finite: %g", cfg.Threshold)
	}
	if cfg.Metric == "" {
		cfg.Metric = MetricMedian
	}
	if cfg.Metric != MetricMedian && cfg.Metric != MetricMean {
		return nil, emg.Parameterf("outlier", "metric", "unknown: %q", cfg.Metric)
	}
	if cfg.WindowSize == 0 {
		cfg.WindowSize = 1
	}
	if cfg.WindowSize < 1 {
		return nil, emg.Parameterf("outlier", "window size", "must be >= 1: %d", cfg.WindowSize)
	}
	if cfg.Low < 0 {
		return nil, emg.Parameterf("outlier", "band", "low edge must be >= 0: %g", cfg.Low)
	}
	if cfg.High != 0 && cfg.High <= cfg.Low {
		return nil, emg.Parameterf("outlier", "band", "requires low < high: (%g, %g)", cfg.Low, cfg.High)
	}
	return &Detector{cfg: cfg}, nil
}

// Peak is one local spectral maximum with its envelope fit.
type Peak struct {
	Freq      float64
	Power     float64
	Fitted    float64
	Deviation float64
}

// Result reports one detection. Limit is the deviation above which a peak
// flags the spectrum.
type Result struct {
	Flagged bool
	Limit   float64
	Peaks   []Peak
}

// Detect fits the envelope a/f through the local maxima of the spectrum by
// least squares and flags when any maximum deviates from the fit by more
// than Threshold times the configured deviation statistic. Fewer than two
// maxima leave nothing to fit and yield an InsufficientDataError.
func (d *Detector) Detect(p spectrum.PSD) (Result, error) {
	band := d.band(p)

	maxima := localMaxima(band, d.cfg.WindowSize)
	if len(maxima) < 2 {
		return Result{}, &emg.InsufficientDataError{Op: "outlier", Need: 2, Have: len(maxima)}
	}

	// Least squares for p = a/f: a = sum(p/f) / sum(1/f^2).
	num, den := 0.0, 0.0
	for _, i := range maxima {
		f := band.Freqs[i]
		num += band.Power[i] / f
		den += 1 / (f * f)
	}
	a := num / den

	peaks := make([]Peak, len(maxima))
	devs := make([]float64, len(maxima))
	for j, i := range maxima {
		fit := a / band.Freqs[i]
		dev := math.Abs(band.Power[i] - fit)
		peaks[j] = Peak{Freq: band.Freqs[i], Power: band.Power[i], Fitted: fit, Deviation: dev}
		devs[j] = dev
	}

	res := Result{
		Limit: d.cfg.Threshold * deviationStat(d.cfg.Metric, devs),
		Peaks: peaks,
	}
	for _, dev := range devs {
		if dev > res.Limit {
			res.Flagged = true
			break
		}
	}
	return res, nil
}

// band restricts the spectrum to the configured frequency interval. The DC
// bin is always dropped, the inverse envelope is undefined at 0 Hz.
func (d *Detector) band(p spectrum.PSD) spectrum.PSD {
	high := d.cfg.High
	if high == 0 {
		high = math.Inf(1)
	}
	band := p.Band(d.cfg.Low, high)
	if band.Len() > 0 && band.Freqs[0] == 0 {
		band.Freqs = band.Freqs[1:]
		band.Power = band.Power[1:]
	}
	return band
}

// localMaxima returns the interior bins strictly greater than every other
// bin within w on each side.
func localMaxima(p spectrum.PSD, w int) []int {
	var out []int
	for i := w; i < p.Len()-w; i++ {
		isMax := true
		for j := i - w; j <= i+w; j++ {
			if j != i && p.Power[j] >= p.Power[i] {
				isMax = false
				break
			}
		}
		if isMax {
			out = append(out, i)
		}
	}
	return out
}

func deviationStat(m Metric, devs []float64) float64 {
	if m == MetricMean {
		return stat.Mean(devs, nil)
	}
	sorted := append([]float64(nil), devs...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}
