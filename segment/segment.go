// Package segment partitions validity masks into contiguous runs and
// enforces the run-length policy applied before filtering.
package segment

import (
	"github.com/cwbudde/algo-emg/emg"
)

// Run is a maximal contiguous stretch of one mask value, half-open
// [Start, End).
type Run struct {
	Start int
	End   int
	Valid bool
}

// Len returns the number of samples covered by the run.
func (r Run) Len() int {
	return r.End - r.Start
}

// Runs partitions a mask into maximal runs in index order. An empty mask
// yields no runs.
func Runs(valid []bool) []Run {
	if len(valid) == 0 {
		return nil
	}
	var runs []Run
	start := 0
	for i := 1; i < len(valid); i++ {
		if valid[i] != valid[start] {
			runs = append(runs, Run{Start: start, End: i, Valid: valid[start]})
			start = i
		}
	}
	return append(runs, Run{Start: start, End: len(valid), Valid: valid[start]})
}

// ValidRuns returns only the usable runs of the mask.
func ValidRuns(valid []bool) []Run {
	return filterRuns(valid, true)
}

// InvalidRuns returns only the gaps of the mask.
func InvalidRuns(valid []bool) []Run {
	return filterRuns(valid, false)
}

func filterRuns(valid []bool, keep bool) []Run {
	all := Runs(valid)
	out := all[:0:0]
	for _, r := range all {
		if r.Valid == keep {
			out = append(out, r)
		}
	}
	return out
}

// LongestValid returns the length of the longest usable run, or 0.
func LongestValid(valid []bool) int {
	longest := 0
	for _, r := range ValidRuns(valid) {
		if r.Len() > longest {
			longest = r.Len()
		}
	}
	return longest
}

// Policy holds the run-length thresholds applied to a mask before filtering.
// MinValidSeconds forces usable runs shorter than the threshold invalid;
// MaxGapSeconds bounds the interior gaps FillableGaps reports for the
// gap-fill stage.
type Policy struct {
	MinValidSeconds float64
	MaxGapSeconds   float64
}

// Apply returns a new mask with valid runs strictly shorter than
// MinValidSeconds forced invalid. A threshold longer than the whole
// recording can never be satisfied and is rejected.
func (p Policy) Apply(valid []bool, rate float64) ([]bool, error) {
	if rate <= 0 {
		return nil, emg.Parameterf("segment", "sampling rate", "must be > 0: %g", rate)
	}
	if p.MinValidSeconds < 0 {
		return nil, emg.Parameterf("segment", "minimum valid run", "must be >= 0: %g", p.MinValidSeconds)
	}

	minSamples := p.MinValidSeconds * rate
	if minSamples > float64(len(valid)) {
		return nil, emg.Parameterf("segment", "minimum valid run",
			"of %g s can never be satisfied by %d samples at %g Hz", p.MinValidSeconds, len(valid), rate)
	}

	out := make([]bool, len(valid))
	copy(out, valid)
	for _, r := range ValidRuns(valid) {
		if float64(r.Len()) < minSamples {
			for i := r.Start; i < r.End; i++ {
				out[i] = false
			}
		}
	}
	return out, nil
}

// FillableGaps returns the invalid runs strictly shorter than MaxGapSeconds.
// Gaps touching either channel edge have no bracketing samples and are
// never reported.
func (p Policy) FillableGaps(valid []bool, rate float64) []Run {
	maxGap := p.MaxGapSeconds * rate
	var gaps []Run
	for _, r := range InvalidRuns(valid) {
		if float64(r.Len()) < maxGap && r.Start > 0 && r.End < len(valid) {
			gaps = append(gaps, r)
		}
	}
	return gaps
}
