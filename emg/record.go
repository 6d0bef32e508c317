package emg

import "math"

// Record is one channel of samples with a parallel validity mask
// (true = usable). Stages treat records as immutable: they read one record
// and produce a new one, leaving the input untouched.
type Record struct {
	Samples []float64
	Valid   []bool
}

// NewRecord wraps samples in a record with an all-valid mask.
func NewRecord(samples []float64) Record {
	valid := make([]bool, len(samples))
	for i := range valid {
		valid[i] = true
	}
	return Record{Samples: samples, Valid: valid}
}

// Len returns the number of samples.
func (r Record) Len() int {
	return len(r.Samples)
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := Record{
		Samples: make([]float64, len(r.Samples)),
		Valid:   make([]bool, len(r.Valid)),
	}
	copy(out.Samples, r.Samples)
	copy(out.Valid, r.Valid)
	return out
}

// CountValid returns the number of usable samples.
func (r Record) CountValid() int {
	n := 0
	for _, v := range r.Valid {
		if v {
			n++
		}
	}
	return n
}

// PercentMissing returns the share of unusable samples in percent.
// An empty record reports 100.
func (r Record) PercentMissing() float64 {
	if len(r.Samples) == 0 {
		return 100
	}
	missing := len(r.Samples) - r.CountValid()
	return 100 * float64(missing) / float64(len(r.Samples))
}

// ValidSamples returns a new slice holding only the usable samples, in order.
func (r Record) ValidSamples() []float64 {
	out := make([]float64, 0, r.CountValid())
	for i, v := range r.Samples {
		if r.Valid[i] {
			out = append(out, v)
		}
	}
	return out
}

// CountNaN returns the number of usable positions holding NaN. Stages surface
// a warning when this is non-zero on entry.
func (r Record) CountNaN() int {
	n := 0
	for i, v := range r.Samples {
		if r.Valid[i] && math.IsNaN(v) {
			n++
		}
	}
	return n
}
