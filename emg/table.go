package emg

import "fmt"

// Table is an ordered set of named channels sharing one length and one
// sampling rate. The time axis is implicit: position i corresponds to
// i / Rate seconds.
type Table struct {
	names []string
	cols  map[string]Record
	rate  float64
	n     int
}

// NewTable creates an empty table for the given sampling rate.
func NewTable(rate float64) (*Table, error) {
	if rate <= 0 {
		return nil, Parameterf("table", "sampling rate", "must be > 0: %g", rate)
	}
	return &Table{cols: make(map[string]Record), rate: rate}, nil
}

// Rate returns the sampling rate in Hz.
func (t *Table) Rate() float64 {
	return t.rate
}

// Len returns the per-channel sample count.
func (t *Table) Len() int {
	return t.n
}

// Names returns the channel names in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Channel returns the named channel, or a MissingColumnError.
func (t *Table) Channel(name string) (Record, error) {
	rec, ok := t.cols[name]
	if !ok {
		return Record{}, &MissingColumnError{Column: name}
	}
	return rec, nil
}

// Set adds or replaces a channel. All channels must share the table length;
// the first channel added fixes it.
func (t *Table) Set(name string, rec Record) error {
	if len(rec.Samples) != len(rec.Valid) {
		return fmt.Errorf("channel %q: mask length %d does not match sample length %d",
			name, len(rec.Valid), len(rec.Samples))
	}
	if len(t.names) == 0 {
		t.n = rec.Len()
	} else if rec.Len() != t.n {
		return fmt.Errorf("channel %q: length %d does not match table length %d",
			name, rec.Len(), t.n)
	}
	if _, ok := t.cols[name]; !ok {
		t.names = append(t.names, name)
	}
	t.cols[name] = rec
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		names: make([]string, len(t.names)),
		cols:  make(map[string]Record, len(t.cols)),
		rate:  t.rate,
		n:     t.n,
	}
	copy(out.names, t.names)
	for name, rec := range t.cols {
		out.cols[name] = rec.Clone()
	}
	return out
}
