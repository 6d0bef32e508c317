package emg

import (
	"errors"
	"testing"
)

func TestTableSetAndChannel(t *testing.T) {
	table, err := NewTable(2000)
	if err != nil {
		t.Fatalf("NewTable error: %v", err)
	}
	if err := table.Set("EMG_zyg", NewRecord([]float64{1, 2, 3})); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	rec, err := table.Channel("EMG_zyg")
	if err != nil {
		t.Fatalf("Channel error: %v", err)
	}
	if rec.Len() != 3 {
		t.Fatalf("Len = %d, want 3", rec.Len())
	}
	if table.Rate() != 2000 {
		t.Fatalf("Rate = %v, want 2000", table.Rate())
	}
}

func TestTableMissingColumn(t *testing.T) {
	table, _ := NewTable(1000)

	_, err := table.Channel("absent")
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingColumnError", err)
	}
	if missing.Column != "absent" {
		t.Fatalf("Column = %q, want %q", missing.Column, "absent")
	}
}

func TestTableLengthMismatch(t *testing.T) {
	table, _ := NewTable(1000)
	if err := table.Set("a", NewRecord([]float64{1, 2})); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := table.Set("b", NewRecord([]float64{1, 2, 3})); err == nil {
		t.Fatal("expected error for mismatched channel length")
	}
}

func TestTableBadRate(t *testing.T) {
	_, err := NewTable(0)
	var perr *ParameterError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want ParameterError", err)
	}
}

func TestTableNamesOrdered(t *testing.T) {
	table, _ := NewTable(1000)
	for _, name := range []string{"c", "a", "b"} {
		if err := table.Set(name, NewRecord([]float64{0})); err != nil {
			t.Fatalf("Set(%q) error: %v", name, err)
		}
	}
	names := table.Names()
	want := []string{"c", "a", "b"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestTableSetReplaces(t *testing.T) {
	table, _ := NewTable(1000)
	_ = table.Set("a", NewRecord([]float64{1}))
	if err := table.Set("a", NewRecord([]float64{9})); err != nil {
		t.Fatalf("replace error: %v", err)
	}
	if len(table.Names()) != 1 {
		t.Fatalf("Names length = %d, want 1", len(table.Names()))
	}
	rec, _ := table.Channel("a")
	if rec.Samples[0] != 9 {
		t.Fatalf("Samples[0] = %v, want 9", rec.Samples[0])
	}
}
