package outlier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/internal/testutil"
)

func writeRecording(t *testing.T, path string, samples []float64, rate float64) {
	t.Helper()

	table, err := emg.NewTable(rate)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if err := table.Set("EMG", emg.NewRecord(samples)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if err := emg.WriteCSV(f, table); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
}

func TestDetectDir_IsolatesPerFileFailures(t *testing.T) {
	dir := t.TempDir()

	writeRecording(t, filepath.Join(dir, "good.csv"), testutil.SyntheticEMG(9, 1000, 2000), 1000)
	writeRecording(t, filepath.Join(dir, "short.csv"), []float64{1, 2, 3}, 1000)
	if err := os.WriteFile(filepath.Join(dir, "junk.csv"), []byte("Time,EMG\nabc,def\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "note.txt"), []byte("not a recording"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	d, err := New(Config{Threshold: 1e9})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rep, err := d.DetectDir(dir)
	if err != nil {
		t.Fatalf("DetectDir: %v", err)
	}

	if rep.Scanned != 3 {
		t.Fatalf("scanned %d files, want 3", rep.Scanned)
	}
	if len(rep.Flagged) != 0 {
		t.Fatalf("flagged %v with an unreachable threshold", rep.Flagged)
	}
	if _, ok := rep.Errors["short"]; !ok {
		t.Error("missing error for the too-short recording")
	}
	if _, ok := rep.Errors["junk"]; !ok {
		t.Error("missing error for the unparseable recording")
	}
	if err, ok := rep.Errors["good"]; ok {
		t.Errorf("healthy recording reported an error: %v", err)
	}
}

func TestDetectDir_FlagsAndMapsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "good.csv")
	writeRecording(t, path, testutil.SyntheticEMG(9, 1000, 2000), 1000)

	// Any spectrum with a nonzero median deviation exceeds this limit.
	d, err := New(Config{Threshold: 1e-9})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rep, err := d.DetectDir(dir)
	if err != nil {
		t.Fatalf("DetectDir: %v", err)
	}

	if got, ok := rep.Flagged["good"]; !ok || got != path {
		t.Fatalf("flagged = %v, want good -> %s", rep.Flagged, path)
	}
}

func TestDetectDir_EmptyDirectory(t *testing.T) {
	d, err := New(Config{Threshold: 5})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rep, err := d.DetectDir(t.TempDir())
	if err != nil {
		t.Fatalf("DetectDir: %v", err)
	}
	if rep.Scanned != 0 || len(rep.Flagged) != 0 || len(rep.Errors) != 0 {
		t.Fatalf("empty directory produced %+v", rep)
	}
}
