package outlier

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/spectrum"
)

// Report is the outcome of scanning a directory. Flagged maps each flagged
// file identifier (base name without extension) to its path; Errors holds
// per-file failures that did not stop the scan.
type Report struct {
	Scanned int
	Flagged map[string]string
	Errors  map[string]error
}

// DetectDir analyzes every .csv recording directly under dir and reports
// the files with at least one flagged channel. A file that cannot be read
// or analyzed is recorded in Errors and the scan continues.
func (d *Detector) DetectDir(dir string, opts ...emg.ReadOption) (Report, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return Report{}, fmt.Errorf("outlier: scanning %s: %w", dir, err)
	}

	rep := Report{
		Flagged: make(map[string]string),
		Errors:  make(map[string]error),
	}
	for _, path := range paths {
		rep.Scanned++
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		flagged, err := d.detectFile(path, opts)
		if err != nil {
			rep.Errors[id] = err
			continue
		}
		if flagged {
			rep.Flagged[id] = path
		}
	}
	return rep, nil
}

func (d *Detector) detectFile(path string, opts []emg.ReadOption) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	table, err := emg.ReadCSV(f, opts...)
	if err != nil {
		return false, err
	}

	var firstErr error
	flagged := false
	for _, name := range table.Names() {
		rec, err := table.Channel(name)
		if err != nil {
			return false, err
		}

		psd, err := spectrum.EMGToPSD(rec.Samples, rec.Valid, table.Rate(), spectrum.WithNormalize(true))
		if err == nil {
			var res Result
			res, err = d.Detect(psd)
			flagged = flagged || res.Flagged
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("channel %s: %w", name, err)
		}
	}

	if flagged {
		return true, nil
	}
	return false, firstErr
}
