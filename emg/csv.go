package emg

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

const defaultTimeColumn = "Time"

var (
	errNoHeader = errors.New("csv: missing header row")
	errNoRows   = errors.New("csv: no data rows")
	errNoRate   = errors.New("csv: no time column found and no explicit sampling rate given")
)

// ReadOption configures CSV reading.
type ReadOption func(*readConfig)

type readConfig struct {
	rate       float64
	timeColumn string
}

// WithRate sets an explicit sampling rate, overriding time-column inference.
func WithRate(rate float64) ReadOption {
	return func(cfg *readConfig) {
		if rate > 0 {
			cfg.rate = rate
		}
	}
}

// WithTimeColumn sets the header name of the time axis (default "Time").
func WithTimeColumn(name string) ReadOption {
	return func(cfg *readConfig) {
		if name != "" {
			cfg.timeColumn = name
		}
	}
}

// ReadCSV parses one recording: a header row, an optional monotonically
// increasing time column, and one or more numeric channels. Empty or NaN
// cells become invalid positions in the channel mask. The sampling rate is
// inferred from the time column (median sample period) unless WithRate is
// given.
func ReadCSV(r io.Reader, opts ...ReadOption) (*Table, error) {
	cfg := readConfig{timeColumn: defaultTimeColumn}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("csv: reading header: %w", err)
	}

	timeIdx := -1
	for i, name := range header {
		if name == cfg.timeColumn {
			timeIdx = i
			break
		}
	}
	if timeIdx < 0 && cfg.rate <= 0 {
		return nil, errNoRate
	}

	var times []float64
	columns := make([][]float64, len(header))
	masks := make([][]bool, len(header))

	row := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: row %d: %w", row, err)
		}
		for i, field := range fields {
			if i == timeIdx {
				t, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
				if err != nil {
					return nil, fmt.Errorf("csv: row %d: time value %q: %w", row, field, err)
				}
				times = append(times, t)
				continue
			}
			v, ok, err := parseCell(field)
			if err != nil {
				return nil, fmt.Errorf("csv: row %d, column %q: %w", row, header[i], err)
			}
			columns[i] = append(columns[i], v)
			masks[i] = append(masks[i], ok)
		}
		row++
	}
	if row == 1 {
		return nil, errNoRows
	}

	rate := cfg.rate
	if rate <= 0 {
		rate, err = inferRate(times)
		if err != nil {
			return nil, err
		}
	}

	table, err := NewTable(rate)
	if err != nil {
		return nil, err
	}
	for i, name := range header {
		if i == timeIdx {
			continue
		}
		if err := table.Set(name, Record{Samples: columns[i], Valid: masks[i]}); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// parseCell converts one CSV cell. Empty and NaN cells are missing values.
func parseCell(field string) (float64, bool, error) {
	s := strings.TrimSpace(field)
	if s == "" {
		return math.NaN(), false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(v) {
		return math.NaN(), false, nil
	}
	return v, true, nil
}

// inferRate derives the sampling rate from a strictly increasing time axis.
// The median period is used so a handful of irregular stamps cannot skew the
// estimate.
func inferRate(times []float64) (float64, error) {
	if len(times) < 2 {
		return 0, fmt.Errorf("csv: need at least 2 time stamps to infer a rate, have %d", len(times))
	}
	dts := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		dt := times[i] - times[i-1]
		if dt <= 0 {
			return 0, fmt.Errorf("csv: time column not strictly increasing at row %d", i+1)
		}
		dts = append(dts, dt)
	}
	sort.Float64s(dts)
	mid := dts[len(dts)/2]
	if len(dts)%2 == 0 {
		mid = (dts[len(dts)/2-1] + dts[len(dts)/2]) / 2
	}
	return 1 / mid, nil
}

// WriteCSV emits the table with a regenerated time column. Invalid positions
// are written as NaN so a round trip preserves the mask.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	names := t.Names()
	header := append([]string{defaultTimeColumn}, names...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: writing header: %w", err)
	}

	recs := make([]Record, len(names))
	for i, name := range names {
		rec, err := t.Channel(name)
		if err != nil {
			return err
		}
		recs[i] = rec
	}

	fields := make([]string, len(header))
	for i := 0; i < t.Len(); i++ {
		fields[0] = strconv.FormatFloat(float64(i)/t.Rate(), 'g', -1, 64)
		for j, rec := range recs {
			if !rec.Valid[i] {
				fields[j+1] = "NaN"
				continue
			}
			fields[j+1] = strconv.FormatFloat(rec.Samples[i], 'g', -1, 64)
		}
		if err := cw.Write(fields); err != nil {
			return fmt.Errorf("csv: writing row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
