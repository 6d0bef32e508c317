// Package batch turns a directory of recordings into one feature table.
// Each file is an independent unit of work processed by a bounded worker
// pool; a failure affects only its own file and is reported in the
// summary while the rest of the batch continues.
package batch

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-emg/feature"
	"github.com/cwbudde/algo-emg/pipeline"
)

// Config is the batch processing surface. Stage parameters and feature
// parameters are validated by the library constructors when the runner
// is built, not here.
type Config struct {
	// InputDir is scanned recursively for .csv recordings.
	InputDir string `yaml:"input_dir"`

	// OutputFile receives the feature table. Empty skips writing, which
	// leaves the rows available only through the summary.
	OutputFile string `yaml:"output_file"`

	// CleanedDir, when set, receives one conditioned copy of every
	// successfully processed recording.
	CleanedDir string `yaml:"cleaned_dir"`

	// SampleRate overrides the rate inferred from each file's time
	// column. Zero infers per file.
	SampleRate float64 `yaml:"sample_rate"`

	// TimeColumn names the timestamp column when it is not the first.
	TimeColumn string `yaml:"time_column"`

	// Channels selects the columns to process. Empty processes all.
	Channels []string `yaml:"channels"`

	// MinSegment is the shortest usable run in seconds; shorter valid
	// runs are masked out before filtering.
	MinSegment float64 `yaml:"min_segment"`

	// Stages is the conditioning chain in execution order. Empty
	// selects DefaultStages.
	Stages []pipeline.Params `yaml:"stages"`

	// Features parameterises the descriptor catalogue.
	Features feature.Config `yaml:"features"`

	// Workers bounds the pool. Zero selects runtime.NumCPU.
	Workers int `yaml:"workers"`
}

// DefaultStages returns the standard conditioning chain: mains notch,
// sEMG band limit, then an RMS envelope over 50 ms windows.
func DefaultStages() []pipeline.Params {
	return []pipeline.Params{
		{Type: "notch", Num: map[string]float64{"freq": 60, "q": 5}},
		{Type: "bandpass", Num: map[string]float64{"low": 20, "high": 450, "order": 4}},
		{Type: "smooth", Num: map[string]float64{"window": 0.05}, Str: map[string]string{"method": "rms"}},
	}
}

// LoadConfig reads a YAML batch configuration.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func (c Config) withDefaults() Config {
	if len(c.Stages) == 0 {
		c.Stages = DefaultStages()
	}

	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	return c
}
