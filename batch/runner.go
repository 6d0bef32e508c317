package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/feature"
	"github.com/cwbudde/algo-emg/filter"
	"github.com/cwbudde/algo-emg/pipeline"
	"github.com/cwbudde/algo-emg/segment"
)

// Result is the outcome for one input file. Err is set for failed files;
// the rest of the batch is unaffected.
type Result struct {
	Path     string
	ID       string
	Row      feature.Row
	Warnings []emg.Warning
	Err      error
}

// Summary aggregates a finished batch.
type Summary struct {
	Processed int
	Failed    int
	Results   []Result
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger routes progress and failure reports to the given logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// Runner conditions every recording under a directory and extracts the
// descriptor catalogue from each.
type Runner struct {
	cfg       Config
	pre       *pipeline.Chain
	post      *pipeline.Chain
	extractor *feature.Extractor
	log       *slog.Logger
}

// NewRunner validates the configuration through the library constructors
// and splits the chain at the first smoothing stage: spectra are
// estimated from the signal entering it, time-domain descriptors from
// the full chain's output.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	cfg = cfg.withDefaults()

	chain, err := filter.DefaultRegistry().Build(cfg.Stages)
	if err != nil {
		return nil, err
	}

	stages := chain.Stages()
	cut := len(stages)
	for i, s := range stages {
		if s.Name() == "smooth" {
			cut = i
			break
		}
	}

	extractor, err := feature.NewExtractor(cfg.Features)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:       cfg,
		pre:       pipeline.NewChain(stages[:cut]...),
		post:      pipeline.NewChain(stages[cut:]...),
		extractor: extractor,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Extractor exposes the bound catalogue, so callers can enumerate the
// output columns.
func (r *Runner) Extractor() *feature.Extractor {
	return r.extractor
}

// Run processes every recording under the input directory. Workers pick
// files concurrently but results keep the sorted input order, and the
// feature table is written once after all workers finish. The returned
// error covers batch-level failures only; per-file failures are carried
// in the summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	files, err := collectRecordings(r.cfg.InputDir)
	if err != nil {
		return Summary{}, err
	}

	if len(files) == 0 {
		r.log.Warn("no recordings matched", "dir", r.cfg.InputDir)
		return Summary{}, nil
	}

	results := make([]Result, len(files))

	var progress atomic.Int64

	sem := make(chan struct{}, r.cfg.Workers)

	var waitGroup sync.WaitGroup

	for idx, path := range files {
		waitGroup.Add(1)

		go func(idx int, path string) {
			defer waitGroup.Done()

			sem <- struct{}{}

			defer func() { <-sem }()

			// Cancellation is coarse: already-running files finish,
			// queued ones are skipped.
			if err := ctx.Err(); err != nil {
				results[idx] = Result{Path: path, ID: fileID(path), Err: err}
				return
			}

			results[idx] = r.processFile(path)

			done := progress.Add(1)
			r.log.Info("processed", "file", path, "done", done, "total", len(files))
		}(idx, path)
	}

	waitGroup.Wait()

	summary := Summary{Results: results}
	for i := range results {
		res := &results[i]
		for _, w := range res.Warnings {
			r.log.Warn("stage warning", "file", res.Path, "warning", w.String())
		}

		if res.Err != nil {
			summary.Failed++
			r.log.Error("recording failed", "file", res.Path, "error", res.Err)

			continue
		}

		summary.Processed++
	}

	if r.cfg.OutputFile != "" {
		if err := r.writeOutput(results); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

func (r *Runner) writeOutput(results []Result) error {
	out, err := os.Create(r.cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("creating feature table: %w", err)
	}

	if err := WriteFeatureCSV(out, results, r.extractor.Registry()); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

// processFile runs one recording through segmentation, both chain halves
// and the catalogue.
func (r *Runner) processFile(path string) Result {
	res := Result{Path: path, ID: fileID(path)}

	f, err := os.Open(path)
	if err != nil {
		res.Err = err
		return res
	}
	defer f.Close()

	var opts []emg.ReadOption
	if r.cfg.SampleRate > 0 {
		opts = append(opts, emg.WithRate(r.cfg.SampleRate))
	}

	if r.cfg.TimeColumn != "" {
		opts = append(opts, emg.WithTimeColumn(r.cfg.TimeColumn))
	}

	table, err := emg.ReadCSV(f, opts...)
	if err != nil {
		res.Err = err
		return res
	}

	channels := r.cfg.Channels
	if len(channels) == 0 {
		channels = table.Names()
	}

	rate := table.Rate()
	policy := segment.Policy{MinValidSeconds: r.cfg.MinSegment}

	cleaned, err := emg.NewTable(rate)
	if err != nil {
		res.Err = err
		return res
	}

	sources := make([]feature.Source, 0, len(channels))

	for _, name := range channels {
		rec, err := table.Channel(name)
		if err != nil {
			res.Err = err
			return res
		}

		masked, err := policy.Apply(rec.Valid, rate)
		if err != nil {
			res.Err = err
			return res
		}

		rec = emg.Record{Samples: rec.Samples, Valid: masked}

		spectral, warns, err := r.pre.Apply(rate, rec)
		res.Warnings = append(res.Warnings, warns...)

		if err != nil {
			res.Err = fmt.Errorf("channel %s: %w", name, err)
			return res
		}

		conditioned, warns, err := r.post.Apply(rate, spectral)
		res.Warnings = append(res.Warnings, warns...)

		if err != nil {
			res.Err = fmt.Errorf("channel %s: %w", name, err)
			return res
		}

		sources = append(sources, feature.Source{Channel: name, Time: conditioned, Spectral: spectral})

		if err := cleaned.Set(name, conditioned); err != nil {
			res.Err = err
			return res
		}
	}

	row, err := r.extractor.Extract(res.ID, rate, sources)
	if err != nil {
		res.Err = err
		return res
	}

	res.Row = row

	if r.cfg.CleanedDir != "" {
		if err := r.writeCleaned(res.ID, cleaned); err != nil {
			res.Err = err
			return res
		}
	}

	return res
}

func (r *Runner) writeCleaned(id string, t *emg.Table) error {
	if err := os.MkdirAll(r.cfg.CleanedDir, 0o755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(r.cfg.CleanedDir, id+".csv"))
	if err != nil {
		return err
	}

	if err := emg.WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// fileID strips directory and extension into the identifier rows are
// keyed by.
func fileID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// collectRecordings gathers every .csv under root in sorted order.
func collectRecordings(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)

	return files, nil
}
