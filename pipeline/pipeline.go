package pipeline

import (
	"fmt"

	"github.com/cwbudde/algo-emg/emg"
)

// Context provides environmental information that stages need.
type Context struct {
	// SampleRate of the channel being processed, in Hz.
	SampleRate float64

	// Warn receives non-fatal diagnostics. May be nil.
	Warn func(emg.Warning)
}

// Warnf formats and emits a warning through the context sink, if one is set.
func (ctx Context) Warnf(op, format string, args ...any) {
	if ctx.Warn == nil {
		return
	}
	ctx.Warn(emg.Warningf(op, format, args...))
}

// Stage is the per-stage processing contract. Apply returns a new Record;
// it must not modify rec in place. Stages keep no state across calls, so a
// single Stage value may be used from multiple goroutines.
type Stage interface {
	Name() string
	Apply(ctx Context, rec emg.Record) (emg.Record, error)
}

// Chain runs an ordered list of stages over one channel. A failing stage
// aborts the chain; non-fatal conditions are reported as warnings.
type Chain struct {
	stages []Stage
}

// NewChain creates a chain from zero or more stages.
func NewChain(stages ...Stage) *Chain {
	return &Chain{stages: stages}
}

// Stages returns the stages in processing order.
func (c *Chain) Stages() []Stage {
	return c.stages
}

// Append adds stages to the end of the chain.
func (c *Chain) Append(stages ...Stage) {
	c.stages = append(c.stages, stages...)
}

// Apply runs every stage in order and returns the conditioned record and
// the warnings collected along the way. The input record is not modified.
func (c *Chain) Apply(rate float64, rec emg.Record) (emg.Record, []emg.Warning, error) {
	if rate <= 0 {
		return emg.Record{}, nil, emg.Parameterf("chain", "sampling rate", "must be > 0: %g", rate)
	}

	var warnings []emg.Warning
	ctx := Context{
		SampleRate: rate,
		Warn:       func(w emg.Warning) { warnings = append(warnings, w) },
	}
	if n := rec.CountNaN(); n > 0 {
		ctx.Warnf("chain", "%d NaN values at valid positions", n)
	}

	out := rec.Clone()
	for _, s := range c.stages {
		next, err := s.Apply(ctx, out)
		if err != nil {
			return emg.Record{}, warnings, fmt.Errorf("stage %s: %w", s.Name(), err)
		}
		out = next
	}

	return out, warnings, nil
}
