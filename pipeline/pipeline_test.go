package pipeline

import (
	"errors"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-emg/emg"
)

// stubStage scales valid samples by gain and optionally warns or fails.
type stubStage struct {
	name string
	gain float64
	warn string
	err  error
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Apply(ctx Context, rec emg.Record) (emg.Record, error) {
	if s.err != nil {
		return emg.Record{}, s.err
	}
	if s.warn != "" {
		ctx.Warnf(s.name, "%s", s.warn)
	}

	out := rec.Clone()
	if s.gain != 0 {
		for i, ok := range out.Valid {
			if ok {
				out.Samples[i] *= s.gain
			}
		}
	}

	return out, nil
}

func TestChainApply_RunsStagesInOrder(t *testing.T) {
	rec := emg.NewRecord([]float64{1, 2, 3, 4})
	rec.Valid[2] = false

	chain := NewChain(
		&stubStage{name: "double", gain: 2},
		&stubStage{name: "triple", gain: 3},
	)

	out, warnings, err := chain.Apply(1000, rec)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	want := []float64{6, 12, 3, 24}
	for i, w := range want {
		if out.Samples[i] != w {
			t.Errorf("sample %d: got %v, want %v", i, out.Samples[i], w)
		}
	}
	if out.Valid[2] {
		t.Error("mask bit 2 should remain invalid")
	}

	// Input record untouched.
	if rec.Samples[0] != 1 || rec.Samples[3] != 4 {
		t.Error("input record was modified")
	}
}

func TestChainApply_CollectsWarnings(t *testing.T) {
	chain := NewChain(
		&stubStage{name: "a", gain: 1, warn: "window exceeds half the segment"},
		&stubStage{name: "b", gain: 1, warn: "short segment skipped"},
	)

	_, warnings, err := chain.Apply(1000, emg.NewRecord([]float64{1, 2, 3}))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2", len(warnings))
	}
	if warnings[0].Op != "a" || warnings[1].Op != "b" {
		t.Fatalf("unexpected warning order: %v", warnings)
	}
}

func TestChainApply_WarnsOnNaNAtValidPositions(t *testing.T) {
	rec := emg.NewRecord([]float64{1, math.NaN(), 3, math.NaN()})
	rec.Valid[3] = false

	chain := NewChain(&stubStage{name: "pass", gain: 1})

	_, warnings, err := chain.Apply(1000, rec)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if warnings[0].Op != "chain" || !strings.Contains(warnings[0].Msg, "1 NaN") {
		t.Fatalf("unexpected warning: %v", warnings[0])
	}
}

func TestChainApply_ErrorNamesStage(t *testing.T) {
	wantErr := emg.Parameterf("notch", "freq", "must be > 0: %g", -60.0)
	chain := NewChain(
		&stubStage{name: "ok", gain: 1},
		&stubStage{name: "broken", err: wantErr},
	)

	_, _, err := chain.Apply(1000, emg.NewRecord([]float64{1, 2}))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Fatalf("error does not name the failing stage: %v", err)
	}

	var perr *emg.ParameterError
	if !errors.As(err, &perr) {
		t.Fatalf("wrapped ParameterError lost: %v", err)
	}
}

func TestChainApply_RejectsInvalidRate(t *testing.T) {
	chain := NewChain()

	_, _, err := chain.Apply(0, emg.NewRecord([]float64{1}))
	var perr *emg.ParameterError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParameterError for rate 0, got: %v", err)
	}
}

func TestContextWarnf_NilSink(t *testing.T) {
	// Must not panic without a sink.
	Context{SampleRate: 1000}.Warnf("op", "msg %d", 1)
}

func TestParamsGetNum(t *testing.T) {
	p := Params{Num: map[string]float64{"freq": 60}}

	if got := p.GetNum("freq", 50); got != 60 {
		t.Errorf("got %v, want 60", got)
	}
	if got := p.GetNum("missing", 50); got != 50 {
		t.Errorf("default: got %v, want 50", got)
	}
	if got := (Params{}).GetNum("freq", 50); got != 50 {
		t.Errorf("nil map: got %v, want 50", got)
	}
}

func TestParamsGetStr(t *testing.T) {
	p := Params{Str: map[string]string{"kind": "boxcar"}}

	if got := p.GetStr("kind", "rms"); got != "boxcar" {
		t.Errorf("got %q, want boxcar", got)
	}
	if got := p.GetStr("missing", "rms"); got != "rms" {
		t.Errorf("default: got %q, want rms", got)
	}
}

func TestParamsUnmarshalYAML(t *testing.T) {
	src := "type: notch\nfreq: 60\nq: 5\nkind: iir\nenabled: true\n"

	var p Params
	if err := yaml.Unmarshal([]byte(src), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if p.Type != "notch" {
		t.Fatalf("Type=%q, want notch", p.Type)
	}
	if got := p.GetNum("freq", 0); got != 60 {
		t.Errorf("freq=%v, want 60", got)
	}
	if got := p.GetNum("q", 0); got != 5 {
		t.Errorf("q=%v, want 5", got)
	}
	if got := p.GetStr("kind", ""); got != "iir" {
		t.Errorf("kind=%q, want iir", got)
	}
	if got := p.GetNum("enabled", 0); got != 1 {
		t.Errorf("enabled=%v, want 1", got)
	}
	if _, ok := p.Str["type"]; ok {
		t.Error("type should not remain in Str map")
	}
}
