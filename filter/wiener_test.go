package filter

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/internal/testutil"
	"github.com/cwbudde/algo-emg/pipeline"
)

func sampleVariance(x []float64) float64 {
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	ss := 0.0
	for _, v := range x {
		ss += (v - mean) * (v - mean)
	}

	return ss / float64(len(x)-1)
}

func TestWiener_ConstantUnchanged(t *testing.T) {
	const rate = 1000.0

	stage, err := NewWiener(0.02)
	if err != nil {
		t.Fatalf("NewWiener: %v", err)
	}

	rec := emg.NewRecord(testutil.Constant(3, 300))
	out := applyStage(t, stage, rate, rec)

	testutil.RequireSliceNearlyEqual(t, out.Samples, rec.Samples, 1e-12)
}

func TestWiener_ReducesNoiseVariance(t *testing.T) {
	const rate = 2000.0

	noise := testutil.DeterministicNoise(11, 0.5, 2000)
	base := testutil.DeterministicSine(10, rate, 1, 2000)
	noisy := make([]float64, len(base))
	for i := range noisy {
		noisy[i] = base[i] + noise[i]
	}

	stage, err := NewWiener(0.01)
	if err != nil {
		t.Fatalf("NewWiener: %v", err)
	}

	out := applyStage(t, stage, rate, emg.NewRecord(noisy))

	// Residual around the slow component should shrink.
	resIn := make([]float64, len(base))
	resOut := make([]float64, len(base))
	for i := range base {
		resIn[i] = noisy[i] - base[i]
		resOut[i] = out.Samples[i] - base[i]
	}
	if vo, vi := sampleVariance(resOut), sampleVariance(resIn); vo >= vi {
		t.Fatalf("noise variance not reduced: out %v, in %v", vo, vi)
	}
}

func TestWiener_MaskUnchangedInvalidUntouched(t *testing.T) {
	const rate = 1000.0

	stage, err := NewWiener(0.02)
	if err != nil {
		t.Fatalf("NewWiener: %v", err)
	}

	rec := emg.Record{
		Samples: testutil.SyntheticEMG(5, rate, 400),
		Valid:   testutil.MaskWithGap(400, 150, 50),
	}
	rec.Samples[160] = 99

	out := applyStage(t, stage, rate, rec)

	if out.Samples[160] != 99 {
		t.Fatalf("invalid position rewritten: %v", out.Samples[160])
	}
	for i, ok := range out.Valid {
		if ok != rec.Valid[i] {
			t.Fatalf("mask changed at %d", i)
		}
	}
}

func TestNewWiener_Validation(t *testing.T) {
	var perr *emg.ParameterError

	if _, err := NewWiener(0); !errors.As(err, &perr) {
		t.Errorf("zero window: want ParameterError, got %v", err)
	}

	stage, err := NewWiener(0.001)
	if err != nil {
		t.Fatalf("NewWiener: %v", err)
	}
	_, err = stage.Apply(pipeline.Context{SampleRate: 100}, emg.NewRecord(make([]float64, 8)))
	if !errors.As(err, &perr) {
		t.Errorf("1 ms window at 100 Hz: want ParameterError, got %v", err)
	}
}
