package filter

import (
	"math"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/pipeline"
)

// Rectify replaces every valid sample with its absolute value. It has no
// parameters and is idempotent.
type Rectify struct{}

// NewRectify returns the rectifier stage.
func NewRectify() *Rectify { return &Rectify{} }

func (Rectify) Name() string { return "rectify" }

func (Rectify) Apply(_ pipeline.Context, rec emg.Record) (emg.Record, error) {
	out := rec.Clone()
	for i, ok := range out.Valid {
		if ok {
			out.Samples[i] = math.Abs(out.Samples[i])
		}
	}

	return out, nil
}
