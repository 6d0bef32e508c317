package filter

import (
	"github.com/cwbudde/algo-emg/pipeline"
)

// DefaultRegistry returns a Registry pre-populated with every conditioning
// stage, so chains can be assembled from configuration by name. Parameters
// are read from the stage entry; a notch entry carries one band, and
// configurations list the stage again for additional bands.
func DefaultRegistry() *pipeline.Registry {
	r := pipeline.NewRegistry()

	r.MustRegister("notch", func(p pipeline.Params) (pipeline.Stage, error) {
		return NewNotch(Band{
			Freq: p.GetNum("freq", 0),
			Q:    p.GetNum("q", 0),
		})
	})
	r.MustRegister("bandpass", func(p pipeline.Params) (pipeline.Stage, error) {
		return NewBandpass(
			p.GetNum("low", 0),
			p.GetNum("high", 0),
			int(p.GetNum("order", 0)),
		)
	})
	r.MustRegister("rectify", func(_ pipeline.Params) (pipeline.Stage, error) {
		return NewRectify(), nil
	})
	r.MustRegister("hampel", func(p pipeline.Params) (pipeline.Stage, error) {
		return NewHampel(
			p.GetNum("window", 0),
			p.GetNum("n_sigma", 3),
		)
	})
	r.MustRegister("wiener", func(p pipeline.Params) (pipeline.Stage, error) {
		return NewWiener(p.GetNum("window", 0))
	})
	r.MustRegister("gapfill", func(p pipeline.Params) (pipeline.Stage, error) {
		return NewGapFill(
			p.GetStr("method", GapFillPCHIP),
			p.GetNum("max_gap", 0),
		)
	})
	r.MustRegister("smooth", func(p pipeline.Params) (pipeline.Stage, error) {
		return NewSmooth(
			p.GetStr("method", SmoothBoxcar),
			p.GetNum("window", 0),
		)
	})

	return r
}
