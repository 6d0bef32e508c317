package feature

import (
	"math"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/spectrum"
	frequencystats "github.com/cwbudde/algo-emg/stats/frequency"
	timestats "github.com/cwbudde/algo-emg/stats/time"
)

// Config carries the tunable parameters of the standard catalogue.
// Zero values select the documented defaults.
type Config struct {
	// TwitchSplit is the boundary in Hz between the slow and fast
	// fibre bands. Defaults to 60.
	TwitchSplit float64 `yaml:"twitch_split"`

	// RolloffPercent is the cumulative power fraction for SRolloff.
	// Defaults to 0.85.
	RolloffPercent float64 `yaml:"rolloff_percent"`

	// VOrder is the exponent of the v-order descriptor. Defaults to 2,
	// which makes it coincide with RMS.
	VOrder float64 `yaml:"v_order"`

	// BandwidthOrder is the deviation order of SBandwidth. Defaults
	// to 2, which makes it coincide with SS.
	BandwidthOrder float64 `yaml:"bandwidth_order"`

	// SFluxSplit is the fraction of the recording forming the first
	// half-spectrum compared by SFlux. Defaults to 0.5.
	SFluxSplit float64 `yaml:"flux_split"`
}

func (c Config) withDefaults() Config {
	if c.TwitchSplit == 0 {
		c.TwitchSplit = 60
	}

	if c.RolloffPercent == 0 {
		c.RolloffPercent = 0.85
	}

	if c.VOrder == 0 {
		c.VOrder = 2
	}

	if c.BandwidthOrder == 0 {
		c.BandwidthOrder = 2
	}

	if c.SFluxSplit == 0 {
		c.SFluxSplit = 0.5
	}

	return c
}

func (c Config) validate() error {
	if c.TwitchSplit <= 0 || math.IsNaN(c.TwitchSplit) || math.IsInf(c.TwitchSplit, 0) {
		return emg.Parameterf("feature", "twitch split", "must be > 0 and finite: %g", c.TwitchSplit)
	}

	if c.RolloffPercent <= 0 || c.RolloffPercent >= 1 || math.IsNaN(c.RolloffPercent) {
		return emg.Parameterf("feature", "rolloff percent", "must lie in (0, 1): %g", c.RolloffPercent)
	}

	if c.VOrder < 1 || math.IsNaN(c.VOrder) || math.IsInf(c.VOrder, 0) {
		return emg.Parameterf("feature", "v-order", "must be >= 1 and finite: %g", c.VOrder)
	}

	if c.BandwidthOrder < 1 || math.IsNaN(c.BandwidthOrder) || math.IsInf(c.BandwidthOrder, 0) {
		return emg.Parameterf("feature", "bandwidth order", "must be >= 1 and finite: %g", c.BandwidthOrder)
	}

	if c.SFluxSplit <= 0 || c.SFluxSplit >= 1 || math.IsNaN(c.SFluxSplit) {
		return emg.Parameterf("feature", "flux split", "must lie in (0, 1): %g", c.SFluxSplit)
	}

	return nil
}

// Catalogue returns a registry populated with the standard descriptor
// set, bound to the given parameters.
func Catalogue(cfg Config) (*Registry, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	full := func(fn func(spectrum.PSD) (float64, error)) FreqFunc {
		return func(in SpectralInput) (float64, error) {
			return fn(in.Full)
		}
	}

	r := NewRegistry()

	r.MustRegister(Feature{Name: "Min", Domain: DomainTime, Time: timestats.Min})
	r.MustRegister(Feature{Name: "Max", Domain: DomainTime, Time: timestats.Max})
	r.MustRegister(Feature{Name: "Mean", Domain: DomainTime, Time: timestats.Mean})
	r.MustRegister(Feature{Name: "StdDev", Domain: DomainTime, Time: timestats.StdDev})
	r.MustRegister(Feature{Name: "Skewness", Domain: DomainTime, Time: timestats.Skewness})
	r.MustRegister(Feature{Name: "Kurtosis", Domain: DomainTime, Time: timestats.Kurtosis})
	r.MustRegister(Feature{Name: "IEMG", Domain: DomainTime, Time: timestats.IEMG})
	r.MustRegister(Feature{Name: "MAV", Domain: DomainTime, Time: timestats.MAV})
	r.MustRegister(Feature{Name: "MMAV1", Domain: DomainTime, Time: timestats.MMAV1})
	r.MustRegister(Feature{Name: "MMAV2", Domain: DomainTime, Time: timestats.MMAV2})
	r.MustRegister(Feature{Name: "SSI", Domain: DomainTime, Time: timestats.SSI})
	r.MustRegister(Feature{Name: "VAR", Domain: DomainTime, Time: timestats.VAR})
	r.MustRegister(Feature{Name: "VOrder", Domain: DomainTime, Time: func(samples []float64, valid []bool) (float64, error) {
		return timestats.VOrder(samples, valid, cfg.VOrder)
	}})
	r.MustRegister(Feature{Name: "RMS", Domain: DomainTime, Time: timestats.RMS})
	r.MustRegister(Feature{Name: "WL", Domain: DomainTime, Time: timestats.WL})
	r.MustRegister(Feature{Name: "LOG", Domain: DomainTime, Time: timestats.LOG})
	r.MustRegister(Feature{Name: "MFL", Domain: DomainTime, Time: timestats.MFL})
	r.MustRegister(Feature{Name: "AP", Domain: DomainTime, Time: timestats.AP})

	r.MustRegister(Feature{Name: "MDF", Domain: DomainFrequency, Freq: full(frequencystats.MDF)})
	r.MustRegister(Feature{Name: "MNF", Domain: DomainFrequency, Freq: full(frequencystats.MNF)})
	r.MustRegister(Feature{Name: "TwitchRatio", Domain: DomainFrequency, Freq: func(in SpectralInput) (float64, error) {
		return frequencystats.TwitchRatio(in.Full, cfg.TwitchSplit)
	}})
	r.MustRegister(Feature{Name: "TwitchIndex", Domain: DomainFrequency, Freq: func(in SpectralInput) (float64, error) {
		return frequencystats.TwitchIndex(in.Full, cfg.TwitchSplit)
	}})
	r.MustRegister(Feature{Name: "TwitchSlopeFast", Domain: DomainFrequency, Freq: func(in SpectralInput) (float64, error) {
		return frequencystats.TwitchSlopeFast(in.Full, cfg.TwitchSplit)
	}})
	r.MustRegister(Feature{Name: "TwitchSlopeSlow", Domain: DomainFrequency, Freq: func(in SpectralInput) (float64, error) {
		return frequencystats.TwitchSlopeSlow(in.Full, cfg.TwitchSplit)
	}})
	r.MustRegister(Feature{Name: "SC", Domain: DomainFrequency, Freq: full(frequencystats.SC)})
	r.MustRegister(Feature{Name: "SS", Domain: DomainFrequency, Freq: full(frequencystats.SS)})
	r.MustRegister(Feature{Name: "SBandwidth", Domain: DomainFrequency, Freq: func(in SpectralInput) (float64, error) {
		return frequencystats.SBandwidth(in.Full, cfg.BandwidthOrder)
	}})
	r.MustRegister(Feature{Name: "SFlatness", Domain: DomainFrequency, Freq: full(frequencystats.SFlatness)})
	r.MustRegister(Feature{Name: "SDecrease", Domain: DomainFrequency, Freq: full(frequencystats.SDecrease)})
	r.MustRegister(Feature{Name: "SEntropy", Domain: DomainFrequency, Freq: full(frequencystats.SEntropy)})
	r.MustRegister(Feature{Name: "SRolloff", Domain: DomainFrequency, Freq: func(in SpectralInput) (float64, error) {
		return frequencystats.SRolloff(in.Full, cfg.RolloffPercent)
	}})
	r.MustRegister(Feature{Name: "SFlux", Domain: DomainFrequency, Freq: func(in SpectralInput) (float64, error) {
		return frequencystats.SFlux(in.FirstHalf, in.SecondHalf)
	}})

	return r, nil
}
