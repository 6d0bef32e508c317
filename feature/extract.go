package feature

import (
	"fmt"

	"github.com/cwbudde/algo-emg/emg"
)

// Source pairs the two conditioned views of one channel: the fully
// conditioned sequence for time-domain descriptors and the pre-smoothing
// sequence the spectra are estimated from.
type Source struct {
	Channel  string
	Time     emg.Record
	Spectral emg.Record
}

// ChannelFeatures holds one channel's descriptor values keyed by
// catalogue name, plus the share of invalid samples in each input.
type ChannelFeatures struct {
	Channel                string
	Values                 map[string]float64
	PercentMissingTime     float64
	PercentMissingSpectral float64
}

// Row is the result of one recording: the file identifier and one value
// set per channel, in input order. Rows are immutable once computed.
type Row struct {
	ID       string
	Channels []ChannelFeatures
}

// Extractor evaluates the catalogue over conditioned channels.
type Extractor struct {
	reg *Registry
	cfg Config
}

// NewExtractor builds an extractor around the standard catalogue.
func NewExtractor(cfg Config) (*Extractor, error) {
	cfg = cfg.withDefaults()

	reg, err := Catalogue(cfg)
	if err != nil {
		return nil, err
	}

	return &Extractor{reg: reg, cfg: cfg}, nil
}

// Registry exposes the bound catalogue, primarily so writers can
// enumerate column names in catalogue order.
func (e *Extractor) Registry() *Registry {
	return e.reg
}

// Extract computes every catalogue descriptor for each source channel.
// A descriptor failure aborts the whole row; rows never carry holes.
func (e *Extractor) Extract(id string, rate float64, sources []Source) (Row, error) {
	row := Row{ID: id, Channels: make([]ChannelFeatures, 0, len(sources))}

	for _, src := range sources {
		cf, err := e.extractChannel(rate, src)
		if err != nil {
			return Row{}, fmt.Errorf("channel %s: %w", src.Channel, err)
		}

		row.Channels = append(row.Channels, cf)
	}

	return row, nil
}

func (e *Extractor) extractChannel(rate float64, src Source) (ChannelFeatures, error) {
	cf := ChannelFeatures{
		Channel:                src.Channel,
		Values:                 make(map[string]float64, e.reg.Len()),
		PercentMissingTime:     src.Time.PercentMissing(),
		PercentMissingSpectral: src.Spectral.PercentMissing(),
	}

	for _, name := range e.reg.Names(DomainTime) {
		f, _ := e.reg.Lookup(name)

		v, err := f.Time(src.Time.Samples, src.Time.Valid)
		if err != nil {
			return ChannelFeatures{}, fmt.Errorf("%s: %w", name, err)
		}

		cf.Values[name] = v
	}

	in, err := NewSpectralInput(src.Spectral, rate, e.cfg.SFluxSplit)
	if err != nil {
		return ChannelFeatures{}, err
	}

	for _, name := range e.reg.Names(DomainFrequency) {
		f, _ := e.reg.Lookup(name)

		v, err := f.Freq(in)
		if err != nil {
			return ChannelFeatures{}, fmt.Errorf("%s: %w", name, err)
		}

		cf.Values[name] = v
	}

	return cf, nil
}
