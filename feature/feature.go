// Package feature maintains the catalogue of scalar descriptors computed
// from conditioned recordings. Every descriptor is a named pure function
// with a declared input domain, so callers can enumerate and evaluate the
// applicable subset per domain without special-casing individual entries.
package feature

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/spectrum"
)

// Domain names the input a descriptor operates on.
type Domain string

const (
	// DomainTime marks descriptors of the conditioned sample sequence.
	DomainTime Domain = "time"

	// DomainFrequency marks descriptors of the power spectral density.
	DomainFrequency Domain = "frequency"
)

// SpectralInput carries the spectra a frequency-domain descriptor may
// consume: the full recording's PSD plus the PSDs of its two halves for
// descriptors that compare spectra over time.
type SpectralInput struct {
	Full       spectrum.PSD
	FirstHalf  spectrum.PSD
	SecondHalf spectrum.PSD
}

// NewSpectralInput estimates the three normalised spectra of a recording,
// splitting it at the given fraction of its length.
func NewSpectralInput(rec emg.Record, rate, splitFraction float64) (SpectralInput, error) {
	if splitFraction <= 0 || splitFraction >= 1 {
		return SpectralInput{}, emg.Parameterf("feature", "split fraction", "must lie in (0, 1): %g", splitFraction)
	}

	full, err := spectrum.EMGToPSD(rec.Samples, rec.Valid, rate, spectrum.WithNormalize(true))
	if err != nil {
		return SpectralInput{}, err
	}

	split := int(splitFraction * float64(rec.Len()))

	first, err := spectrum.EMGToPSD(rec.Samples[:split], rec.Valid[:split], rate, spectrum.WithNormalize(true))
	if err != nil {
		return SpectralInput{}, fmt.Errorf("first half: %w", err)
	}

	second, err := spectrum.EMGToPSD(rec.Samples[split:], rec.Valid[split:], rate, spectrum.WithNormalize(true))
	if err != nil {
		return SpectralInput{}, fmt.Errorf("second half: %w", err)
	}

	return SpectralInput{Full: full, FirstHalf: first, SecondHalf: second}, nil
}

// TimeFunc computes a time-domain descriptor, skipping invalid positions.
type TimeFunc func(samples []float64, valid []bool) (float64, error)

// FreqFunc computes a frequency-domain descriptor.
type FreqFunc func(in SpectralInput) (float64, error)

// Feature is one catalogue entry. Exactly the function matching its
// domain must be set.
type Feature struct {
	Name   string
	Domain Domain
	Time   TimeFunc
	Freq   FreqFunc
}

// Registry holds named descriptors in registration order.
type Registry struct {
	order  []string
	byName map[string]Feature
}

var errDuplicateFeature = errors.New("duplicate feature")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Feature)}
}

// Register adds one descriptor to the catalogue.
func (r *Registry) Register(f Feature) error {
	if f.Name == "" {
		return errors.New("empty feature name")
	}

	switch f.Domain {
	case DomainTime:
		if f.Time == nil {
			return fmt.Errorf("feature %s: nil time function", f.Name)
		}
	case DomainFrequency:
		if f.Freq == nil {
			return fmt.Errorf("feature %s: nil frequency function", f.Name)
		}
	default:
		return fmt.Errorf("feature %s: unknown domain %q", f.Name, f.Domain)
	}

	if _, exists := r.byName[f.Name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateFeature, f.Name)
	}

	r.byName[f.Name] = f
	r.order = append(r.order, f.Name)

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(f Feature) {
	err := r.Register(f)
	if err != nil {
		panic("feature registry: " + err.Error())
	}
}

// Lookup returns the descriptor registered under the given name.
func (r *Registry) Lookup(name string) (Feature, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Names returns the names of all descriptors of the given domain in
// registration order. The order is stable, so it doubles as the column
// order of feature tables.
func (r *Registry) Names(domain Domain) []string {
	names := make([]string, 0, len(r.order))
	for _, name := range r.order {
		if r.byName[name].Domain == domain {
			names = append(names, name)
		}
	}

	return names
}

// Len reports the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.order)
}
