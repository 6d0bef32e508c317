package biquad

import (
	"math"

	"github.com/cwbudde/algo-emg/emg"
)

// Notch designs a notch biquad centered at freq (Hz) using the RBJ cookbook
// formula. The center must lie strictly between 0 and the Nyquist frequency
// and q must be positive.
func Notch(freq, q, sampleRate float64) (Coefficients, error) {
	w0, err := normalizedW0("notch", freq, sampleRate)
	if err != nil {
		return Coefficients{}, err
	}
	if err := validateQ("notch", q); err != nil {
		return Coefficients{}, err
	}

	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := 1.0
	b1 := -2 * cw
	b2 := 1.0
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2), nil
}

// Lowpass designs a lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) (Coefficients, error) {
	w0, err := normalizedW0("lowpass", freq, sampleRate)
	if err != nil {
		return Coefficients{}, err
	}
	if err := validateQ("lowpass", q); err != nil {
		return Coefficients{}, err
	}

	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 - cw) / 2
	b1 := 1 - cw
	b2 := (1 - cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2), nil
}

// Highpass designs a highpass biquad at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) (Coefficients, error) {
	w0, err := normalizedW0("highpass", freq, sampleRate)
	if err != nil {
		return Coefficients{}, err
	}
	if err := validateQ("highpass", q); err != nil {
		return Coefficients{}, err
	}

	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 + cw) / 2
	b1 := -(1 + cw)
	b2 := (1 + cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2), nil
}

// ButterworthLP designs a lowpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0).
func ButterworthLP(freq float64, order int, sampleRate float64) ([]Coefficients, error) {
	if order <= 0 {
		return nil, emg.Parameterf("lowpass", "order", "must be > 0: %d", order)
	}
	sections := make([]Coefficients, 0, (order+1)/2)

	n2 := order / 2
	for i := n2 - 1; i >= 0; i-- {
		q := butterworthQ(order, i)
		c, err := Lowpass(freq, q, sampleRate)
		if err != nil {
			return nil, err
		}
		sections = append(sections, c)
	}
	if order%2 != 0 {
		c, err := firstOrderLP(freq, sampleRate)
		if err != nil {
			return nil, err
		}
		sections = append(sections, c)
	}
	return sections, nil
}

// ButterworthHP designs a highpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0).
func ButterworthHP(freq float64, order int, sampleRate float64) ([]Coefficients, error) {
	if order <= 0 {
		return nil, emg.Parameterf("highpass", "order", "must be > 0: %d", order)
	}
	sections := make([]Coefficients, 0, (order+1)/2)

	n2 := order / 2
	for i := n2 - 1; i >= 0; i-- {
		q := butterworthQ(order, i)
		c, err := Highpass(freq, q, sampleRate)
		if err != nil {
			return nil, err
		}
		sections = append(sections, c)
	}
	if order%2 != 0 {
		c, err := firstOrderHP(freq, sampleRate)
		if err != nil {
			return nil, err
		}
		sections = append(sections, c)
	}
	return sections, nil
}

// ButterworthBand designs a bandpass as a highpass cascade at low followed
// by a lowpass cascade at high, each of the given order.
func ButterworthBand(low, high float64, order int, sampleRate float64) ([]Coefficients, error) {
	if high <= low {
		return nil, emg.Parameterf("bandpass", "band", "requires low < high: (%g, %g)", low, high)
	}
	hp, err := ButterworthHP(low, order, sampleRate)
	if err != nil {
		return nil, err
	}
	lp, err := ButterworthLP(high, order, sampleRate)
	if err != nil {
		return nil, err
	}
	return append(hp, lp...), nil
}

// butterworthQ returns the quality factor for a Butterworth filter section.
// index ranges from 0 to (order/2 - 1) for the biquad sections.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2 // default Q
	}

	return 1 / (2 * s)
}

// firstOrderLP designs a first-order lowpass section for odd-order cascades.
func firstOrderLP(freq, sampleRate float64) (Coefficients, error) {
	if _, err := normalizedW0("lowpass", freq, sampleRate); err != nil {
		return Coefficients{}, err
	}

	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return Coefficients{
		B0: k * norm,
		B1: k * norm,
		B2: 0,
		A1: (k - 1) * norm,
		A2: 0,
	}, nil
}

// firstOrderHP designs a first-order highpass section for odd-order cascades.
func firstOrderHP(freq, sampleRate float64) (Coefficients, error) {
	if _, err := normalizedW0("highpass", freq, sampleRate); err != nil {
		return Coefficients{}, err
	}

	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return Coefficients{
		B0: norm,
		B1: -norm,
		B2: 0,
		A1: (k - 1) * norm,
		A2: 0,
	}, nil
}

func normalizedW0(op string, freq, sampleRate float64) (float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, emg.Parameterf(op, "sampling rate", "must be > 0: %g", sampleRate)
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, emg.Parameterf(op, "frequency", "must be in (0, %g): %g", nyquist, freq)
	}

	return 2 * math.Pi * freq / sampleRate, nil
}

func validateQ(op string, q float64) error {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return emg.Parameterf(op, "q", "must be > 0: %g", q)
	}
	return nil
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Coefficients{}
	}

	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
