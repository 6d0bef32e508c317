// Package time derives amplitude-domain descriptors from one channel,
// honouring its validity mask. Every function is pure: it reads the
// samples whose mask bit is set, in order, and ignores the rest, so gaps
// never contribute to a descriptor. Difference-based descriptors (WL, MFL)
// difference consecutive usable samples even when a gap lies between them.
package time

import (
	"math"

	"github.com/cwbudde/algo-emg/emg"
)

// checkInput validates the mask shape and counts usable samples.
func checkInput(op string, samples []float64, valid []bool, minValid int) (int, error) {
	if len(samples) != len(valid) {
		return 0, emg.Parameterf(op, "mask", "length %d does not match %d samples", len(valid), len(samples))
	}
	n := 0
	for _, v := range valid {
		if v {
			n++
		}
	}
	if n < minValid {
		return 0, &emg.InsufficientDataError{Op: op, Need: minValid, Have: n}
	}
	return n, nil
}

// Min returns the smallest usable sample.
func Min(samples []float64, valid []bool) (float64, error) {
	if _, err := checkInput("min", samples, valid, 1); err != nil {
		return 0, err
	}
	out := math.Inf(1)
	for i, x := range samples {
		if valid[i] && x < out {
			out = x
		}
	}
	return out, nil
}

// Max returns the largest usable sample.
func Max(samples []float64, valid []bool) (float64, error) {
	if _, err := checkInput("max", samples, valid, 1); err != nil {
		return 0, err
	}
	out := math.Inf(-1)
	for i, x := range samples {
		if valid[i] && x > out {
			out = x
		}
	}
	return out, nil
}

// Mean returns the arithmetic mean of the usable samples. Kahan summation
// keeps long recordings from accumulating rounding error.
func Mean(samples []float64, valid []bool) (float64, error) {
	n, err := checkInput("mean", samples, valid, 1)
	if err != nil {
		return 0, err
	}
	var sum, c float64
	for i, x := range samples {
		if !valid[i] {
			continue
		}
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return sum / float64(n), nil
}

// moments runs Welford's online algorithm over the usable samples. The M4
// accumulator must be updated before M3, and M3 before M2.
func moments(samples []float64, valid []bool) (mean, m2, m3, m4 float64, n int) {
	for i, x := range samples {
		if !valid[i] {
			continue
		}
		n++
		ni := float64(n)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(n-1)

		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(n-1)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN
	}
	return mean, m2, m3, m4, n
}

// StdDev returns the population standard deviation of the usable samples.
func StdDev(samples []float64, valid []bool) (float64, error) {
	if _, err := checkInput("stddev", samples, valid, 2); err != nil {
		return 0, err
	}
	_, m2, _, _, n := moments(samples, valid)
	return math.Sqrt(m2 / float64(n)), nil
}

// Skewness returns the population skewness of the usable samples, 0 when
// the variance vanishes.
func Skewness(samples []float64, valid []bool) (float64, error) {
	if _, err := checkInput("skewness", samples, valid, 2); err != nil {
		return 0, err
	}
	_, m2, m3, _, n := moments(samples, valid)
	variance := m2 / float64(n)
	if variance <= 0 {
		return 0, nil
	}
	return (m3 / float64(n)) / (variance * math.Sqrt(variance)), nil
}

// Kurtosis returns the population excess kurtosis of the usable samples,
// 0 when the variance vanishes.
func Kurtosis(samples []float64, valid []bool) (float64, error) {
	if _, err := checkInput("kurtosis", samples, valid, 2); err != nil {
		return 0, err
	}
	_, m2, _, m4, n := moments(samples, valid)
	variance := m2 / float64(n)
	if variance <= 0 {
		return 0, nil
	}
	return (m4/float64(n))/(variance*variance) - 3, nil
}

// IEMG returns the integrated absolute amplitude, sum |x|.
func IEMG(samples []float64, valid []bool) (float64, error) {
	if _, err := checkInput("iemg", samples, valid, 1); err != nil {
		return 0, err
	}
	sum := 0.0
	for i, x := range samples {
		if valid[i] {
			sum += math.Abs(x)
		}
	}
	return sum, nil
}

// MAV returns the mean absolute value.
func MAV(samples []float64, valid []bool) (float64, error) {
	n, err := checkInput("mav", samples, valid, 1)
	if err != nil {
		return 0, err
	}
	sum, _ := IEMG(samples, valid)
	return sum / float64(n), nil
}

// MMAV1 returns the modified mean absolute value with weight 1 over the
// middle half of the usable sequence and 0.5 elsewhere.
func MMAV1(samples []float64, valid []bool) (float64, error) {
	n, err := checkInput("mmav1", samples, valid, 1)
	if err != nil {
		return 0, err
	}
	nf := float64(n)
	sum := 0.0
	j := 0
	for i, x := range samples {
		if !valid[i] {
			continue
		}
		j++
		w := 0.5
		if pos := float64(j); pos >= 0.25*nf && pos <= 0.75*nf {
			w = 1
		}
		sum += w * math.Abs(x)
	}
	return sum / nf, nil
}

// MMAV2 returns the modified mean absolute value with weight 1 over the
// middle half of the usable sequence and a linear ramp towards the ends.
func MMAV2(samples []float64, valid []bool) (float64, error) {
	n, err := checkInput("mmav2", samples, valid, 1)
	if err != nil {
		return 0, err
	}
	nf := float64(n)
	sum := 0.0
	j := 0
	for i, x := range samples {
		if !valid[i] {
			continue
		}
		j++
		pos := float64(j)
		var w float64
		switch {
		case pos < 0.25*nf:
			w = 4 * pos / nf
		case pos > 0.75*nf:
			w = 4 * (nf - pos) / nf
		default:
			w = 1
		}
		sum += w * math.Abs(x)
	}
	return sum / nf, nil
}

// SSI returns the simple square integral, sum x^2.
func SSI(samples []float64, valid []bool) (float64, error) {
	if _, err := checkInput("ssi", samples, valid, 1); err != nil {
		return 0, err
	}
	sum := 0.0
	for i, x := range samples {
		if valid[i] {
			sum += x * x
		}
	}
	return sum, nil
}

// VAR returns the zero-mean variance estimate sum x^2 / (n-1) conventional
// for EMG amplitude analysis.
func VAR(samples []float64, valid []bool) (float64, error) {
	n, err := checkInput("var", samples, valid, 2)
	if err != nil {
		return 0, err
	}
	sum, _ := SSI(samples, valid)
	return sum / float64(n-1), nil
}

// VOrder returns (mean |x|^v)^(1/v). Order 2 coincides with RMS.
func VOrder(samples []float64, valid []bool, order float64) (float64, error) {
	if order < 1 || math.IsNaN(order) || math.IsInf(order, 0) {
		return 0, emg.Parameterf("vorder", "order", "must be >= 1 and finite: %g", order)
	}
	n, err := checkInput("vorder", samples, valid, 1)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for i, x := range samples {
		if valid[i] {
			sum += math.Pow(math.Abs(x), order)
		}
	}
	return math.Pow(sum/float64(n), 1/order), nil
}

// RMS returns the root mean square of the usable samples.
func RMS(samples []float64, valid []bool) (float64, error) {
	n, err := checkInput("rms", samples, valid, 1)
	if err != nil {
		return 0, err
	}
	sum, _ := SSI(samples, valid)
	return math.Sqrt(sum / float64(n)), nil
}

// WL returns the waveform length, sum |dx| over consecutive usable samples.
func WL(samples []float64, valid []bool) (float64, error) {
	if _, err := checkInput("wl", samples, valid, 2); err != nil {
		return 0, err
	}
	sum := 0.0
	prev, have := 0.0, false
	for i, x := range samples {
		if !valid[i] {
			continue
		}
		if have {
			sum += math.Abs(x - prev)
		}
		prev, have = x, true
	}
	return sum, nil
}

// LOG returns the geometric amplitude exp(mean ln |x|). Any zero-valued
// usable sample drives the result to 0.
func LOG(samples []float64, valid []bool) (float64, error) {
	n, err := checkInput("log", samples, valid, 1)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for i, x := range samples {
		if valid[i] {
			sum += math.Log(math.Abs(x))
		}
	}
	return math.Exp(sum / float64(n)), nil
}

// MFL returns the maximum fractal length, log10 sqrt(sum dx^2) over
// consecutive usable samples. A perfectly flat channel yields -Inf.
func MFL(samples []float64, valid []bool) (float64, error) {
	if _, err := checkInput("mfl", samples, valid, 2); err != nil {
		return 0, err
	}
	sum := 0.0
	prev, have := 0.0, false
	for i, x := range samples {
		if !valid[i] {
			continue
		}
		if have {
			d := x - prev
			sum += d * d
		}
		prev, have = x, true
	}
	return math.Log10(math.Sqrt(sum)), nil
}

// AP returns the average power, mean x^2.
func AP(samples []float64, valid []bool) (float64, error) {
	n, err := checkInput("ap", samples, valid, 1)
	if err != nil {
		return 0, err
	}
	sum, _ := SSI(samples, valid)
	return sum / float64(n), nil
}
