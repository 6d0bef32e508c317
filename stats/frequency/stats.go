// Package frequency derives spectral descriptors from a power spectral
// density. Band-ratio descriptors (the twitch family) split the spectrum
// at a caller-chosen frequency separating slow and fast muscle-fiber
// activity.
package frequency

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-emg/emg"
	"github.com/cwbudde/algo-emg/spectrum"
)

func checkPSD(op string, p spectrum.PSD, minBins int) error {
	if p.Len() < minBins {
		return &emg.InsufficientDataError{Op: op, Need: minBins, Have: p.Len()}
	}
	return nil
}

func checkSplit(op string, split float64) error {
	if split <= 0 || math.IsNaN(split) || math.IsInf(split, 0) {
		return emg.Parameterf(op, "split frequency", "must be > 0 and finite: %g", split)
	}
	return nil
}

// MDF returns the median frequency: the first bin at which the cumulative
// power reaches half the total.
func MDF(p spectrum.PSD) (float64, error) {
	if err := checkPSD("mdf", p, 2); err != nil {
		return 0, err
	}
	threshold := floats.Sum(p.Power) / 2
	cum := 0.0
	for i, pw := range p.Power {
		cum += pw
		if cum >= threshold {
			return p.Freqs[i], nil
		}
	}
	return p.Freqs[p.Len()-1], nil
}

// MNF returns the power-weighted mean frequency, 0 for an all-zero
// spectrum.
func MNF(p spectrum.PSD) (float64, error) {
	if err := checkPSD("mnf", p, 2); err != nil {
		return 0, err
	}
	total := floats.Sum(p.Power)
	if total == 0 {
		return 0, nil
	}
	weighted := 0.0
	for i, pw := range p.Power {
		weighted += p.Freqs[i] * pw
	}
	return weighted / total, nil
}

// TwitchRatio returns the power below the split frequency over the power
// at or above it. When no power lies at or above the split the ratio is
// +Inf, the documented sentinel for a fully slow-band spectrum.
func TwitchRatio(p spectrum.PSD, split float64) (float64, error) {
	if err := checkSplit("twitchratio", split); err != nil {
		return 0, err
	}
	if err := checkPSD("twitchratio", p, 2); err != nil {
		return 0, err
	}
	low, high := 0.0, 0.0
	for i, f := range p.Freqs {
		if f < split {
			low += p.Power[i]
		} else {
			high += p.Power[i]
		}
	}
	if high == 0 {
		return math.Inf(1), nil
	}
	return low / high, nil
}

// TwitchIndex returns the strongest power below the split frequency.
func TwitchIndex(p spectrum.PSD, split float64) (float64, error) {
	if err := checkSplit("twitchindex", split); err != nil {
		return 0, err
	}
	if err := checkPSD("twitchindex", p, 2); err != nil {
		return 0, err
	}
	maxv, have := 0.0, false
	for i, f := range p.Freqs {
		if f >= split {
			break
		}
		if !have || p.Power[i] > maxv {
			maxv, have = p.Power[i], true
		}
	}
	if !have {
		return 0, &emg.InsufficientDataError{Op: "twitchindex", Need: 1, Have: 0}
	}
	return maxv, nil
}

// TwitchSlopeFast returns the linear-regression slope of power against
// frequency at or above the split frequency.
func TwitchSlopeFast(p spectrum.PSD, split float64) (float64, error) {
	return twitchSlope("twitchslopefast", p, split, false)
}

// TwitchSlopeSlow returns the linear-regression slope of power against
// frequency below the split frequency.
func TwitchSlopeSlow(p spectrum.PSD, split float64) (float64, error) {
	return twitchSlope("twitchslopeslow", p, split, true)
}

func twitchSlope(op string, p spectrum.PSD, split float64, below bool) (float64, error) {
	if err := checkSplit(op, split); err != nil {
		return 0, err
	}
	if err := checkPSD(op, p, 2); err != nil {
		return 0, err
	}
	var xs, ys []float64
	for i, f := range p.Freqs {
		if (f < split) == below {
			xs = append(xs, f)
			ys = append(ys, p.Power[i])
		}
	}
	if len(xs) < 2 {
		return 0, &emg.InsufficientDataError{Op: op, Need: 2, Have: len(xs)}
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope, nil
}

// SC returns the magnitude-weighted spectral centroid in Hz.
func SC(p spectrum.PSD) (float64, error) {
	if err := checkPSD("sc", p, 2); err != nil {
		return 0, err
	}
	return centroid(p), nil
}

func centroid(p spectrum.PSD) float64 {
	sum, weighted := 0.0, 0.0
	for i, pw := range p.Power {
		m := math.Sqrt(pw)
		sum += m
		weighted += p.Freqs[i] * m
	}
	if sum == 0 {
		return 0
	}
	return weighted / sum
}

// SS returns the magnitude-weighted spectral spread about the centroid.
func SS(p spectrum.PSD) (float64, error) {
	if err := checkPSD("ss", p, 2); err != nil {
		return 0, err
	}
	return deviation(p, centroid(p), 2), nil
}

// SBandwidth returns the magnitude-weighted deviation about the centroid
// of the given order; order 2 coincides with SS.
func SBandwidth(p spectrum.PSD, order float64) (float64, error) {
	if order < 1 || math.IsNaN(order) || math.IsInf(order, 0) {
		return 0, emg.Parameterf("sbandwidth", "order", "must be >= 1 and finite: %g", order)
	}
	if err := checkPSD("sbandwidth", p, 2); err != nil {
		return 0, err
	}
	return deviation(p, centroid(p), order), nil
}

func deviation(p spectrum.PSD, center, order float64) float64 {
	sum, weighted := 0.0, 0.0
	for i, pw := range p.Power {
		m := math.Sqrt(pw)
		sum += m
		weighted += m * math.Pow(math.Abs(p.Freqs[i]-center), order)
	}
	if sum == 0 {
		return 0
	}
	return math.Pow(weighted/sum, 1/order)
}

// SFlatness returns the ratio of geometric to arithmetic mean power over
// the bins above DC, in 0..1. Any zero bin collapses the geometric mean,
// so the result is 0.
func SFlatness(p spectrum.PSD) (float64, error) {
	if err := checkPSD("sflatness", p, 2); err != nil {
		return 0, err
	}
	n := p.Len() - 1
	sumLin, sumLog := 0.0, 0.0
	hasZero := false
	for _, pw := range p.Power[1:] {
		sumLin += pw
		if pw > 0 {
			sumLog += math.Log(pw)
		} else {
			hasZero = true
		}
	}
	meanLin := sumLin / float64(n)
	if meanLin == 0 || hasZero {
		return 0, nil
	}
	return math.Exp(sumLog/float64(n)) / meanLin, nil
}

// SDecrease returns the average slope of power away from the first bin,
// each bin's difference discounted by its distance.
func SDecrease(p spectrum.PSD) (float64, error) {
	if err := checkPSD("sdecrease", p, 2); err != nil {
		return 0, err
	}
	ref := p.Power[0]
	num, den := 0.0, 0.0
	for k := 1; k < p.Len(); k++ {
		num += (p.Power[k] - ref) / float64(k)
		den += p.Power[k]
	}
	if den == 0 {
		return 0, nil
	}
	return num / den, nil
}

// SEntropy returns the Shannon entropy of the power distribution,
// normalised by the log of the bin count into 0..1.
func SEntropy(p spectrum.PSD) (float64, error) {
	if err := checkPSD("sentropy", p, 2); err != nil {
		return 0, err
	}
	total := floats.Sum(p.Power)
	if total == 0 {
		return 0, nil
	}
	h := 0.0
	for _, pw := range p.Power {
		if pw <= 0 {
			continue
		}
		q := pw / total
		h -= q * math.Log(q)
	}
	return h / math.Log(float64(p.Len())), nil
}

// SRolloff returns the frequency below which the given fraction of total
// power lies, 0 for an all-zero spectrum.
func SRolloff(p spectrum.PSD, percent float64) (float64, error) {
	if percent <= 0 || percent >= 1 || math.IsNaN(percent) {
		return 0, emg.Parameterf("srolloff", "percent", "must lie in (0, 1): %g", percent)
	}
	if err := checkPSD("srolloff", p, 2); err != nil {
		return 0, err
	}
	total := floats.Sum(p.Power)
	if total == 0 {
		return 0, nil
	}
	threshold := percent * total
	cum := 0.0
	for i, pw := range p.Power {
		cum += pw
		if cum >= threshold {
			return p.Freqs[i], nil
		}
	}
	return p.Freqs[p.Len()-1], nil
}

// SFlux returns the summed squared difference between two densities, each
// normalised by its strongest bin. Unequal grids are reconciled by
// resampling the coarser density onto the denser grid.
func SFlux(a, b spectrum.PSD) (float64, error) {
	if err := checkPSD("sflux", a, 2); err != nil {
		return 0, err
	}
	if err := checkPSD("sflux", b, 2); err != nil {
		return 0, err
	}

	if a.Len() < b.Len() {
		a, b = b, a
	}
	rb, err := b.Resample(a.Freqs)
	if err != nil {
		return 0, err
	}

	pa := normalized(a.Power)
	pb := normalized(rb.Power)
	sum := 0.0
	for i := range pa {
		d := pa[i] - pb[i]
		sum += d * d
	}
	return sum, nil
}

func normalized(power []float64) []float64 {
	out := append([]float64(nil), power...)
	if maxv := floats.Max(out); maxv > 0 {
		for i := range out {
			out[i] /= maxv
		}
	}
	return out
}
