package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Constant generates a constant-valued signal.
func Constant(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// SyntheticEMG generates a deterministic surrogate recording: a slow tremor
// component, mains interference, and seeded broadband noise.
func SyntheticEMG(seed int64, sampleRate float64, length int) []float64 {
	tremor := DeterministicSine(10, sampleRate, 1.0, length)
	hum := DeterministicSine(60, sampleRate, 0.5, length)
	noise := DeterministicNoise(seed, 0.1, length)

	out := make([]float64, length)
	for i := range out {
		out[i] = tremor[i] + hum[i] + noise[i]
	}
	return out
}

// AllValid returns a mask of length n with every position usable.
func AllValid(n int) []bool {
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask
}

// MaskWithGap returns an all-valid mask of length n with positions
// [start, start+gap) cleared.
func MaskWithGap(n, start, gap int) []bool {
	mask := AllValid(n)
	for i := start; i < start+gap && i < n; i++ {
		mask[i] = false
	}
	return mask
}

// CountTrue returns the number of set positions in a mask.
func CountTrue(mask []bool) int {
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return n
}
