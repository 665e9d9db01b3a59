package testutil

import (
	"math/rand"
)

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// EchoTrain returns the impulse response of an ideal feedback delay: count
// echoes every spacing samples starting at first, each ratio times the
// previous one. Echoes past length are dropped.
func EchoTrain(length, first, spacing, count int, ratio float64) []float64 {
	out := make([]float64, length)
	amp := 1.0
	for m, pos := 0, first; m < count && pos < length && spacing > 0; m, pos = m+1, pos+spacing {
		out[pos] = amp
		amp *= ratio
	}
	return out
}
