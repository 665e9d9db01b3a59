//go:build fastmath

package tap

import "github.com/meko-christian/algo-approx"

// mathSqrt computes sqrt(x) using fast approximation. Pan laws are evaluated
// on parameter changes, where the small error is inaudible.
func mathSqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return approx.FastSqrt(x)
}
