package tap

import "github.com/cwbudde/algo-tapfx/dsp/core"

// Pan holds per-channel weights for a mono tap output.
type Pan struct {
	Left  float64
	Right float64
}

// Common pan settings.
var (
	Center    = Pan{Left: 1, Right: 1}
	HardLeft  = Pan{Left: 1, Right: 0}
	HardRight = Pan{Left: 0, Right: 1}
)

// PanAt returns equal-power weights for a position in [-1, 1], where -1 is
// hard left and 1 is hard right. Out-of-range positions are clamped.
func PanAt(position float64) Pan {
	p := core.Clamp(position, -1, 1)
	return Pan{
		Left:  mathSqrt((1 - p) / 2),
		Right: mathSqrt((1 + p) / 2),
	}
}
