package interp

import "fmt"

// Mode selects a fractional interpolation kernel.
type Mode int

const (
	// Linear weights the two samples around the read position.
	Linear Mode = iota
	// Hermite fits a cubic through four neighbouring samples.
	Hermite
)

// String returns the config-file spelling of the mode.
func (m Mode) String() string {
	switch m {
	case Linear:
		return "linear"
	case Hermite:
		return "hermite"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a config-file name to a Mode. The empty string means Linear.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "linear":
		return Linear, nil
	case "hermite":
		return Hermite, nil
	default:
		return Linear, fmt.Errorf("interp: unknown mode %q", name)
	}
}

// Linear2 blends the newer sample x0 with the older sample x1.
// frac = 0 returns x0, frac = 1 returns x1.
func Linear2(frac, x0, x1 float64) float64 {
	return frac*x1 + (1-frac)*x0
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}
