package params

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-tapfx/dsp/core"
)

// Spec describes one parameter. Step 0 means continuous.
type Spec struct {
	Name    string
	Min     float64
	Max     float64
	Step    float64
	Default float64
	Unit    string
}

// Validate reports whether the spec is usable.
func (s Spec) Validate() error {
	if s.Name == "" {
		return errors.New("params: empty parameter name")
	}
	for _, v := range []float64{s.Min, s.Max, s.Step, s.Default} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("params: %s: bounds must be finite", s.Name)
		}
	}
	if s.Min > s.Max {
		return fmt.Errorf("params: %s: min %g > max %g", s.Name, s.Min, s.Max)
	}
	if s.Step < 0 {
		return fmt.Errorf("params: %s: step must be >= 0: %g", s.Name, s.Step)
	}
	return nil
}

// Normalize clamps v into [Min, Max] and snaps it to the step grid that
// starts at Min.
func (s Spec) Normalize(v float64) float64 {
	v = core.Clamp(v, s.Min, s.Max)
	if s.Step > 0 {
		v = core.Clamp(core.Quantize(v, s.Min, s.Step), s.Min, s.Max)
	}
	return v
}

// Param is a lock-free parameter value.
type Param struct {
	spec Spec
	bits atomic.Uint64
}

func newParam(spec Spec) *Param {
	p := &Param{spec: spec}
	p.bits.Store(math.Float64bits(spec.Normalize(spec.Default)))
	return p
}

// Spec returns the parameter description.
func (p *Param) Spec() Spec { return p.spec }

// Name returns the parameter name.
func (p *Param) Name() string { return p.spec.Name }

// Set stores v after clamping and quantizing, and returns the stored value.
// NaN is ignored.
func (p *Param) Set(v float64) float64 {
	if math.IsNaN(v) {
		return p.Load()
	}
	v = p.spec.Normalize(v)
	p.bits.Store(math.Float64bits(v))
	return v
}

// Load returns the current value.
func (p *Param) Load() float64 {
	return math.Float64frombits(p.bits.Load())
}

// On reports whether a toggle parameter is set.
func (p *Param) On() bool {
	return p.Load() >= 0.5
}

// Reset restores the default.
func (p *Param) Reset() {
	p.Set(p.spec.Default)
}
