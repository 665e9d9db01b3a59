package mix

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tapfx/dsp/core"
	"github.com/cwbudde/algo-tapfx/dsp/tap"
	"github.com/cwbudde/algo-vecmath"
)

// Mixer blends dry and wet signals:
//
//	left  = wetL*WetLevel + dry*DryLevel*DryPan.Left
//	right = wetR*WetLevel + dry*DryLevel*DryPan.Right
//
// With Bypass set the wet terms are dropped. Fields are owned by the
// processing goroutine.
type Mixer struct {
	DryLevel float64
	WetLevel float64
	DryPan   tap.Pan
	Bypass   bool

	scratch []float64
}

// New returns a mixer with the given levels and the dry signal on both
// channels.
func New(dryLevel, wetLevel float64) (*Mixer, error) {
	if !finite(dryLevel) {
		return nil, fmt.Errorf("mix dry level must be finite: %f", dryLevel)
	}
	if !finite(wetLevel) {
		return nil, fmt.Errorf("mix wet level must be finite: %f", wetLevel)
	}
	return &Mixer{
		DryLevel: dryLevel,
		WetLevel: wetLevel,
		DryPan:   tap.Center,
	}, nil
}

// Prepare sizes the internal scratch buffer for blocks of up to n samples so
// MixBlock does not allocate.
func (m *Mixer) Prepare(n int) {
	m.scratch = core.EnsureLen(m.scratch, n)
}

// Mix returns the stereo output for one sample.
func (m *Mixer) Mix(dry, wetL, wetR float64) (left, right float64) {
	d := dry * m.DryLevel
	left = d * m.DryPan.Left
	right = d * m.DryPan.Right
	if m.Bypass {
		return left, right
	}
	return wetL*m.WetLevel + left, wetR*m.WetLevel + right
}

// MixBlock applies Mix to whole blocks. All slices must share the length of
// dry. dstL and dstR may alias wetL and wetR.
func (m *Mixer) MixBlock(dstL, dstR, dry, wetL, wetR []float64) {
	n := len(dry)
	if len(dstL) < n || len(dstR) < n || len(wetL) < n || len(wetR) < n {
		panic("mix: block length mismatch")
	}
	if len(m.scratch) < n {
		m.Prepare(n)
	}
	scratch := m.scratch[:n]

	m.mixChannel(dstL[:n], wetL[:n], dry, scratch, m.DryPan.Left)
	m.mixChannel(dstR[:n], wetR[:n], dry, scratch, m.DryPan.Right)
}

func (m *Mixer) mixChannel(dst, wet, dry, scratch []float64, pan float64) {
	if m.Bypass {
		vecmath.ScaleBlock(dst, dry, m.DryLevel*pan)
		return
	}
	vecmath.ScaleBlock(dst, wet, m.WetLevel)
	vecmath.ScaleBlock(scratch, dry, m.DryLevel*pan)
	vecmath.AddBlockInPlace(dst, scratch)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
