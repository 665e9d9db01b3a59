package tap

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-tapfx/dsp/core"
	"github.com/cwbudde/algo-tapfx/dsp/delay"
	"github.com/cwbudde/algo-tapfx/dsp/osc"
)

// Errors returned by tap constructors.
var (
	ErrNilBuffer            = errors.New("tap: ring buffer is nil")
	ErrDelayExceedsCapacity = errors.New("tap: delay exceeds ring buffer capacity")
	ErrNoVoices             = errors.New("tap: network needs at least one voice")
)

// WriteMode selects what a tap stores in its ring buffer each step.
type WriteMode int

const (
	// WriteInput stores the raw input: a pure delay.
	WriteInput WriteMode = iota
	// WriteFeedback stores input + Feedback*output: decaying echoes.
	WriteFeedback
)

// BypassMode selects what a disabled tap returns.
type BypassMode int

const (
	// BypassDry returns the instantaneous input.
	BypassDry BypassMode = iota
	// BypassAligned returns the input delayed by the tap's current delay,
	// read from the shadow buffer, so toggling the tap keeps playback aligned.
	BypassAligned
)

// Tap is a single delay line configuration bound to a ring buffer. Its
// exported fields are owned by the processing goroutine; update them between
// processing steps only.
type Tap struct {
	// BaseDelay is the minimum delay in samples.
	BaseDelay float64
	// Depth is the extra sweep range in samples. The delay moves through
	// [BaseDelay, BaseDelay+Depth].
	Depth float64
	// Rate is the sweep frequency in Hz.
	Rate float64
	// Feedback scales the output that is added to the written value. Values
	// >= 1 are accepted and grow without bound.
	Feedback float64
	// Pan splits the output between the left and right mix buses.
	Pan Pan
	// Volume scales the output on the mix buses.
	Volume float64
	// Enabled false bypasses the tap but still advances its buffers.
	Enabled bool
	// Mode selects the value written to the buffer.
	Mode WriteMode
	// Bypass selects the output while the tap is disabled.
	Bypass BypassMode
	// Dry and Wet set the tap output as Dry*input + Wet*delayed.
	Dry float64
	Wet float64

	buf    *delay.RingBuffer
	shadow *delay.RingBuffer
	lfo    *osc.Table
}

// Option mutates a tap during construction.
type Option func(*Tap) error

// WithDelay sets the base delay in samples.
func WithDelay(samples float64) Option {
	return func(t *Tap) error {
		if samples < 0 || math.IsNaN(samples) || math.IsInf(samples, 0) {
			return fmt.Errorf("tap delay must be >= 0 and finite: %f", samples)
		}
		t.BaseDelay = samples
		return nil
	}
}

// WithModulation sweeps the delay by depth samples at rateHz using lfo.
func WithModulation(lfo *osc.Table, depth, rateHz float64) Option {
	return func(t *Tap) error {
		if lfo == nil {
			return errors.New("tap modulation needs an oscillator table")
		}
		if depth < 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
			return fmt.Errorf("tap depth must be >= 0 and finite: %f", depth)
		}
		if math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("tap rate must be finite: %f", rateHz)
		}
		t.lfo = lfo
		t.Depth = depth
		t.Rate = rateHz
		return nil
	}
}

// WithFeedback sets the feedback coefficient and switches the tap to
// WriteFeedback.
func WithFeedback(k float64) Option {
	return func(t *Tap) error {
		if math.IsNaN(k) || math.IsInf(k, 0) {
			return fmt.Errorf("tap feedback must be finite: %f", k)
		}
		t.Feedback = k
		t.Mode = WriteFeedback
		return nil
	}
}

// WithWriteMode overrides the write mode.
func WithWriteMode(mode WriteMode) Option {
	return func(t *Tap) error {
		t.Mode = mode
		return nil
	}
}

// WithPan sets the left and right weights.
func WithPan(p Pan) Option {
	return func(t *Tap) error {
		t.Pan = p
		return nil
	}
}

// WithVolume sets the output volume scalar.
func WithVolume(v float64) Option {
	return func(t *Tap) error {
		t.Volume = v
		return nil
	}
}

// WithStageMix sets the in-tap dry and wet gains.
func WithStageMix(dry, wet float64) Option {
	return func(t *Tap) error {
		t.Dry = dry
		t.Wet = wet
		return nil
	}
}

// WithShadow attaches a second buffer that always receives the raw input and
// enables BypassAligned.
func WithShadow(shadow *delay.RingBuffer) Option {
	return func(t *Tap) error {
		if shadow == nil {
			return ErrNilBuffer
		}
		t.shadow = shadow
		t.Bypass = BypassAligned
		return nil
	}
}

// WithBypass selects what the tap returns while disabled.
func WithBypass(mode BypassMode) Option {
	return func(t *Tap) error {
		t.Bypass = mode
		return nil
	}
}

// WithEnabled sets the initial enable flag.
func WithEnabled(on bool) Option {
	return func(t *Tap) error {
		t.Enabled = on
		return nil
	}
}

// New creates an enabled, unity-volume tap reading buf. Without options it is
// a pure delay of zero samples panned to both channels.
func New(buf *delay.RingBuffer, opts ...Option) (*Tap, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}
	t := &Tap{
		Pan:     Center,
		Volume:  1,
		Enabled: true,
		Wet:     1,
		buf:     buf,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	if err := t.checkCapacity(t.BaseDelay, t.Depth); err != nil {
		return nil, err
	}
	return t, nil
}

// Buffer returns the ring buffer the tap reads and writes.
func (t *Tap) Buffer() *delay.RingBuffer { return t.buf }

// Shadow returns the aligned-bypass buffer, or nil.
func (t *Tap) Shadow() *delay.RingBuffer { return t.shadow }

// Modulated reports whether the delay sweeps over time.
func (t *Tap) Modulated() bool {
	return t.lfo != nil && t.Depth > 0
}

// MaxDelay returns the largest BaseDelay+Depth the tap's buffers can serve.
func (t *Tap) MaxDelay() float64 {
	limit := t.buf.MaxDelay()
	if t.shadow != nil && t.shadow.MaxDelay() < limit {
		limit = t.shadow.MaxDelay()
	}
	return limit
}

// SetDelay updates base delay and depth in samples. The pair is clamped so
// the swept delay stays inside the buffers; the returned values are the ones
// applied.
func (t *Tap) SetDelay(base, depth float64) (float64, float64) {
	limit := t.MaxDelay()
	if !(base >= 0) {
		base = 0
	}
	if !(depth >= 0) {
		depth = 0
	}
	if base > limit {
		base = limit
	}
	if base+depth > limit {
		depth = limit - base
	}
	t.BaseDelay = base
	t.Depth = depth
	return base, depth
}

// ComputeDelay returns the integer delay and the interpolation weight for
// sample index n. Fixed taps always return a zero weight.
func (t *Tap) ComputeDelay(n uint64) (int, float64) {
	total := t.delayAt(n)
	whole := int(total)
	return whole, total - float64(whole)
}

// Process runs one sample step. It returns the tap output and the value that
// a feedback tap writes back. The buffer cursor advances whether or not the
// tap is enabled.
func (t *Tap) Process(input float64, n uint64) (out, write float64) {
	total := t.delayAt(n)

	if !t.Enabled {
		out = input
		if t.Bypass == BypassAligned && t.shadow != nil {
			out = t.shadow.ReadInterpolated(total)
		}
		t.buf.Write(input)
		if t.shadow != nil {
			t.shadow.Write(input)
		}
		return out, input
	}

	delayed := t.buf.ReadInterpolated(total)
	write = core.FlushDenormals(input + t.Feedback*delayed)
	if t.Mode == WriteFeedback {
		t.buf.Write(write)
	} else {
		t.buf.Write(input)
	}
	if t.shadow != nil {
		t.shadow.Write(input)
	}
	return t.Dry*input + t.Wet*delayed, write
}

// Step runs Process and returns only the output, making Tap a Voice.
func (t *Tap) Step(input float64, n uint64) float64 {
	out, _ := t.Process(input, n)
	return out
}

// Gains returns the pan-weighted volume, or zero when the tap is disabled.
func (t *Tap) Gains() (left, right float64) {
	if !t.Enabled {
		return 0, 0
	}
	return t.Pan.Left * t.Volume, t.Pan.Right * t.Volume
}

// Reset clears the tap's buffers.
func (t *Tap) Reset() {
	t.buf.Reset()
	if t.shadow != nil {
		t.shadow.Reset()
	}
}

func (t *Tap) delayAt(n uint64) float64 {
	if !t.Modulated() {
		return math.Floor(t.BaseDelay)
	}
	return t.BaseDelay + t.Depth/2*(1+t.lfo.ValueAt(n, t.Rate))
}

func (t *Tap) checkCapacity(base, depth float64) error {
	if limit := t.MaxDelay(); base+depth > limit {
		return fmt.Errorf("%w: %.2f samples > %.0f", ErrDelayExceedsCapacity, base+depth, limit)
	}
	return nil
}
