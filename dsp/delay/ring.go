package delay

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-tapfx/dsp/core"
	"github.com/cwbudde/algo-tapfx/dsp/interp"
)

// ErrCapacity is returned when a ring buffer would be too small to hold
// a delay plus its interpolation neighbour.
var ErrCapacity = errors.New("delay: capacity must be >= 2")

// RingBuffer is a circular delay line with wrap-safe fractional reads.
type RingBuffer struct {
	buffer []float64
	cursor int
	mode   interp.Mode
}

// Option configures a RingBuffer.
type Option func(*RingBuffer)

// WithMode selects the fractional read kernel. Linear is the default.
func WithMode(mode interp.Mode) Option {
	return func(r *RingBuffer) {
		r.mode = mode
	}
}

// New returns a ring buffer holding capacity samples.
func New(capacity int, opts ...Option) (*RingBuffer, error) {
	if capacity < 2 {
		return nil, fmt.Errorf("%w: %d", ErrCapacity, capacity)
	}
	r := &RingBuffer{buffer: make([]float64, capacity), mode: interp.Linear}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// NewForDuration returns a ring buffer large enough for a delay of
// maxDelaySeconds at sampleRate, including the older interpolation neighbour.
func NewForDuration(maxDelaySeconds, sampleRate float64, opts ...Option) (*RingBuffer, error) {
	if !core.ValidSampleRate(sampleRate) {
		return nil, fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}
	if maxDelaySeconds <= 0 || math.IsNaN(maxDelaySeconds) || math.IsInf(maxDelaySeconds, 0) {
		return nil, fmt.Errorf("delay duration must be > 0: %f", maxDelaySeconds)
	}
	return New(CapacityFor(maxDelaySeconds, sampleRate), opts...)
}

// CapacityFor returns the ring capacity NewForDuration allocates.
func CapacityFor(maxDelaySeconds, sampleRate float64) int {
	return int(math.Ceil(maxDelaySeconds*sampleRate)) + 2
}

// Len returns the capacity in samples.
func (r *RingBuffer) Len() int {
	return len(r.buffer)
}

// Cursor returns the slot the next Write fills.
func (r *RingBuffer) Cursor() int {
	return r.cursor
}

// Mode returns the fractional read kernel.
func (r *RingBuffer) Mode() interp.Mode {
	return r.mode
}

// MaxDelay returns the largest fractional delay that reads distinct history.
func (r *RingBuffer) MaxDelay() float64 {
	return float64(len(r.buffer) - 2)
}

// Write stores sample at the cursor and advances it, wrapping at capacity.
func (r *RingBuffer) Write(sample float64) {
	r.buffer[r.cursor] = sample
	r.cursor++
	if r.cursor >= len(r.buffer) {
		r.cursor = 0
	}
}

// Read returns the sample delay steps behind the cursor. Delay 1 is the most
// recent write; delay 0 is the oldest slot, about to be overwritten.
func (r *RingBuffer) Read(delay int) float64 {
	return r.buffer[r.index(delay)]
}

// ReadInterpolated reads at a fractional delay. Between integer delays the
// result blends the two neighbouring samples, so a smoothly swept delay
// produces a smooth output. Negative delays read as 0.
func (r *RingBuffer) ReadInterpolated(delay float64) float64 {
	if delay < 0 {
		delay = 0
	}
	base := int(delay)
	frac := delay - float64(base)

	idx1 := r.index(base)
	idx2 := core.Wrap(idx1-1, len(r.buffer))

	if r.mode == interp.Hermite {
		x0, x1 := r.buffer[idx1], r.buffer[idx2]
		// Below delay 2 the newer neighbour would wrap to the oldest slot;
		// extend the x1->x0 slope instead.
		xm1 := 2*x0 - x1
		if base >= 2 {
			xm1 = r.buffer[r.index(base-1)]
		}
		x2 := r.buffer[r.index(base+2)]
		return interp.Hermite4(frac, xm1, x0, x1, x2)
	}
	return interp.Linear2(frac, r.buffer[idx1], r.buffer[idx2])
}

// Reset clears the stored history and rewinds the cursor.
func (r *RingBuffer) Reset() {
	core.Zero(r.buffer)
	r.cursor = 0
}

func (r *RingBuffer) index(delay int) int {
	size := len(r.buffer)
	return core.Wrap(r.cursor-delay%size, size)
}
