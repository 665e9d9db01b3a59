package playback

import (
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrClosed is returned by WriteBlock after Close.
var ErrClosed = errors.New("playback: sink closed")

const bytesPerFrame = 8 // two float32 samples

// Options configures a Sink.
type Options struct {
	SampleRate int
	// Latency is the ring capacity as a duration. The device buffer adds to
	// it.
	Latency time.Duration
}

// Option mutates Options.
type Option func(*Options)

// WithLatency sets the ring capacity.
func WithLatency(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.Latency = d
		}
	}
}

func applyOptions(sampleRate int, opts []Option) Options {
	o := Options{SampleRate: sampleRate, Latency: 100 * time.Millisecond}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o Options) ringFrames() int {
	return int(math.Ceil(o.Latency.Seconds() * float64(o.SampleRate)))
}

// output is the device side of a Sink.
type output interface {
	Close() error
}

// Sink is an engine.Sink that feeds an audio device.
type Sink struct {
	opts   Options
	ring   *frameRing
	out    output
	closed atomic.Bool

	mu      sync.Mutex // guards scratch for Read
	scratch []float32

	underruns atomic.Uint64
	poll      time.Duration
}

func newSink(opts Options) *Sink {
	poll := opts.Latency / 4
	if poll < time.Millisecond {
		poll = time.Millisecond
	}
	return &Sink{
		opts: opts,
		ring: newFrameRing(opts.ringFrames()),
		poll: poll,
	}
}

// SampleRate returns the device rate in Hz.
func (s *Sink) SampleRate() int { return s.opts.SampleRate }

// Underruns returns how many Read calls ran out of frames.
func (s *Sink) Underruns() uint64 { return s.underruns.Load() }

// Buffered returns the number of frames queued for the device.
func (s *Sink) Buffered() int { return s.ring.Buffered() }

// WriteBlock queues a block, waiting while the ring is full.
func (s *Sink) WriteBlock(left, right []float64) error {
	for len(left) > 0 && len(right) > 0 {
		if s.closed.Load() {
			return ErrClosed
		}
		n := s.ring.push(left, right)
		left, right = left[n:], right[n:]
		if n == 0 {
			time.Sleep(s.poll)
		}
	}
	return nil
}

// Drain waits until the device has consumed every queued frame or the sink
// is closed.
func (s *Sink) Drain() {
	for s.ring.Buffered() > 0 && !s.closed.Load() {
		time.Sleep(s.poll)
	}
}

// Read implements io.Reader for the device as little-endian float32 stereo.
// It always fills p.
func (s *Sink) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frames := len(p) / bytesPerFrame
	if cap(s.scratch) < 2*frames {
		s.scratch = make([]float32, 2*frames)
	}
	buf := s.scratch[:2*frames]

	got := s.ring.pop(buf)
	if got < frames && !s.closed.Load() {
		s.underruns.Add(1)
	}
	for i := 2 * got; i < len(buf); i++ {
		buf[i] = 0
	}
	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}
	for i := 2 * 4 * frames; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

// Close stops the device. Pending frames are dropped; call Drain first to
// hear them.
func (s *Sink) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	logrus.WithFields(logrus.Fields{
		"function":  "Close",
		"underruns": s.underruns.Load(),
	}).Debug("Closing playback sink")
	if s.out != nil {
		return s.out.Close()
	}
	return nil
}
