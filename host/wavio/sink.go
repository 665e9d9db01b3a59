package wavio

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

const (
	bitDepth    = 16
	pcmFormat   = 1
	sinkChannel = 2
	fullScale   = 32767
)

// Sink encodes stereo blocks as 16-bit PCM. Samples outside [-1, 1] are
// clipped.
type Sink struct {
	enc    *wav.Encoder
	closer io.Closer
	buf    *audio.IntBuffer
	frames int
}

// Create opens path on fs for writing.
func Create(fs afero.Fs, path string, sampleRate int) (*Sink, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wavio: sample rate must be > 0: %d", sampleRate)
	}
	f, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: create %s: %w", path, err)
	}
	s := NewSink(f, sampleRate)
	s.closer = f
	return s, nil
}

// NewSink writes to w. Close finalises the header but does not close w.
func NewSink(w io.WriteSeeker, sampleRate int) *Sink {
	return &Sink{
		enc: wav.NewEncoder(w, sampleRate, bitDepth, sinkChannel, pcmFormat),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: sinkChannel,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: bitDepth,
		},
	}
}

// Frames returns the number of frames written.
func (s *Sink) Frames() int { return s.frames }

// WriteBlock implements engine.Sink.
func (s *Sink) WriteBlock(left, right []float64) error {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	if cap(s.buf.Data) < 2*n {
		s.buf.Data = make([]int, 2*n)
	}
	s.buf.Data = s.buf.Data[:2*n]
	for i := 0; i < n; i++ {
		s.buf.Data[2*i] = toPCM(left[i])
		s.buf.Data[2*i+1] = toPCM(right[i])
	}
	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("wavio: write: %w", err)
	}
	s.frames += n
	return nil
}

// Close writes the final header and closes the file opened by Create.
func (s *Sink) Close() error {
	err := s.enc.Close()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("wavio: close: %w", err)
	}
	return nil
}

func toPCM(x float64) int {
	switch {
	case math.IsNaN(x):
		return 0
	case x > 1:
		x = 1
	case x < -1:
		x = -1
	}
	return int(math.Round(x * fullScale))
}
