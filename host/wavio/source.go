package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ErrInvalidFile is returned for input that is not a PCM WAV file.
var ErrInvalidFile = errors.New("wavio: not a valid WAV file")

// Source serves a decoded WAV file as mono blocks. With Loop set it wraps to
// the start instead of returning io.EOF.
type Source struct {
	Loop bool

	samples    []float64
	sampleRate int
	channels   int
	pos        int
}

// Open decodes path from fs.
func Open(fs afero.Fs, path string) (*Source, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	src, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logrus.WithFields(logrus.Fields{
		"function":    "Open",
		"path":        path,
		"sample_rate": src.sampleRate,
		"channels":    src.channels,
		"frames":      len(src.samples),
	}).Debug("Decoded WAV input")
	return src, nil
}

// Decode reads a complete WAV stream.
func Decode(r io.ReadSeeker) (*Source, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: decode: %w", err)
	}

	channels := buf.Format.NumChannels
	bitDepth := buf.SourceBitDepth
	if channels <= 0 || bitDepth <= 0 {
		return nil, fmt.Errorf("%w: %d channels, %d bits", ErrInvalidFile, channels, bitDepth)
	}

	scale := 1 / (math.Pow(2, float64(bitDepth-1)) - 1)
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := range samples {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += buf.Data[i*channels+c]
		}
		samples[i] = float64(sum) * scale / float64(channels)
	}

	return &Source{
		samples:    samples,
		sampleRate: buf.Format.SampleRate,
		channels:   channels,
	}, nil
}

// SampleRate returns the file's sample rate in Hz.
func (s *Source) SampleRate() int { return s.sampleRate }

// Channels returns the channel count of the file.
func (s *Source) Channels() int { return s.channels }

// Len returns the number of frames.
func (s *Source) Len() int { return len(s.samples) }

// Samples returns the decoded mono signal.
func (s *Source) Samples() []float64 { return s.samples }

// Rewind restarts playback from the first frame.
func (s *Source) Rewind() { s.pos = 0 }

// ReadBlock fills dst with the next frames.
func (s *Source) ReadBlock(dst []float64) (int, error) {
	if len(s.samples) == 0 {
		return 0, io.EOF
	}

	n := 0
	for n < len(dst) {
		if s.pos >= len(s.samples) {
			if !s.Loop {
				break
			}
			s.pos = 0
		}
		c := copy(dst[n:], s.samples[s.pos:])
		n += c
		s.pos += c
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
