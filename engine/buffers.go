package engine

import "io"

// SliceSource serves a fixed mono signal, optionally followed by a tail of
// silence so that echoes can ring out.
type SliceSource struct {
	data []float64
	tail int
	pos  int
}

// NewSliceSource serves data and then tail frames of silence.
func NewSliceSource(data []float64, tail int) *SliceSource {
	if tail < 0 {
		tail = 0
	}
	return &SliceSource{data: data, tail: tail}
}

// ReadBlock implements Source.
func (s *SliceSource) ReadBlock(dst []float64) (int, error) {
	total := len(s.data) + s.tail
	if s.pos >= total {
		return 0, io.EOF
	}
	n := len(dst)
	if rest := total - s.pos; n > rest {
		n = rest
	}
	for i := 0; i < n; i++ {
		if j := s.pos + i; j < len(s.data) {
			dst[i] = s.data[j]
		} else {
			dst[i] = 0
		}
	}
	s.pos += n
	return n, nil
}

// BufferSink collects every block in memory.
type BufferSink struct {
	Left  []float64
	Right []float64
}

// WriteBlock implements Sink.
func (b *BufferSink) WriteBlock(left, right []float64) error {
	b.Left = append(b.Left, left...)
	b.Right = append(b.Right, right...)
	return nil
}

// Tee writes every block to each sink in order and stops at the first error.
type Tee []Sink

// WriteBlock implements Sink.
func (t Tee) WriteBlock(left, right []float64) error {
	for _, s := range t {
		if err := s.WriteBlock(left, right); err != nil {
			return err
		}
	}
	return nil
}
