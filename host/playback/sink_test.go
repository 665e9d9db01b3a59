package playback

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSink(frames int) *Sink {
	return newSink(Options{SampleRate: 1000, Latency: time.Duration(frames) * time.Millisecond})
}

func decode(p []byte) []float32 {
	out := make([]float32, len(p)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:]))
	}
	return out
}

func TestFrameRingWraps(t *testing.T) {
	r := newFrameRing(4)
	assert.Equal(t, 3, r.push([]float64{1, 2, 3}, []float64{-1, -2, -3}))

	buf := make([]float32, 4)
	assert.Equal(t, 2, r.pop(buf))
	assert.Equal(t, []float32{1, -1, 2, -2}, buf)

	assert.Equal(t, 3, r.push([]float64{4, 5, 6, 7}, []float64{-4, -5, -6, -7}))
	assert.Equal(t, 4, r.Buffered())

	buf = make([]float32, 8)
	assert.Equal(t, 4, r.pop(buf))
	assert.Equal(t, []float32{3, -3, 4, -4, 5, -5, 6, -6}, buf)
	assert.Zero(t, r.Buffered())
}

func TestReadConvertsAndPadsSilence(t *testing.T) {
	s := testSink(10)
	require.NoError(t, s.WriteBlock([]float64{0.5, -1}, []float64{0.25, 1}))

	p := make([]byte, 3*bytesPerFrame)
	n, err := s.Read(p)
	require.NoError(t, err)
	assert.Equal(t, len(p), n)
	assert.Equal(t, []float32{0.5, 0.25, -1, 1, 0, 0}, decode(p))
	assert.Equal(t, uint64(1), s.Underruns())
}

func TestWriteBlockWaitsForReader(t *testing.T) {
	s := testSink(10)
	const total = 25
	left := make([]float64, total)
	right := make([]float64, total)
	for i := range left {
		left[i] = float64(i)
		right[i] = -float64(i)
	}

	done := make(chan error, 1)
	go func() { done <- s.WriteBlock(left, right) }()

	var got []float32
	p := make([]byte, 4*bytesPerFrame)
	deadline := time.Now().Add(5 * time.Second)
	for len(got) < 2*total && time.Now().Before(deadline) {
		buffered := s.Buffered()
		if buffered == 0 {
			time.Sleep(time.Millisecond)
			continue
		}
		if buffered > 4 {
			buffered = 4
		}
		_, err := s.Read(p[:buffered*bytesPerFrame])
		require.NoError(t, err)
		got = append(got, decode(p[:buffered*bytesPerFrame])...)
	}

	require.NoError(t, <-done)
	require.Len(t, got, 2*total)
	for i := 0; i < total; i++ {
		assert.Equal(t, float32(i), got[2*i])
		assert.Equal(t, float32(-i), got[2*i+1])
	}
}

func TestCloseUnblocksWriter(t *testing.T) {
	s := testSink(4)
	done := make(chan error, 1)
	go func() { done <- s.WriteBlock(make([]float64, 10), make([]float64, 10)) }()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Close())
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("writer still blocked after Close")
	}
	require.NoError(t, s.Close())
}

func TestDrain(t *testing.T) {
	s := testSink(8)
	require.NoError(t, s.WriteBlock(make([]float64, 6), make([]float64, 6)))

	go func() {
		p := make([]byte, 2*bytesPerFrame)
		for i := 0; i < 3; i++ {
			time.Sleep(time.Millisecond)
			_, _ = s.Read(p)
		}
	}()
	s.Drain()
	assert.Zero(t, s.Buffered())
}

func TestOptions(t *testing.T) {
	o := applyOptions(48000, []Option{WithLatency(50 * time.Millisecond), nil})
	assert.Equal(t, 2400, o.ringFrames())
	o = applyOptions(48000, []Option{WithLatency(-1)})
	assert.Equal(t, 100*time.Millisecond, o.Latency)
}
