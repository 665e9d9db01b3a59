package playback

import "sync/atomic"

// frameRing is a lock-free SPSC queue of stereo float32 frames.
type frameRing struct {
	data []float32 // interleaved L/R
	size uint64    // capacity in frames
	head atomic.Uint64
	tail atomic.Uint64
}

func newFrameRing(frames int) *frameRing {
	if frames < 1 {
		frames = 1
	}
	return &frameRing{
		data: make([]float32, 2*frames),
		size: uint64(frames),
	}
}

// Buffered returns the number of frames waiting to be read.
func (r *frameRing) Buffered() int {
	return int(r.tail.Load() - r.head.Load())
}

// push stores as many frames as fit and returns the count.
func (r *frameRing) push(left, right []float64) int {
	tail := r.tail.Load()
	free := r.size - (tail - r.head.Load())
	n := uint64(len(left))
	if uint64(len(right)) < n {
		n = uint64(len(right))
	}
	if n > free {
		n = free
	}
	for i := uint64(0); i < n; i++ {
		slot := (tail + i) % r.size
		r.data[2*slot] = float32(left[i])
		r.data[2*slot+1] = float32(right[i])
	}
	r.tail.Store(tail + n)
	return int(n)
}

// pop moves up to len(dst)/2 frames into dst and returns the frame count.
func (r *frameRing) pop(dst []float32) int {
	head := r.head.Load()
	avail := r.tail.Load() - head
	n := uint64(len(dst) / 2)
	if n > avail {
		n = avail
	}
	for i := uint64(0); i < n; i++ {
		slot := (head + i) % r.size
		dst[2*i] = r.data[2*slot]
		dst[2*i+1] = r.data[2*slot+1]
	}
	r.head.Store(head + n)
	return int(n)
}
