package tap

import "fmt"

// Voice is one element of a Network: a single tap or a cascade.
type Voice interface {
	// Step processes one sample and returns the voice output. It must be
	// called every step, even when the voice is muted, so buffers stay
	// time-aligned.
	Step(input float64, n uint64) float64
	// Gains returns the left and right weights for the voice output.
	Gains() (left, right float64)
}

// Network is an ordered collection of independent voices processed once per
// sample. No voice reads another voice's output, so evaluation order does not
// change the result.
type Network struct {
	voices []Voice
}

// NewNetwork creates a network of at least one voice.
func NewNetwork(voices ...Voice) (*Network, error) {
	if len(voices) == 0 {
		return nil, ErrNoVoices
	}
	for i, v := range voices {
		if v == nil {
			return nil, fmt.Errorf("tap: voice %d is nil", i)
		}
	}
	vs := make([]Voice, len(voices))
	copy(vs, voices)
	return &Network{voices: vs}, nil
}

// Len returns the number of voices.
func (nw *Network) Len() int { return len(nw.voices) }

// Voice returns voice i.
func (nw *Network) Voice(i int) Voice { return nw.voices[i] }

// ProcessSample steps every voice and returns the pan-weighted sums.
// Muted voices still advance but contribute exactly zero.
func (nw *Network) ProcessSample(input float64, n uint64) (left, right float64) {
	for _, v := range nw.voices {
		out := v.Step(input, n)
		gl, gr := v.Gains()
		if gl != 0 {
			left += out * gl
		}
		if gr != 0 {
			right += out * gr
		}
	}
	return left, right
}

// Reset clears every voice that supports it.
func (nw *Network) Reset() {
	for _, v := range nw.voices {
		if r, ok := v.(interface{ Reset() }); ok {
			r.Reset()
		}
	}
}
