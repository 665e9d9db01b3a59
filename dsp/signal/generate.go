package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-tapfx/dsp/core"
)

// Kind names a test signal.
type Kind string

// Test signals understood by Generate.
const (
	KindImpulse Kind = "impulse"
	KindSine    Kind = "sine"
	KindNoise   Kind = "noise"
	KindBurst   Kind = "burst"
)

// Kinds lists the signals Generate understands.
func Kinds() []Kind {
	return []Kind{KindImpulse, KindSine, KindNoise, KindBurst}
}

// Generator creates deterministic excitation signals for a tap engine.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator for the processor configuration.
func NewGenerator(cfg core.ProcessorConfig, opts ...Option) *Generator {
	g := &Generator{cfg: cfg, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the noise seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Samples converts seconds to a whole number of frames.
func (g *Generator) Samples(seconds float64) int {
	return int(math.Round(seconds * g.cfg.SampleRate))
}

// Generate renders seconds of the named signal at unit amplitude, or 0.5
// for the continuous kinds.
func (g *Generator) Generate(kind Kind, seconds float64) ([]float64, error) {
	n := g.Samples(seconds)
	switch kind {
	case KindImpulse:
		return g.Impulse(1, n, 0)
	case KindSine:
		return g.Sine(440, 0.5, n)
	case KindNoise:
		return g.WhiteNoise(0.5, n)
	case KindBurst:
		return g.Burst(0.5, g.Samples(0.02), n)
	}
	return nil, fmt.Errorf("unknown signal kind %q", kind)
}

// Impulse returns samples zeros with amplitude at pos.
func (g *Generator) Impulse(amplitude float64, samples, pos int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}
	if pos < 0 || pos >= samples {
		return nil, fmt.Errorf("impulse position out of range: %d", pos)
	}
	out := make([]float64, samples)
	out[pos] = amplitude
	return out, nil
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if !core.ValidSampleRate(g.cfg.SampleRate) {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Burst returns burst frames of white noise followed by silence, a short
// excitation that makes echoes easy to hear.
func (g *Generator) Burst(amplitude float64, burst, samples int) ([]float64, error) {
	if burst <= 0 || burst > samples {
		return nil, fmt.Errorf("burst length must be in [1, %d]: %d", samples, burst)
	}
	noise, err := g.WhiteNoise(amplitude, burst)
	if err != nil {
		return nil, err
	}
	out := make([]float64, samples)
	copy(out, noise)
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	out := make([]float64, len(data))
	maxAbs := Peak(data)
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}

// Peak returns the largest absolute value in data.
func Peak(data []float64) float64 {
	maxAbs := 0.0
	for _, v := range data {
		if av := math.Abs(v); av > maxAbs {
			maxAbs = av
		}
	}
	return maxAbs
}
