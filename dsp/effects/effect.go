package effects

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-tapfx/dsp/core"
	"github.com/cwbudde/algo-tapfx/dsp/delay"
	"github.com/cwbudde/algo-tapfx/dsp/osc"
	"github.com/cwbudde/algo-tapfx/dsp/params"
	"github.com/cwbudde/algo-tapfx/dsp/tap"
)

// ErrUnknownEffect is returned by New for unregistered effect names.
var ErrUnknownEffect = errors.New("effects: unknown effect")

// Processor is a mono-in, stereo-out effect.
type Processor interface {
	// Params returns the control surface. It is safe to Set values from any
	// goroutine; they take effect at the next block.
	Params() *params.Surface
	// ProcessBlock renders len(in) frames into outL and outR, which must be
	// at least as long as in.
	ProcessBlock(in, outL, outR []float64)
	// ProcessSample renders one frame with the settings of the last block.
	ProcessSample(in float64) (left, right float64)
	// Reset clears all delay memory and rewinds the sample counter.
	Reset()
}

// Factory builds one effect for a processor configuration.
type Factory func(cfg core.ProcessorConfig) (Processor, error)

var factories = map[string]Factory{
	"multifx": func(cfg core.ProcessorConfig) (Processor, error) {
		return NewMultiFX(cfg)
	},
	"multitap": func(cfg core.ProcessorConfig) (Processor, error) {
		return NewMultiTap(cfg)
	},
}

// Names returns the registered effect names in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named effect.
func New(name string, opts ...core.ProcessorOption) (Processor, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	return factory(core.ApplyProcessorOptions(opts...))
}

// ParamSpecs returns the control specs of the named effect without building
// it.
func ParamSpecs(name string) ([]params.Spec, error) {
	switch name {
	case "multifx":
		return MultiFXParams(), nil
	case "multitap":
		return MultiTapParams(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
}

// builder holds the shared setup state of one effect.
type builder struct {
	cfg core.ProcessorConfig
	lfo *osc.Table
}

func newBuilder(cfg core.ProcessorConfig) (*builder, error) {
	if !core.ValidSampleRate(cfg.SampleRate) {
		return nil, fmt.Errorf("%w: %f", osc.ErrInvalidSampleRate, cfg.SampleRate)
	}
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("effects: block size must be > 0: %d", cfg.BlockSize)
	}
	lfo, err := osc.NewTableWaveform(cfg.SampleRate, cfg.Waveform)
	if err != nil {
		return nil, err
	}
	return &builder{cfg: cfg, lfo: lfo}, nil
}

func (b *builder) samples(ms float64) float64 {
	return core.MsToSamples(ms, b.cfg.SampleRate)
}

// ring allocates a buffer that holds maxMs of history plus one sample of
// slack for ms rounding, reading with the configured interpolation. It fails
// when maxMs exceeds the configured delay memory.
func (b *builder) ring(maxMs float64) (*delay.RingBuffer, error) {
	if maxMs/1000 > b.cfg.MaxDelaySeconds+1e-9 {
		return nil, fmt.Errorf("%w: %.1f ms > max delay %.3f s",
			tap.ErrDelayExceedsCapacity, maxMs, b.cfg.MaxDelaySeconds)
	}
	return delay.NewForDuration(ringSeconds(maxMs, b.cfg.SampleRate), b.cfg.SampleRate,
		delay.WithMode(b.cfg.Interpolation))
}

func ringSeconds(maxMs, sampleRate float64) float64 {
	return maxMs/1000 + 1/sampleRate
}

func registerAll(specs []params.Spec) (*params.Surface, error) {
	s := params.NewSurface()
	if err := s.RegisterAll(specs); err != nil {
		return nil, err
	}
	return s, nil
}

func specMax(specs []params.Spec, name string) float64 {
	for _, s := range specs {
		if s.Name == name {
			return s.Max
		}
	}
	return 0
}

func toggle(name string, on bool) params.Spec {
	def := 0.0
	if on {
		def = 1
	}
	return params.Spec{Name: name, Min: 0, Max: 1, Step: 1, Default: def}
}
