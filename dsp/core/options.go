package core

import (
	"github.com/cwbudde/algo-tapfx/dsp/interp"
	"github.com/cwbudde/algo-tapfx/dsp/osc"
)

// ProcessorConfig defines the setup-time settings shared by every tap engine
// component. Buffer capacities and oscillator tables derive from it and stay
// fixed for the lifetime of a run.
type ProcessorConfig struct {
	SampleRate      float64
	BlockSize       int
	MaxDelaySeconds float64
	// Interpolation is the fractional read kernel of every ring buffer.
	Interpolation interp.Mode
	// Waveform is the shape of the shared modulation table.
	Waveform osc.Waveform
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns one second of delay memory at 48 kHz, processed
// in blocks of 256 frames.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:      48000,
		BlockSize:       256,
		MaxDelaySeconds: 1,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the number of frames handled per processing call.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithMaxDelay sets the longest delay, in seconds, any ring buffer must hold.
func WithMaxDelay(seconds float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if seconds > 0 {
			cfg.MaxDelaySeconds = seconds
		}
	}
}

// WithInterpolation selects the ring buffer read kernel.
func WithInterpolation(mode interp.Mode) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.Interpolation = mode
	}
}

// WithWaveform selects the modulation table shape.
func WithWaveform(w osc.Waveform) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.Waveform = w
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
