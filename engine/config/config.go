// Package config loads engine settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-tapfx/dsp/core"
	"github.com/cwbudde/algo-tapfx/dsp/interp"
	"github.com/cwbudde/algo-tapfx/dsp/osc"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSampleRate is returned for a sample rate that is not a positive
// finite number.
var ErrInvalidSampleRate = errors.New("config: sample rate must be > 0")

// Config is the on-disk engine configuration.
type Config struct {
	// Effect selects the effect by registered name.
	Effect          string  `yaml:"effect"`
	SampleRate      float64 `yaml:"sample_rate"`
	BlockSize       int     `yaml:"block_size"`
	MaxDelaySeconds float64 `yaml:"max_delay_seconds"`
	// Interpolation is "linear" or "hermite".
	Interpolation string `yaml:"interpolation,omitempty"`
	// Waveform is the modulation shape, "sine" or "triangle".
	Waveform string `yaml:"waveform,omitempty"`
	// OutputGain scales both output channels after the effect.
	OutputGain float64 `yaml:"output_gain"`
	// Params holds initial control values by name.
	Params map[string]float64 `yaml:"params,omitempty"`
	// Automation is an optional Lua script path.
	Automation string `yaml:"automation,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
}

// Default returns a MultiFX at 48 kHz.
func Default() Config {
	proc := core.DefaultProcessorConfig()
	return Config{
		Effect:          "multifx",
		SampleRate:      proc.SampleRate,
		BlockSize:       proc.BlockSize,
		MaxDelaySeconds: proc.MaxDelaySeconds,
		Interpolation:   interp.Linear.String(),
		Waveform:        osc.Sine.String(),
		OutputGain:      1,
		LogLevel:        "info",
	}
}

// Parse decodes YAML on top of Default. Unknown keys are rejected; an empty
// document yields the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses path from fs.
func Load(fs afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Load",
		"path":        path,
		"effect":      cfg.Effect,
		"sample_rate": cfg.SampleRate,
		"params":      len(cfg.Params),
	}).Debug("Loaded engine configuration")
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(fs afero.Fs, path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks the setup-time fields.
func (c Config) Validate() error {
	if !core.ValidSampleRate(c.SampleRate) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("config: block size must be > 0: %d", c.BlockSize)
	}
	if !(c.MaxDelaySeconds > 0) || math.IsInf(c.MaxDelaySeconds, 0) {
		return fmt.Errorf("config: max delay must be > 0: %v", c.MaxDelaySeconds)
	}
	if math.IsNaN(c.OutputGain) || math.IsInf(c.OutputGain, 0) {
		return fmt.Errorf("config: output gain must be finite: %v", c.OutputGain)
	}
	if _, err := interp.ParseMode(c.Interpolation); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := osc.ParseWaveform(c.Waveform); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Effect == "" {
		return errors.New("config: effect must be set")
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// ProcessorOptions converts the setup fields to processor options. Unknown
// kernel names fall back to linear and sine; Validate reports them.
func (c Config) ProcessorOptions() []core.ProcessorOption {
	mode, _ := interp.ParseMode(c.Interpolation)
	waveform, _ := osc.ParseWaveform(c.Waveform)
	return []core.ProcessorOption{
		core.WithSampleRate(c.SampleRate),
		core.WithBlockSize(c.BlockSize),
		core.WithMaxDelay(c.MaxDelaySeconds),
		core.WithInterpolation(mode),
		core.WithWaveform(waveform),
	}
}
