package config

import (
	"testing"

	"github.com/cwbudde/algo-tapfx/dsp/core"
	"github.com/cwbudde/algo-tapfx/dsp/interp"
	"github.com/cwbudde/algo-tapfx/dsp/osc"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
effect: multitap
sample_rate: 44100
block_size: 128
max_delay_seconds: 2
output_gain: 0.8
params:
  delay2.time: 250
  tap3.on: 0
automation: sweep.lua
log_level: debug
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "multitap", cfg.Effect)
	assert.Equal(t, 44100.0, cfg.SampleRate)
	assert.Equal(t, 128, cfg.BlockSize)
	assert.Equal(t, 2.0, cfg.MaxDelaySeconds)
	assert.Equal(t, 0.8, cfg.OutputGain)
	assert.Equal(t, map[string]float64{"delay2.time": 250, "tap3.on": 0}, cfg.Params)
	assert.Equal(t, "sweep.lua", cfg.Automation)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("effect: multifx\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		is   error
	}{
		{name: "zero sample rate", yaml: "sample_rate: 0\n", is: ErrInvalidSampleRate},
		{name: "negative sample rate", yaml: "sample_rate: -48000\n", is: ErrInvalidSampleRate},
		{name: "zero block", yaml: "block_size: 0\n"},
		{name: "zero max delay", yaml: "max_delay_seconds: 0\n"},
		{name: "empty effect", yaml: "effect: \"\"\n"},
		{name: "bad level", yaml: "log_level: loud\n"},
		{name: "unknown interpolation", yaml: "interpolation: cubic\n"},
		{name: "unknown waveform", yaml: "waveform: square\n"},
		{name: "unknown key", yaml: "samplerate: 48000\n"},
		{name: "malformed", yaml: "effect: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
		})
	}
}

func TestLoadAndSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/tapfx.yaml", []byte(sampleYAML), 0o644))

	cfg, err := Load(fs, "/etc/tapfx.yaml")
	require.NoError(t, err)
	assert.Equal(t, "multitap", cfg.Effect)

	cfg.OutputGain = 0.5
	require.NoError(t, Save(fs, "/tmp/out.yaml", cfg))
	again, err := Load(fs, "/tmp/out.yaml")
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nope.yaml")
}

func TestProcessorOptions(t *testing.T) {
	cfg := Default()
	cfg.SampleRate = 22050
	cfg.BlockSize = 64
	cfg.MaxDelaySeconds = 3

	got := core.ApplyProcessorOptions(cfg.ProcessorOptions()...)
	assert.Equal(t, core.ProcessorConfig{SampleRate: 22050, BlockSize: 64, MaxDelaySeconds: 3}, got)
}

func TestProcessorOptionsKernels(t *testing.T) {
	cfg, err := Parse([]byte("interpolation: hermite\nwaveform: triangle\n"))
	require.NoError(t, err)

	got := core.ApplyProcessorOptions(cfg.ProcessorOptions()...)
	assert.Equal(t, interp.Hermite, got.Interpolation)
	assert.Equal(t, osc.Triangle, got.Waveform)
}
