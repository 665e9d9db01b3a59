package core

import (
	"testing"

	"github.com/cwbudde/algo-tapfx/dsp/interp"
	"github.com/cwbudde/algo-tapfx/dsp/osc"
)

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(96000), WithBlockSize(2048), WithMaxDelay(2))
	if cfg.SampleRate != 96000 {
		t.Fatalf("sample rate = %v, want 96000", cfg.SampleRate)
	}
	if cfg.BlockSize != 2048 {
		t.Fatalf("block size = %d, want 2048", cfg.BlockSize)
	}
	if cfg.MaxDelaySeconds != 2 {
		t.Fatalf("max delay = %v, want 2", cfg.MaxDelaySeconds)
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(0), WithBlockSize(-1), WithMaxDelay(-3), nil)
	def := DefaultProcessorConfig()
	if cfg != def {
		t.Fatalf("cfg = %#v, want %#v", cfg, def)
	}
}

func TestKernelOptions(t *testing.T) {
	def := DefaultProcessorConfig()
	if def.Interpolation != interp.Linear || def.Waveform != osc.Sine {
		t.Fatalf("defaults = %v/%v, want linear/sine", def.Interpolation, def.Waveform)
	}

	cfg := ApplyProcessorOptions(WithInterpolation(interp.Hermite), WithWaveform(osc.Triangle))
	if cfg.Interpolation != interp.Hermite {
		t.Fatalf("interpolation = %v, want hermite", cfg.Interpolation)
	}
	if cfg.Waveform != osc.Triangle {
		t.Fatalf("waveform = %v, want triangle", cfg.Waveform)
	}
}
