// Package engine drives an effect from a block source to a stereo sink.
//
// The engine owns every buffer it needs; after New returns, processing a
// block does not allocate. Run is the host loop: it pulls a block, renders
// it and hands it to the sink until the source ends or the context is
// cancelled. Cancellation is observed between blocks only.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/cwbudde/algo-tapfx/dsp/core"
	"github.com/cwbudde/algo-tapfx/dsp/effects"
	"github.com/cwbudde/algo-tapfx/dsp/params"
	"github.com/cwbudde/algo-tapfx/engine/config"
	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"
)

// Setup errors.
var (
	ErrInvalidSampleRate = config.ErrInvalidSampleRate
	ErrUnknownEffect     = effects.ErrUnknownEffect
	ErrUnknownParam      = params.ErrUnknownParam
)

// Source produces mono input blocks. ReadBlock fills dst and returns the
// number of frames written; it returns io.EOF once no frames remain. A
// source that loops or pads with silence never returns io.EOF.
type Source interface {
	ReadBlock(dst []float64) (int, error)
}

// Sink consumes stereo output blocks. The slices are reused after
// WriteBlock returns.
type Sink interface {
	WriteBlock(left, right []float64) error
}

// BlockHook runs before each block with the block index and the stream
// time in seconds. Returning an error stops Run.
type BlockHook func(block uint64, seconds float64) error

// Stats summarises one Run.
type Stats struct {
	Blocks   uint64
	Frames   uint64
	Peak     float64
	Duration time.Duration
}

// Engine renders one effect at a fixed sample rate and block size.
type Engine struct {
	cfg  config.Config
	proc core.ProcessorConfig
	fx   effects.Processor
	gain float64

	in    []float64
	left  []float64
	right []float64

	hooks  []BlockHook
	blocks uint64
	frames uint64
}

// New validates cfg, builds the effect and applies the configured initial
// parameter values. opts override the sizes from cfg.
func New(cfg config.Config, opts ...core.ProcessorOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "New",
			"error":    err.Error(),
		}).Error("Engine configuration rejected")
		return nil, err
	}

	proc := core.ApplyProcessorOptions(append(cfg.ProcessorOptions(), opts...)...)
	if !core.ValidSampleRate(proc.SampleRate) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, proc.SampleRate)
	}

	fx, err := effects.New(cfg.Effect,
		core.WithSampleRate(proc.SampleRate),
		core.WithBlockSize(proc.BlockSize),
		core.WithMaxDelay(proc.MaxDelaySeconds),
		core.WithInterpolation(proc.Interpolation),
		core.WithWaveform(proc.Waveform),
	)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	surface := fx.Params()
	for name, v := range cfg.Params {
		if _, err := surface.Set(name, v); err != nil {
			return nil, fmt.Errorf("engine: %s: %w", cfg.Effect, err)
		}
	}

	e := &Engine{
		cfg:   cfg,
		proc:  proc,
		fx:    fx,
		gain:  cfg.OutputGain,
		in:    make([]float64, proc.BlockSize),
		left:  make([]float64, proc.BlockSize),
		right: make([]float64, proc.BlockSize),
	}

	logrus.WithFields(logrus.Fields{
		"function":    "New",
		"effect":      cfg.Effect,
		"sample_rate": proc.SampleRate,
		"block_size":  proc.BlockSize,
		"max_delay_s": proc.MaxDelaySeconds,
		"interp":      proc.Interpolation.String(),
		"waveform":    proc.Waveform.String(),
		"params":      surface.Len(),
	}).Info("Engine ready")
	return e, nil
}

// Params returns the effect's control surface.
func (e *Engine) Params() *params.Surface { return e.fx.Params() }

// Processor returns the processing configuration.
func (e *Engine) Processor() core.ProcessorConfig { return e.proc }

// Effect returns the configured effect name.
func (e *Engine) Effect() string { return e.cfg.Effect }

// Frames returns the number of frames rendered since New or Reset.
func (e *Engine) Frames() uint64 { return e.frames }

// OnBlock registers a hook that runs before every block in Run.
func (e *Engine) OnBlock(h BlockHook) {
	if h != nil {
		e.hooks = append(e.hooks, h)
	}
}

// ProcessBlock renders in into outL and outR and applies the output gain.
func (e *Engine) ProcessBlock(in, outL, outR []float64) {
	e.fx.ProcessBlock(in, outL, outR)
	n := len(in)
	if !core.NearlyEqual(e.gain, 1, 1e-12) {
		vecmath.ScaleBlock(outL[:n], outL[:n], e.gain)
		vecmath.ScaleBlock(outR[:n], outR[:n], e.gain)
	}
	e.frames += uint64(n)
}

// Reset clears the effect's delay memory and the frame counter.
func (e *Engine) Reset() {
	e.fx.Reset()
	e.blocks = 0
	e.frames = 0
}

// Run renders src into sink until src returns io.EOF or ctx is done.
func (e *Engine) Run(ctx context.Context, src Source, sink Sink) (Stats, error) {
	start := time.Now()
	var stats Stats
	finish := func(err error) (Stats, error) {
		stats.Duration = time.Since(start)
		fields := logrus.Fields{
			"function": "Run",
			"blocks":   stats.Blocks,
			"frames":   stats.Frames,
			"peak":     stats.Peak,
			"elapsed":  stats.Duration.String(),
		}
		if err != nil {
			fields["error"] = err.Error()
			logrus.WithFields(fields).Warn("Engine run stopped")
		} else {
			logrus.WithFields(fields).Info("Engine run finished")
		}
		return stats, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		seconds := float64(e.frames) / e.proc.SampleRate
		for _, h := range e.hooks {
			if err := h(e.blocks, seconds); err != nil {
				return finish(fmt.Errorf("engine: block hook: %w", err))
			}
		}

		n, readErr := src.ReadBlock(e.in)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return finish(fmt.Errorf("engine: read: %w", readErr))
		}
		if n > 0 {
			e.ProcessBlock(e.in[:n], e.left[:n], e.right[:n])
			stats.Peak = math.Max(stats.Peak, peak(e.left[:n], e.right[:n]))
			if err := sink.WriteBlock(e.left[:n], e.right[:n]); err != nil {
				return finish(fmt.Errorf("engine: write: %w", err))
			}
			e.blocks++
			stats.Blocks++
			stats.Frames += uint64(n)
		}
		if errors.Is(readErr, io.EOF) {
			return finish(nil)
		}
	}
}

func peak(a, b []float64) float64 {
	m := 0.0
	for i := range a {
		if v := math.Abs(a[i]); v > m {
			m = v
		}
		if v := math.Abs(b[i]); v > m {
			m = v
		}
	}
	return m
}
