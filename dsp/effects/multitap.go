package effects

import (
	"fmt"

	"github.com/cwbudde/algo-tapfx/dsp/core"
	"github.com/cwbudde/algo-tapfx/dsp/mix"
	"github.com/cwbudde/algo-tapfx/dsp/params"
	"github.com/cwbudde/algo-tapfx/dsp/tap"
)

// MultiTapVoices is the number of cascades in a MultiTap.
const MultiTapVoices = 8

// MultiTap control names. Per-voice controls are named by TapOnParam and
// TapPanParam.
const (
	ParamSecondaryDelay = "delay2.time"
	ParamDepth          = "delay1.level"
	ParamDelay2Feedback = "delay2.feedback"
	ParamLFORate        = "lfo.rate"
	ParamDryLevel       = "mix.dry"
	ParamFXLevel        = "mix.fx"
	ParamFXOn           = "fx.on"
)

// Per-voice layout of the MultiTap.
var (
	multiTapDelayMs  = [MultiTapVoices]float64{23.6, 30, 38.1, 47.6, 300, 400, 341, 450}
	multiTapSweepMs  = [MultiTapVoices]float64{3.5, 4, 4.2, 3.7, 3.5, 3.8, 4.7, 3.3}
	multiTapVolume   = [MultiTapVoices]float64{1, 1, 1, 1, .65, .65, .65, .65}
	multiTapFeedback = [MultiTapVoices]float64{0, 0, 0, 0, .45, .35, .43, .34}
	multiTapLeft     = [MultiTapVoices]bool{true, false, false, true, true, false, true, false}
)

// TapOnParam names the enable toggle of voice i (0-based).
func TapOnParam(i int) string { return fmt.Sprintf("tap%d.on", i+1) }

// TapPanParam names the pan position of voice i (0-based).
func TapPanParam(i int) string { return fmt.Sprintf("tap%d.pan", i+1) }

// MultiTapParams returns the MultiTap control specs.
func MultiTapParams() []params.Spec {
	specs := []params.Spec{
		{Name: ParamSecondaryDelay, Min: 0, Max: 500, Step: 1, Default: 375, Unit: "ms"},
		{Name: ParamDepth, Min: 0, Max: 0.95, Default: 0.25},
		{Name: ParamDelay2Feedback, Min: 0, Max: 0.95, Default: 0.4},
		{Name: ParamLFORate, Min: 0, Max: 6, Default: 2, Unit: "Hz"},
		{Name: ParamDryLevel, Min: 0, Max: 1, Default: 0.5},
		{Name: ParamFXLevel, Min: 0, Max: 1, Default: 0.85},
		toggle(ParamFXOn, true),
	}
	for i := 0; i < MultiTapVoices; i++ {
		pan := 1.0
		if multiTapLeft[i] {
			pan = -1
		}
		specs = append(specs,
			toggle(TapOnParam(i), true),
			params.Spec{Name: TapPanParam(i), Min: -1, Max: 1, Default: pan},
		)
	}
	return specs
}

// MultiTapSettings is one snapshot of the MultiTap controls.
type MultiTapSettings struct {
	SecondaryDelayMs float64
	Depth            float64
	Delay2Feedback   float64
	LFORateHz        float64
	DryLevel         float64
	FXLevel          float64
	FXOn             bool
	TapOn            [MultiTapVoices]bool
	TapPan           [MultiTapVoices]float64
}

// MultiTap is a network of eight cascades. Stage A of each cascade is a
// swept delay mixed with its input; stage B repeats that through a shared
// secondary delay with per-voice feedback. The voices are summed per channel
// and mixed with the dry input.
type MultiTap struct {
	b       *builder
	surface *params.Surface
	ctl     struct {
		secondaryDelay, depth, delay2Feedback, lfoRate *params.Param
		dryLevel, fxLevel, fxOn                        *params.Param
		tapOn, tapPan                                  [MultiTapVoices]*params.Param
	}

	voices  [MultiTapVoices]*tap.Cascade
	network *tap.Network
	mixer   *mix.Mixer

	wetL []float64
	wetR []float64

	n        uint64
	settings MultiTapSettings
}

// NewMultiTap builds a MultiTap whose buffers hold every parameter's maximum.
func NewMultiTap(cfg core.ProcessorConfig) (*MultiTap, error) {
	b, err := newBuilder(cfg)
	if err != nil {
		return nil, err
	}
	specs := MultiTapParams()
	surface, err := registerAll(specs)
	if err != nil {
		return nil, err
	}

	mt := &MultiTap{
		b:       b,
		surface: surface,
		wetL:    make([]float64, cfg.BlockSize),
		wetR:    make([]float64, cfg.BlockSize),
	}
	mt.ctl.secondaryDelay = surface.Lookup(ParamSecondaryDelay)
	mt.ctl.depth = surface.Lookup(ParamDepth)
	mt.ctl.delay2Feedback = surface.Lookup(ParamDelay2Feedback)
	mt.ctl.lfoRate = surface.Lookup(ParamLFORate)
	mt.ctl.dryLevel = surface.Lookup(ParamDryLevel)
	mt.ctl.fxLevel = surface.Lookup(ParamFXLevel)
	mt.ctl.fxOn = surface.Lookup(ParamFXOn)

	secondaryMax := specMax(specs, ParamSecondaryDelay)
	voices := make([]tap.Voice, MultiTapVoices)
	for i := range mt.voices {
		mt.ctl.tapOn[i] = surface.Lookup(TapOnParam(i))
		mt.ctl.tapPan[i] = surface.Lookup(TapPanParam(i))

		ringA, err := b.ring(multiTapDelayMs[i] + multiTapSweepMs[i])
		if err != nil {
			return nil, fmt.Errorf("tap %d: %w", i+1, err)
		}
		stageA, err := tap.New(ringA,
			tap.WithDelay(b.samples(multiTapDelayMs[i])),
			tap.WithModulation(b.lfo, b.samples(multiTapSweepMs[i]), 0),
			tap.WithStageMix(1, 1),
		)
		if err != nil {
			return nil, fmt.Errorf("tap %d: %w", i+1, err)
		}

		ringB, err := b.ring(secondaryMax)
		if err != nil {
			return nil, fmt.Errorf("tap %d: %w", i+1, err)
		}
		stageB, err := tap.New(ringB, tap.WithFeedback(0), tap.WithStageMix(1, 1))
		if err != nil {
			return nil, fmt.Errorf("tap %d: %w", i+1, err)
		}

		c, err := tap.NewCascade(stageA, stageB)
		if err != nil {
			return nil, err
		}
		c.Volume = multiTapVolume[i]
		mt.voices[i] = c
		voices[i] = c
	}

	mt.network, err = tap.NewNetwork(voices...)
	if err != nil {
		return nil, err
	}
	mt.mixer, err = mix.New(0, 0)
	if err != nil {
		return nil, err
	}
	mt.mixer.Prepare(cfg.BlockSize)

	mt.Apply(mt.Settings())
	return mt, nil
}

// Params returns the control surface.
func (mt *MultiTap) Params() *params.Surface { return mt.surface }

// Voice returns cascade i (0-based).
func (mt *MultiTap) Voice(i int) *tap.Cascade { return mt.voices[i] }

// Settings loads the current control values.
func (mt *MultiTap) Settings() MultiTapSettings {
	s := MultiTapSettings{
		SecondaryDelayMs: mt.ctl.secondaryDelay.Load(),
		Depth:            mt.ctl.depth.Load(),
		Delay2Feedback:   mt.ctl.delay2Feedback.Load(),
		LFORateHz:        mt.ctl.lfoRate.Load(),
		DryLevel:         mt.ctl.dryLevel.Load(),
		FXLevel:          mt.ctl.fxLevel.Load(),
		FXOn:             mt.ctl.fxOn.On(),
	}
	for i := range s.TapOn {
		s.TapOn[i] = mt.ctl.tapOn[i].On()
		s.TapPan[i] = mt.ctl.tapPan[i].Load()
	}
	return s
}

// Applied returns the settings currently driving the taps.
func (mt *MultiTap) Applied() MultiTapSettings { return mt.settings }

// Apply pushes a settings snapshot into the cascades and the mixer.
func (mt *MultiTap) Apply(s MultiTapSettings) {
	mt.settings = s

	secondary := mt.b.samples(s.SecondaryDelayMs)
	for i, c := range mt.voices {
		c.Enabled = s.TapOn[i]
		c.Pan = tap.PanAt(s.TapPan[i])
		c.First.Rate = s.LFORateHz
		c.Second.Feedback = s.Delay2Feedback * multiTapFeedback[i]
		c.Second.SetDelay(secondary, 0)
	}

	mt.mixer.DryLevel = s.DryLevel
	mt.mixer.WetLevel = s.FXLevel * s.Depth
	mt.mixer.Bypass = !s.FXOn
}

// ProcessSample renders one frame.
func (mt *MultiTap) ProcessSample(in float64) (left, right float64) {
	n := mt.n
	mt.n++
	wl, wr := mt.network.ProcessSample(in, n)
	return mt.mixer.Mix(in, wl, wr)
}

// ProcessBlock loads the controls once and renders the block. The wet sums
// are collected per block and mixed with MixBlock.
func (mt *MultiTap) ProcessBlock(in, outL, outR []float64) {
	mt.Apply(mt.Settings())

	for start := 0; start < len(in); start += len(mt.wetL) {
		end := start + len(mt.wetL)
		if end > len(in) {
			end = len(in)
		}
		chunk := in[start:end]
		wetL := mt.wetL[:len(chunk)]
		wetR := mt.wetR[:len(chunk)]
		for i, x := range chunk {
			wetL[i], wetR[i] = mt.network.ProcessSample(x, mt.n)
			mt.n++
		}
		mt.mixer.MixBlock(outL[start:end], outR[start:end], chunk, wetL, wetR)
	}
}

// Reset clears all delay memory.
func (mt *MultiTap) Reset() {
	mt.network.Reset()
	mt.n = 0
}
