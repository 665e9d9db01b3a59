package effects

import (
	"github.com/cwbudde/algo-tapfx/dsp/core"
	"github.com/cwbudde/algo-tapfx/dsp/mix"
	"github.com/cwbudde/algo-tapfx/dsp/params"
	"github.com/cwbudde/algo-tapfx/dsp/tap"
)

// MultiFX control names.
const (
	ParamChorusOn      = "chorus.on"
	ParamChorusDelay   = "chorus.delay"
	ParamChorusRate    = "chorus.rate"
	ParamChorusWidth   = "chorus.width"
	ParamChorusLevel   = "chorus.level"
	ParamDelayOn       = "delay.on"
	ParamDelayTime     = "delay.time"
	ParamDelayFeedback = "delay.feedback"
	ParamWidth         = "width"
)

// MultiFXParams returns the MultiFX control specs.
func MultiFXParams() []params.Spec {
	return []params.Spec{
		toggle(ParamChorusOn, true),
		{Name: ParamChorusDelay, Min: 20, Max: 30, Default: 25, Unit: "ms"},
		{Name: ParamChorusRate, Min: 1, Max: 3, Step: 1, Default: 2, Unit: "Hz"},
		{Name: ParamChorusWidth, Min: 2, Max: 5, Default: 3.5, Unit: "ms"},
		{Name: ParamChorusLevel, Min: 0, Max: 10, Default: 5},
		toggle(ParamDelayOn, false),
		{Name: ParamDelayTime, Min: 0, Max: 1000, Step: 1, Default: 375, Unit: "ms"},
		{Name: ParamDelayFeedback, Min: 0, Max: 0.95, Default: 0.5},
		{Name: ParamWidth, Min: 1, Max: 50, Step: 1, Default: 1, Unit: "ms"},
	}
}

// MultiFXSettings is one snapshot of the MultiFX controls.
type MultiFXSettings struct {
	ChorusOn      bool
	ChorusDelayMs float64
	ChorusRateHz  float64
	ChorusWidthMs float64
	ChorusLevel   float64
	DelayOn       bool
	DelayTimeMs   float64
	DelayFeedback float64
	WidthMs       float64
}

// MultiFX runs chorus, then a feedback delay, then a width stage that sends
// the delay output to the left channel and a slightly later copy to the
// right.
//
// The chorus adds level/10 of a swept copy to the dry input. The delay stage
// outputs only its echoes; while it is off it plays its input delayed by the
// delay time so that switching it keeps the timing.
type MultiFX struct {
	b       *builder
	surface *params.Surface
	ctl     struct {
		chorusOn, chorusDelay, chorusRate, chorusWidth, chorusLevel *params.Param
		delayOn, delayTime, delayFeedback                           *params.Param
		width                                                       *params.Param
	}

	chorus *tap.Tap
	echo   *tap.Tap
	width  *tap.Network
	mixer  *mix.Mixer

	n        uint64
	settings MultiFXSettings
}

// NewMultiFX builds a MultiFX whose buffers hold every parameter's maximum.
func NewMultiFX(cfg core.ProcessorConfig) (*MultiFX, error) {
	b, err := newBuilder(cfg)
	if err != nil {
		return nil, err
	}
	specs := MultiFXParams()
	surface, err := registerAll(specs)
	if err != nil {
		return nil, err
	}

	fx := &MultiFX{b: b, surface: surface}
	fx.ctl.chorusOn = surface.Lookup(ParamChorusOn)
	fx.ctl.chorusDelay = surface.Lookup(ParamChorusDelay)
	fx.ctl.chorusRate = surface.Lookup(ParamChorusRate)
	fx.ctl.chorusWidth = surface.Lookup(ParamChorusWidth)
	fx.ctl.chorusLevel = surface.Lookup(ParamChorusLevel)
	fx.ctl.delayOn = surface.Lookup(ParamDelayOn)
	fx.ctl.delayTime = surface.Lookup(ParamDelayTime)
	fx.ctl.delayFeedback = surface.Lookup(ParamDelayFeedback)
	fx.ctl.width = surface.Lookup(ParamWidth)

	chorusRing, err := b.ring(specMax(specs, ParamChorusDelay) + specMax(specs, ParamChorusWidth))
	if err != nil {
		return nil, err
	}
	fx.chorus, err = tap.New(chorusRing,
		tap.WithModulation(b.lfo, 0, 0),
		tap.WithStageMix(1, 0),
	)
	if err != nil {
		return nil, err
	}

	echoMax := specMax(specs, ParamDelayTime)
	echoRing, err := b.ring(echoMax)
	if err != nil {
		return nil, err
	}
	echoShadow, err := b.ring(echoMax)
	if err != nil {
		return nil, err
	}
	fx.echo, err = tap.New(echoRing, tap.WithFeedback(0), tap.WithShadow(echoShadow))
	if err != nil {
		return nil, err
	}

	widthRing, err := b.ring(specMax(specs, ParamWidth))
	if err != nil {
		return nil, err
	}
	widthTap, err := tap.New(widthRing, tap.WithPan(tap.HardRight))
	if err != nil {
		return nil, err
	}
	fx.width, err = tap.NewNetwork(widthTap)
	if err != nil {
		return nil, err
	}

	fx.mixer, err = mix.New(1, 1)
	if err != nil {
		return nil, err
	}
	fx.mixer.DryPan = tap.HardLeft

	fx.Apply(fx.Settings())
	return fx, nil
}

// Params returns the control surface.
func (fx *MultiFX) Params() *params.Surface { return fx.surface }

// Settings loads the current control values.
func (fx *MultiFX) Settings() MultiFXSettings {
	return MultiFXSettings{
		ChorusOn:      fx.ctl.chorusOn.On(),
		ChorusDelayMs: fx.ctl.chorusDelay.Load(),
		ChorusRateHz:  fx.ctl.chorusRate.Load(),
		ChorusWidthMs: fx.ctl.chorusWidth.Load(),
		ChorusLevel:   fx.ctl.chorusLevel.Load(),
		DelayOn:       fx.ctl.delayOn.On(),
		DelayTimeMs:   fx.ctl.delayTime.Load(),
		DelayFeedback: fx.ctl.delayFeedback.Load(),
		WidthMs:       fx.ctl.width.Load(),
	}
}

// Applied returns the settings currently driving the taps.
func (fx *MultiFX) Applied() MultiFXSettings { return fx.settings }

// Apply pushes a settings snapshot into the taps. Delays are clamped to the
// buffer sizes.
func (fx *MultiFX) Apply(s MultiFXSettings) {
	fx.settings = s

	fx.chorus.Enabled = s.ChorusOn
	fx.chorus.Rate = s.ChorusRateHz
	fx.chorus.Wet = s.ChorusLevel / 10
	fx.chorus.SetDelay(fx.b.samples(s.ChorusDelayMs), fx.b.samples(s.ChorusWidthMs))

	fx.echo.Enabled = s.DelayOn
	fx.echo.Feedback = s.DelayFeedback
	fx.echo.SetDelay(fx.b.samples(s.DelayTimeMs), 0)

	widthTap := fx.width.Voice(0).(*tap.Tap)
	widthTap.SetDelay(fx.b.samples(s.WidthMs), 0)
}

// ProcessSample renders one frame.
func (fx *MultiFX) ProcessSample(in float64) (left, right float64) {
	n := fx.n
	fx.n++

	chorusOut, _ := fx.chorus.Process(in, n)
	delayOut, _ := fx.echo.Process(chorusOut, n)
	_, wideR := fx.width.ProcessSample(delayOut, n)
	return fx.mixer.Mix(delayOut, 0, wideR)
}

// ProcessBlock loads the controls once and renders the block.
func (fx *MultiFX) ProcessBlock(in, outL, outR []float64) {
	fx.Apply(fx.Settings())
	for i, x := range in {
		outL[i], outR[i] = fx.ProcessSample(x)
	}
}

// Reset clears all delay memory.
func (fx *MultiFX) Reset() {
	fx.chorus.Reset()
	fx.echo.Reset()
	fx.width.Reset()
	fx.n = 0
}
