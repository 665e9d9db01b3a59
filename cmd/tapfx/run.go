package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-tapfx/control/automation"
	"github.com/cwbudde/algo-tapfx/dsp/core"
	"github.com/cwbudde/algo-tapfx/dsp/effects"
	"github.com/cwbudde/algo-tapfx/dsp/signal"
	"github.com/cwbudde/algo-tapfx/engine"
	"github.com/cwbudde/algo-tapfx/engine/config"
	"github.com/cwbudde/algo-tapfx/host/playback"
	"github.com/cwbudde/algo-tapfx/host/wavio"
	"github.com/cwbudde/algo-tapfx/measure/ir"
	"github.com/cwbudde/algo-tapfx/measure/response"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var errNothingToDo = errors.New("nothing to do: pass -out, -play, -analyze or -list")

func run(ctx context.Context, fs afero.Fs, w io.Writer, o options) error {
	if o.list {
		return printList(w)
	}
	if o.outPath == "" && !o.play && !o.analyze {
		return errNothingToDo
	}

	cfg, err := loadConfig(fs, o)
	if err != nil {
		return err
	}
	configureLogging(cfg.LogLevel, o.verbose)

	var (
		in      *wavio.Source
		engOpts []core.ProcessorOption
	)
	if o.inPath != "" {
		in, err = wavio.Open(fs, o.inPath)
		if err != nil {
			return err
		}
		engOpts = append(engOpts, core.WithSampleRate(float64(in.SampleRate())))
	}

	eng, err := engine.New(cfg, engOpts...)
	if err != nil {
		return err
	}
	sampleRate := eng.Processor().SampleRate

	if o.analyze {
		return analyze(w, eng, o.analyzeLen)
	}

	if cfg.Automation != "" {
		script, err := automation.Load(fs, cfg.Automation, eng.Params(), sampleRate)
		if err != nil {
			return err
		}
		defer script.Close()
		eng.OnBlock(script.OnBlock)
	}

	src, err := buildSource(eng, in, o)
	if err != nil {
		return err
	}

	var (
		sinks   engine.Tee
		wavOut  *wavio.Sink
		speaker *playback.Sink
	)
	if o.outPath != "" {
		wavOut, err = wavio.Create(fs, o.outPath, int(sampleRate))
		if err != nil {
			return err
		}
		sinks = append(sinks, wavOut)
	}
	if o.play {
		speaker, err = playback.Open(int(sampleRate))
		if err != nil {
			if wavOut != nil {
				_ = wavOut.Close()
			}
			return err
		}
		sinks = append(sinks, speaker)
	}

	stats, runErr := eng.Run(ctx, src, sinks)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	if speaker != nil {
		if runErr == nil && ctx.Err() == nil {
			speaker.Drain()
		}
		if err := speaker.Close(); err != nil && runErr == nil {
			runErr = err
		}
		if n := speaker.Underruns(); n > 0 {
			logrus.WithFields(logrus.Fields{
				"function":  "run",
				"underruns": n,
			}).Warn("Playback underran")
		}
	}
	if wavOut != nil {
		if err := wavOut.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(w, "%s: %d frames at %g Hz, peak %.3f, %s\n",
		eng.Effect(), stats.Frames, sampleRate, stats.Peak, stats.Duration.Round(time.Millisecond))
	return nil
}

// loadConfig reads the optional YAML file and applies the flag overrides.
func loadConfig(fs afero.Fs, o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(fs, o.configPath); err != nil {
			return config.Config{}, err
		}
	}

	if o.effect != "" {
		cfg.Effect = o.effect
	}
	if o.sampleRate > 0 {
		cfg.SampleRate = o.sampleRate
	}
	if o.blockSize > 0 {
		cfg.BlockSize = o.blockSize
	}
	if o.interp != "" {
		cfg.Interpolation = o.interp
	}
	if o.waveform != "" {
		cfg.Waveform = o.waveform
	}
	if o.automation != "" {
		cfg.Automation = o.automation
	}
	if len(o.sets) > 0 {
		merged := make(map[string]float64, len(cfg.Params)+len(o.sets))
		maps.Copy(merged, cfg.Params)
		for _, p := range o.sets {
			merged[p.name] = p.value
		}
		cfg.Params = merged
	}
	return cfg, cfg.Validate()
}

func configureLogging(level string, verbose bool) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	logrus.SetLevel(lvl)
}

func buildSource(eng *engine.Engine, in *wavio.Source, o options) (engine.Source, error) {
	gen := signal.NewGenerator(eng.Processor())
	tail := gen.Samples(o.tail)

	if in != nil {
		if o.loop {
			in.Loop = true
			return in, nil
		}
		return engine.NewSliceSource(in.Samples(), tail), nil
	}

	data, err := gen.Generate(signal.Kind(strings.ToLower(o.signal)), o.duration)
	if err != nil {
		return nil, err
	}
	return engine.NewSliceSource(data, tail), nil
}

func printList(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EFFECT\tPARAM\tMIN\tMAX\tSTEP\tDEFAULT\tUNIT")
	for _, name := range effects.Names() {
		specs, err := effects.ParamSpecs(name)
		if err != nil {
			return err
		}
		for _, s := range specs {
			fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%g\t%s\n",
				name, s.Name, s.Min, s.Max, s.Step, s.Default, s.Unit)
		}
	}
	return tw.Flush()
}

// maxPeaksListed bounds the comb peaks printed per channel.
const maxPeaksListed = 4

func analyze(w io.Writer, eng *engine.Engine, seconds float64) error {
	sampleRate := eng.Processor().SampleRate
	n := int(math.Ceil(seconds * sampleRate))
	if n < 2 {
		return fmt.Errorf("analysis length too short: %v s", seconds)
	}

	left, right, err := response.Capture(eng, n)
	if err != nil {
		return err
	}

	ra, err := response.NewAnalyzer(sampleRate, nextPow2(n))
	if err != nil {
		return err
	}
	ia := ir.NewAnalyzer(sampleRate)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s impulse response, %d samples at %g Hz\n", eng.Effect(), n, sampleRate)
	fmt.Fprintln(tw, "CHANNEL\tECHOES\tFIRST\tPERIOD\tFEEDBACK\tRT60\tPEAKS")

	for _, ch := range []struct {
		name string
		data []float64
	}{{"left", left}, {"right", right}} {
		m, err := ia.Analyze(ch.data)
		if err != nil {
			return fmt.Errorf("%s: %w", ch.name, err)
		}
		r, err := ra.Analyze(ch.data)
		if err != nil {
			return fmt.Errorf("%s: %w", ch.name, err)
		}

		first := "-"
		if len(m.Echoes) > 0 {
			first = fmt.Sprintf("%.1f ms", core.SamplesToMs(float64(m.Echoes[0].Index), sampleRate))
		}

		fmt.Fprintf(tw, "%s\t%d\t%s\t%.1f ms\t%.3f\t%.2f s\t%s\n",
			ch.name, len(m.Echoes), first, 1000*m.Period, m.DecayRatio, m.RT60, formatPeaks(r))
	}
	return tw.Flush()
}

func formatPeaks(r response.Response) string {
	peaks := r.Peaks(3)
	if len(peaks) == 0 {
		return "-"
	}

	parts := make([]string, 0, maxPeaksListed+1)
	for i, k := range peaks {
		if i == maxPeaksListed {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprintf("%.1f Hz", r.Frequency(k)))
	}
	return strings.Join(parts, " ")
}

func nextPow2(n int) int {
	p := 2
	for p < n {
		p <<= 1
	}
	return p
}
