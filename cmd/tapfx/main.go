// Command tapfx runs the tap-delay effects offline, in real time or as an
// impulse response analysis.
//
// Usage:
//
//	tapfx [flags]
//
// Examples:
//
//	tapfx -list
//	tapfx -effect multitap -in voice.wav -out voice-fx.wav
//	tapfx -signal burst -set delay.on=1 -set delay.time=250 -out echo.wav
//	tapfx -config session.yaml -in loop.wav -loop -play
//	tapfx -effect multifx -set delay.on=1 -analyze
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// setFlag collects repeated -set name=value pairs in order.
type setFlag []paramValue

type paramValue struct {
	name  string
	value float64
}

func (s *setFlag) String() string {
	parts := make([]string, len(*s))
	for i, p := range *s {
		parts[i] = fmt.Sprintf("%s=%g", p.name, p.value)
	}
	return strings.Join(parts, ",")
}

func (s *setFlag) Set(v string) error {
	name, raw, ok := strings.Cut(v, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("want name=value, got %q", v)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*s = append(*s, paramValue{name: name, value: f})
	return nil
}

// options is the parsed command line.
type options struct {
	configPath string
	effect     string
	sampleRate float64
	blockSize  int
	interp     string
	waveform   string
	inPath     string
	signal     string
	duration   float64
	tail       float64
	outPath    string
	play       bool
	loop       bool
	automation string
	analyze    bool
	analyzeLen float64
	list       bool
	verbose    bool
	sets       setFlag
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.configPath, "config", "", "YAML engine configuration")
	fs.StringVar(&o.effect, "effect", "", "effect name (overrides config)")
	fs.Float64Var(&o.sampleRate, "rate", 0, "sample rate in Hz for generated input (overrides config)")
	fs.IntVar(&o.blockSize, "block", 0, "block size in frames (overrides config)")
	fs.StringVar(&o.interp, "interp", "", "fractional delay interpolation: linear, hermite (overrides config)")
	fs.StringVar(&o.waveform, "waveform", "", "modulation waveform: sine, triangle (overrides config)")
	fs.StringVar(&o.inPath, "in", "", "input WAV file (mixed down to mono)")
	fs.StringVar(&o.signal, "signal", "impulse", "generated input when -in is not given: impulse, sine, noise, burst")
	fs.Float64Var(&o.duration, "duration", 1, "length of the generated input in seconds")
	fs.Float64Var(&o.tail, "tail", 2, "seconds of silence appended so echoes ring out")
	fs.StringVar(&o.outPath, "out", "", "output WAV file (16-bit stereo)")
	fs.BoolVar(&o.play, "play", false, "play through the default audio device")
	fs.BoolVar(&o.loop, "loop", false, "loop the input file until interrupted (with -play)")
	fs.StringVar(&o.automation, "automation", "", "Lua automation script (overrides config)")
	fs.BoolVar(&o.analyze, "analyze", false, "print echo and magnitude response analysis of the impulse response")
	fs.Float64Var(&o.analyzeLen, "analyze-length", 2, "impulse response length in seconds for -analyze")
	fs.BoolVar(&o.list, "list", false, "list effects and their parameters")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.Var(&o.sets, "set", "parameter override name=value (repeatable)")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.loop && !o.play {
		return options{}, fmt.Errorf("-loop needs -play")
	}
	if o.loop && o.inPath == "" {
		return options{}, fmt.Errorf("-loop needs -in")
	}
	return o, nil
}

func main() {
	fs := flag.NewFlagSet("tapfx", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tapfx [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders, plays or analyzes the tap-delay effects.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tapfx -list\n")
		fmt.Fprintf(os.Stderr, "  tapfx -effect multitap -in voice.wav -out voice-fx.wav\n")
		fmt.Fprintf(os.Stderr, "  tapfx -signal burst -set delay.on=1 -out echo.wav\n")
		fmt.Fprintf(os.Stderr, "  tapfx -in loop.wav -loop -play\n")
		fmt.Fprintf(os.Stderr, "  tapfx -set delay.on=1 -analyze\n")
	}

	opts, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, afero.NewOsFs(), os.Stdout, opts); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Error("tapfx failed")
		os.Exit(1)
	}
}
