package ir

import (
	"errors"
	"math"
)

// Errors returned by IR analysis functions.
var (
	ErrEmptyIR           = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
	ErrInvalidThreshold  = errors.New("ir: threshold must be in (0, 1)")
	ErrNoDecay           = errors.New("ir: insufficient decay for RT calculation")
)

const (
	// DefaultThreshold is the echo detection level relative to the peak (-60 dB).
	DefaultThreshold = 1e-3
	// DefaultMinSpacing merges above-threshold samples closer than this many
	// seconds into one echo. Fractional delays smear an echo over two samples.
	DefaultMinSpacing = 0.002
)

// Echo is one detected repeat of the excitation.
type Echo struct {
	Index     int     // sample index of the largest magnitude in the cluster
	Time      float64 // Index in seconds
	Amplitude float64 // signed sample value at Index
}

// Metrics holds impulse response analysis results.
type Metrics struct {
	Echoes     []Echo
	Period     float64 // mean echo spacing in seconds, 0 with fewer than two echoes
	DecayRatio float64 // per-echo amplitude ratio, 0 with fewer than two echoes
	T20        float64 // decay time from the -5 to -25 dB slope
	T30        float64 // decay time from the -5 to -35 dB slope
	RT60       float64 // T30 when available, else T20
	PeakIndex  int     // sample index of the absolute maximum
}

// Analyzer computes echo metrics from impulse response data.
type Analyzer struct {
	SampleRate float64
	Threshold  float64 // relative to the peak magnitude
	MinSpacing float64 // seconds
}

// NewAnalyzer creates an analyzer with the default detection settings.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{
		SampleRate: sampleRate,
		Threshold:  DefaultThreshold,
		MinSpacing: DefaultMinSpacing,
	}
}

func (a *Analyzer) validate(ir []float64) error {
	if len(ir) == 0 {
		return ErrEmptyIR
	}

	if a.SampleRate <= 0 || math.IsNaN(a.SampleRate) {
		return ErrInvalidSampleRate
	}

	if !(a.Threshold > 0 && a.Threshold < 1) {
		return ErrInvalidThreshold
	}

	return nil
}

// Analyze detects echoes and computes the decay metrics of ir.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if err := a.validate(ir); err != nil {
		return Metrics{}, err
	}

	peakIdx := findPeak(ir)
	m := Metrics{
		PeakIndex: peakIdx,
		Echoes:    a.echoes(ir),
	}

	m.Period, m.DecayRatio = a.trainShape(m.Echoes)

	schroeder := schroederIntegral(ir[peakIdx:])
	m.T20 = a.reverbTime(schroeder, -5, -25)
	m.T30 = a.reverbTime(schroeder, -5, -35)

	if m.T30 > 0 {
		m.RT60 = m.T30
	} else {
		m.RT60 = m.T20
	}

	return m, nil
}

// Echoes returns the detected echoes of ir in time order.
func (a *Analyzer) Echoes(ir []float64) ([]Echo, error) {
	if err := a.validate(ir); err != nil {
		return nil, err
	}

	return a.echoes(ir), nil
}

func (a *Analyzer) echoes(ir []float64) []Echo {
	peak := math.Abs(ir[findPeak(ir)])
	if peak == 0 {
		return nil
	}

	threshold := peak * a.Threshold
	gap := max(1, int(math.Round(a.MinSpacing*a.SampleRate)))

	var (
		out  []Echo
		last = -gap - 1
	)

	for i, v := range ir {
		av := math.Abs(v)
		if av < threshold {
			continue
		}

		if n := len(out); n > 0 && i-last <= gap {
			if av > math.Abs(out[n-1].Amplitude) {
				out[n-1].Index = i
				out[n-1].Amplitude = v
			}
		} else {
			out = append(out, Echo{Index: i, Amplitude: v})
		}

		last = i
	}

	for i := range out {
		out[i].Time = float64(out[i].Index) / a.SampleRate
	}

	return out
}

// trainShape returns the mean spacing in seconds and the geometric mean
// amplitude ratio of consecutive echoes.
func (a *Analyzer) trainShape(echoes []Echo) (period, ratio float64) {
	n := len(echoes)
	if n < 2 {
		return 0, 0
	}

	first, lastEcho := echoes[0], echoes[n-1]
	period = float64(lastEcho.Index-first.Index) / float64(n-1) / a.SampleRate

	if first.Amplitude != 0 {
		ratio = math.Pow(math.Abs(lastEcho.Amplitude/first.Amplitude), 1/float64(n-1))
	}

	return period, ratio
}

// RT60 computes the time for the tail to decay by 60 dB.
// Uses T30 extrapolation when possible, falls back to T20.
func (a *Analyzer) RT60(ir []float64) (float64, error) {
	if err := a.validate(ir); err != nil {
		return 0, err
	}

	schroeder := schroederIntegral(ir[findPeak(ir):])

	if rt := a.reverbTime(schroeder, -5, -35); rt > 0 {
		return rt, nil
	}

	if rt := a.reverbTime(schroeder, -5, -25); rt > 0 {
		return rt, nil
	}

	return 0, ErrNoDecay
}

// FeedbackForRT60 returns the per-repeat gain that makes an echo train with
// the given period decay by 60 dB in rt60 seconds.
func FeedbackForRT60(period, rt60 float64) float64 {
	if period <= 0 || rt60 <= 0 {
		return 0
	}

	return math.Pow(10, -3*period/rt60)
}

// SchroederIntegral computes the Schroeder backward integration of the
// squared impulse response, returned in dB.
//
// S(t) = 10*log10( ∫_t^∞ h²(τ) dτ / ∫_0^∞ h²(τ) dτ )
func (a *Analyzer) SchroederIntegral(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}

	return schroederIntegral(ir), nil
}

func schroederIntegral(ir []float64) []float64 {
	result := make([]float64, len(ir))

	var cumSum float64
	for i := len(ir) - 1; i >= 0; i-- {
		cumSum += ir[i] * ir[i]
		result[i] = cumSum
	}

	total := result[0]
	if total <= 0 {
		return result
	}

	for i := range result {
		ratio := result[i] / total
		if ratio <= 0 {
			result[i] = -200
		} else {
			result[i] = 10 * math.Log10(ratio)
		}
	}

	return result
}

// reverbTime fits a line to the Schroeder curve between startDB and endDB
// and extrapolates it to -60 dB.
func (a *Analyzer) reverbTime(schroeder []float64, startDB, endDB float64) float64 {
	startIdx, endIdx := -1, -1

	for i, v := range schroeder {
		if startIdx < 0 && v <= startDB {
			startIdx = i
		}

		if startIdx >= 0 && v <= endDB {
			endIdx = i
			break
		}
	}

	if startIdx < 0 || endIdx <= startIdx {
		return 0
	}

	var sumX, sumY, sumXX, sumXY float64

	for i := startIdx; i <= endIdx; i++ {
		x := float64(i - startIdx)
		y := schroeder[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	nf := float64(endIdx - startIdx + 1)

	denom := nf*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	// dB per sample
	slope := (nf*sumXY - sumX*sumY) / denom
	if slope >= 0 {
		return 0
	}

	return -60.0 / (slope * a.SampleRate)
}

func findPeak(ir []float64) int {
	peakIdx := 0
	peakVal := 0.0

	for i, v := range ir {
		if av := math.Abs(v); av > peakVal {
			peakVal = av
			peakIdx = i
		}
	}

	return peakIdx
}
