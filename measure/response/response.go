package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by the analyzer.
var (
	ErrEmptyIR           = errors.New("response: impulse response is empty")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidFFTSize    = errors.New("response: FFT size must be a power of two >= 2")
)

// floorDB is reported for bins with zero magnitude.
const floorDB = -200.0

// Response is the magnitude spectrum of an impulse response.
type Response struct {
	SampleRate float64
	FFTSize    int
	// Magnitude holds |H(k)| for bins 0..FFTSize/2.
	Magnitude []float64
}

// BinHz returns the bin spacing in Hz.
func (r Response) BinHz() float64 {
	return r.SampleRate / float64(r.FFTSize)
}

// Frequency returns the center frequency of bin k.
func (r Response) Frequency(k int) float64 {
	return float64(k) * r.BinHz()
}

// Bin returns the bin nearest to freq, clamped to the valid range.
func (r Response) Bin(freq float64) int {
	k := int(math.Round(freq / r.BinHz()))
	return min(max(k, 0), len(r.Magnitude)-1)
}

// MagnitudeDB returns bin k in dB.
func (r Response) MagnitudeDB(k int) float64 {
	m := r.Magnitude[k]
	if m <= 0 {
		return floorDB
	}

	return 20 * math.Log10(m)
}

// Peaks returns the bins that are local maxima and lie within rangeDB of the
// largest magnitude.
func (r Response) Peaks(rangeDB float64) []int {
	n := len(r.Magnitude)
	if n < 3 {
		return nil
	}

	top := 0.0
	for _, m := range r.Magnitude {
		top = max(top, m)
	}

	if top == 0 {
		return nil
	}

	floor := top * math.Pow(10, -math.Abs(rangeDB)/20)

	var peaks []int

	for k := 1; k < n-1; k++ {
		m := r.Magnitude[k]
		if m >= floor && m > r.Magnitude[k-1] && m >= r.Magnitude[k+1] {
			peaks = append(peaks, k)
		}
	}

	return peaks
}

// Analyzer transforms impulse responses with a fixed FFT size.
// Scratch memory is reused between calls, so an Analyzer must not be
// shared between goroutines.
type Analyzer struct {
	sampleRate float64
	size       int
	plan       *algofft.Plan[complex128]
	in         []complex128
	out        []complex128
	re         []float64
	im         []float64
}

// NewAnalyzer creates an analyzer for the given sample rate and FFT size.
func NewAnalyzer(sampleRate float64, fftSize int) (*Analyzer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: fft plan: %w", err)
	}

	bins := fftSize/2 + 1

	return &Analyzer{
		sampleRate: sampleRate,
		size:       fftSize,
		plan:       plan,
		in:         make([]complex128, fftSize),
		out:        make([]complex128, fftSize),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
	}, nil
}

// SampleRate returns the configured sample rate.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// FFTSize returns the transform length.
func (a *Analyzer) FFTSize() int { return a.size }

// Analyze returns the magnitude response of ir. Longer responses are
// truncated to the FFT size, shorter ones are zero padded.
func (a *Analyzer) Analyze(ir []float64) (Response, error) {
	if len(ir) == 0 {
		return Response{}, ErrEmptyIR
	}

	n := min(len(ir), a.size)
	for i := range a.in {
		if i < n {
			a.in[i] = complex(ir[i], 0)
		} else {
			a.in[i] = 0
		}
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return Response{}, fmt.Errorf("response: forward transform: %w", err)
	}

	for k := range a.re {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}

	mag := make([]float64, len(a.re))
	vecmath.Magnitude(mag, a.re, a.im)

	return Response{
		SampleRate: a.sampleRate,
		FFTSize:    a.size,
		Magnitude:  mag,
	}, nil
}

// Renderer is a stereo processor that can be driven with a unit impulse.
type Renderer interface {
	ProcessBlock(in, outL, outR []float64)
	Reset()
}

// Capture resets p and records its response to a unit impulse over n samples.
func Capture(p Renderer, n int) (left, right []float64, err error) {
	if n <= 0 {
		return nil, nil, ErrEmptyIR
	}

	in := make([]float64, n)
	in[0] = 1
	left = make([]float64, n)
	right = make([]float64, n)

	p.Reset()
	p.ProcessBlock(in, left, right)
	p.Reset()

	return left, right, nil
}
