package osc

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSampleRate is returned when the table would have no entries.
var ErrInvalidSampleRate = errors.New("osc: sample rate must be >= 1")

// Waveform selects the periodic shape stored in a Table.
type Waveform int

const (
	// Sine stores sin(2*pi*n/len).
	Sine Waveform = iota
	// Triangle stores a unit-amplitude triangle aligned in phase with Sine.
	Triangle
)

// String returns the config-file spelling of the waveform.
func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	default:
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
}

// ParseWaveform maps a config-file name to a Waveform. The empty string means Sine.
func ParseWaveform(name string) (Waveform, error) {
	switch name {
	case "", "sine":
		return Sine, nil
	case "triangle":
		return Triangle, nil
	default:
		return Sine, fmt.Errorf("osc: unknown waveform %q", name)
	}
}

// Table is an immutable single-period lookup table. It is safe to share
// between any number of taps and goroutines.
type Table struct {
	values   []float64
	waveform Waveform
}

// NewTable builds a sine table for sampleRate.
func NewTable(sampleRate float64) (*Table, error) {
	return NewTableWaveform(sampleRate, Sine)
}

// NewTableWaveform builds a table of the given waveform for sampleRate.
func NewTableWaveform(sampleRate float64, waveform Waveform) (*Table, error) {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || int(sampleRate) < 1 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	size := int(sampleRate)
	values := make([]float64, size)
	for n := range values {
		phase := 2 * math.Pi * float64(n) / sampleRate
		switch waveform {
		case Triangle:
			values[n] = triangle(phase)
		default:
			values[n] = math.Sin(phase)
		}
	}
	return &Table{values: values, waveform: waveform}, nil
}

// Len returns the number of entries, equal to the integer sample rate.
func (t *Table) Len() int {
	return len(t.values)
}

// Waveform returns the stored shape.
func (t *Table) Waveform() Waveform {
	return t.waveform
}

// At returns the raw table entry at index, wrapped into range.
func (t *Table) At(index int) float64 {
	size := len(t.values)
	index %= size
	if index < 0 {
		index += size
	}
	return t.values[index]
}

// ValueAt returns the oscillator value at sampleIndex for frequency in Hz.
// The product is truncated to an integer phase position. A frequency of 0
// yields the constant table[0]; abrupt frequency changes may jump in phase.
func (t *Table) ValueAt(sampleIndex uint64, frequency float64) float64 {
	size := int64(len(t.values))
	pos := int64(float64(sampleIndex)*frequency) % size
	if pos < 0 {
		pos += size
	}
	return t.values[pos]
}

// triangle maps a phase in [0, 2*pi) to [-1, 1], rising through zero at 0
// like a sine.
func triangle(phase float64) float64 {
	x := phase / (2 * math.Pi) // 0..1
	switch {
	case x < 0.25:
		return 4 * x
	case x < 0.75:
		return 2 - 4*x
	default:
		return 4*x - 4
	}
}
