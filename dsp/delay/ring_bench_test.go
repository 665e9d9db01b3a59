package delay

import (
	"testing"

	"github.com/cwbudde/algo-tapfx/dsp/interp"
)

func BenchmarkReadInterpolatedLinear(b *testing.B) {
	r, _ := New(48002)
	fillRamp(r)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r.ReadInterpolated(1200.37)
		r.Write(float64(i))
	}
}

func BenchmarkReadInterpolatedHermite(b *testing.B) {
	r, _ := New(48002, WithMode(interp.Hermite))
	fillRamp(r)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r.ReadInterpolated(1200.37)
		r.Write(float64(i))
	}
}
