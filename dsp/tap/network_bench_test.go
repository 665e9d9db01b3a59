package tap

import (
	"testing"

	"github.com/cwbudde/algo-tapfx/dsp/delay"
	"github.com/cwbudde/algo-tapfx/dsp/osc"
)

func BenchmarkNetworkEightModulatedTaps(b *testing.B) {
	lfo, err := osc.NewTable(48000)
	if err != nil {
		b.Fatal(err)
	}
	voices := make([]Voice, 8)
	for i := range voices {
		ring, err := delay.NewForDuration(1, 48000)
		if err != nil {
			b.Fatal(err)
		}
		tp, err := New(ring,
			WithDelay(float64(1000*(i+1))),
			WithModulation(lfo, 200, 2),
			WithFeedback(0.4),
			WithPan(PanAt(float64(i%3-1))),
		)
		if err != nil {
			b.Fatal(err)
		}
		voices[i] = tp
	}
	nw, err := NewNetwork(voices...)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		nw.ProcessSample(0.1, uint64(i))
	}
}
