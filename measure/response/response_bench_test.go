package response

import (
	"testing"

	"github.com/cwbudde/algo-tapfx/internal/testutil"
)

func BenchmarkAnalyze(b *testing.B) {
	a, err := NewAnalyzer(48000, 8192)
	if err != nil {
		b.Fatal(err)
	}

	ir := testutil.EchoTrain(8192, 0, 4800, 8192, 0.6)

	b.ResetTimer()

	for b.Loop() {
		if _, err := a.Analyze(ir); err != nil {
			b.Fatal(err)
		}
	}
}
