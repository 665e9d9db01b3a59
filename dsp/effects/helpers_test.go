package effects

import (
	"testing"

	"github.com/cwbudde/algo-tapfx/dsp/core"
)

// testRate keeps one millisecond equal to one sample.
const testRate = 1000

func testConfig(opts ...core.ProcessorOption) core.ProcessorConfig {
	return core.ApplyProcessorOptions(append([]core.ProcessorOption{core.WithSampleRate(testRate)}, opts...)...)
}

func mustSet(t testing.TB, p Processor, name string, v float64) {
	t.Helper()
	if _, err := p.Params().Set(name, v); err != nil {
		t.Fatalf("Set(%s, %v): %v", name, v, err)
	}
}

func render(p Processor, in []float64) (left, right []float64) {
	left = make([]float64, len(in))
	right = make([]float64, len(in))
	p.ProcessBlock(in, left, right)
	return left, right
}
