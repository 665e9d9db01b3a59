package mix

import "testing"

func BenchmarkMixBlock(b *testing.B) {
	const n = 256
	m, err := New(0.5, 0.85)
	if err != nil {
		b.Fatal(err)
	}
	m.Prepare(n)
	dry := make([]float64, n)
	wetL := make([]float64, n)
	wetR := make([]float64, n)
	dstL := make([]float64, n)
	dstR := make([]float64, n)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.MixBlock(dstL, dstR, dry, wetL, wetR)
	}
}
