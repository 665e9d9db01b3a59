package tap_test

import (
	"fmt"

	"github.com/cwbudde/algo-tapfx/dsp/delay"
	"github.com/cwbudde/algo-tapfx/dsp/tap"
)

func ExampleNetwork() {
	ring, err := delay.New(8)
	if err != nil {
		panic(err)
	}
	echo, err := tap.New(ring, tap.WithDelay(2), tap.WithFeedback(0.5), tap.WithPan(tap.HardLeft))
	if err != nil {
		panic(err)
	}
	nw, err := tap.NewNetwork(echo)
	if err != nil {
		panic(err)
	}

	in := []float64{1, 0, 0, 0, 0, 0, 0}
	for n, x := range in {
		l, r := nw.ProcessSample(x, uint64(n))
		fmt.Printf("%.2f/%.2f ", l, r)
	}
	fmt.Println()
	// Output: 0.00/0.00 0.00/0.00 1.00/0.00 0.00/0.00 0.50/0.00 0.00/0.00 0.25/0.00
}
