package delay_test

import (
	"fmt"

	"github.com/cwbudde/algo-tapfx/dsp/delay"
)

func ExampleRingBuffer_ReadInterpolated() {
	r, err := delay.New(8)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, s := range []float64{1, 2, 3, 4} {
		r.Write(s)
	}

	fmt.Println(r.ReadInterpolated(1), r.ReadInterpolated(2), r.ReadInterpolated(1.5))

	// Output:
	// 4 3 3.5
}
