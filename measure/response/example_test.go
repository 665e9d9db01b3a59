package response_test

import (
	"fmt"

	"github.com/cwbudde/algo-tapfx/measure/response"
)

func ExampleAnalyzer_Analyze() {
	// Feedback comb: 4 sample delay at 0.5 gain.
	ir := make([]float64, 64)
	for i, amp := 0, 1.0; i < len(ir); i, amp = i+4, amp*0.5 {
		ir[i] = amp
	}

	a, err := response.NewAnalyzer(64, 64)
	if err != nil {
		panic(err)
	}

	r, err := a.Analyze(ir)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.2f %.2f %.2f\n", r.Magnitude[0], r.Magnitude[8], r.Magnitude[16])
	// Output: 2.00 0.67 2.00
}
