package params_test

import (
	"fmt"

	"github.com/cwbudde/algo-tapfx/dsp/params"
)

func ExampleSurface() {
	s := params.NewSurface()
	s.MustRegister(params.Spec{Name: "delay.time", Min: 0, Max: 1000, Step: 1, Default: 375, Unit: "ms"})

	v, err := s.Set("delay.time", 412.6)
	if err != nil {
		panic(err)
	}
	fmt.Println(v)

	_, err = s.Set("delay.tim", 1)
	fmt.Println(err)
	// Output:
	// 413
	// params: unknown parameter: "delay.tim"
}
