// Package response computes the magnitude response of a tap network from its
// impulse response.
//
// A feedback delay of d samples is a comb filter: its response peaks every
// sampleRate/d Hz. The analyzer zero-pads the impulse response to the FFT
// size, runs a forward transform and keeps the non-negative frequency bins.
//
//	a, _ := response.NewAnalyzer(48000, 8192)
//	left, _ := response.Capture(fx, 8192)
//	r, _ := a.Analyze(left)
//	fmt.Println(r.MagnitudeDB(r.Bin(1000)))
package response
