// Package ir analyzes impulse responses rendered through a tap network.
//
// An impulse fed through a feedback delay comes back as a train of discrete
// echoes. The analyzer locates those echoes, estimates their spacing and the
// per-repeat gain, and derives the decay time of the tail from the Schroeder
// backward integral:
//
//   - Echoes: peak index, time and signed amplitude of each repeat
//   - Period: mean spacing between consecutive echoes
//   - DecayRatio: geometric mean of the echo-to-echo amplitude ratio
//   - T20, T30, RT60: decay time extrapolated to -60 dB
//
// # Usage
//
//	analyzer := ir.NewAnalyzer(48000)
//	metrics, err := analyzer.Analyze(impulseResponse)
//	fmt.Printf("period = %.3f s, feedback = %.2f\n", metrics.Period, metrics.DecayRatio)
package ir
