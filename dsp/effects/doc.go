// Package effects assembles the tap engine into ready-to-run stereo
// effects.
//
// Effects in this package:
//   - MultiFX: chorus, then a feedback delay, then a stereo width stage.
//   - MultiTap: eight two-stage cascades panned across the stereo field.
//
// Each effect publishes its controls on a params.Surface. ProcessBlock loads
// every control once at the start of the block; the per-sample path does not
// allocate or lock.
package effects
