// Package interp provides the fractional-read kernels used by the ring buffers
// behind every delay tap.
//
// Available methods:
//
//   - [Linear2]:  2-point linear interpolation (the default read path)
//   - [Hermite4]: 4-point cubic Hermite (smoother sweeps at a higher cost)
//
// The [Mode] enum selects the kernel when a [delay.RingBuffer] is built.
package interp
