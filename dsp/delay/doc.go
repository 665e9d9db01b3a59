// Package delay provides the fixed-capacity circular sample store that every
// tap reads from and writes to.
//
// A [RingBuffer] is sized once at setup and never reallocated. Exactly one
// sample is written per processing step, and every read offset is resolved
// modulo the capacity, so no read can index outside the backing slice.
package delay
