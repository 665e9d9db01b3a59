// Package tap implements delay taps and the networks that combine them.
//
// A [Tap] reads one ring buffer at a fixed or oscillator-swept delay, writes
// either the raw input or the fed-back sum into it, and carries its own pan
// and volume. A [Cascade] chains two taps in a fixed order within one sample
// step. A [Network] runs any number of independent voices and sums their
// pan-weighted outputs into a stereo pair.
//
// Nothing in the per-sample path allocates or returns an error. Every
// configuration problem is reported by the constructors.
package tap
