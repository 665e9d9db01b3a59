// Package params implements the control surface of an effect: named
// parameters with a range, a step and a default value.
//
// A Param may be written from any goroutine while the audio goroutine reads
// it; both sides are a single atomic operation. Processing code loads every
// parameter once per block and works from those plain values.
package params
