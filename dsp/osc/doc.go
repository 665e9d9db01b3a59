// Package osc provides a precomputed low-frequency oscillator table used to
// sweep tap delays over time.
//
// The table holds one period of the waveform sampled at the processing rate,
// so it has exactly one entry per sample of a 1 Hz cycle. A frequency f is
// read by scaling the sample index: index = int(n*f) mod len(table). Building
// the table once trades memory for per-sample trigonometry.
package osc
