// Package wavio reads and writes WAV files for the engine.
//
// Source decodes a whole file into memory and serves it as mono blocks,
// averaging the channels. Sink writes 16-bit stereo PCM. Both open files
// through an afero filesystem.
package wavio
