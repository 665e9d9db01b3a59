// Package playback plays engine output on the default audio device.
//
// The engine pushes blocks with WriteBlock; the device pulls interleaved
// float32 frames through Read. A single-producer single-consumer ring sits
// in between. Read never blocks: on underrun it outputs silence. WriteBlock
// waits while the ring is full, which paces the engine at device speed.
//
// Building with the headless tag replaces the device with a drain that
// consumes frames at the same rate.
package playback
