//go:build headless

package playback

import (
	"fmt"
	"time"
)

// drainOutput consumes frames at the device rate without producing sound.
type drainOutput struct {
	stop chan struct{}
	done chan struct{}
}

func (d *drainOutput) Close() error {
	close(d.stop)
	<-d.done
	return nil
}

// Open returns a Sink whose frames are consumed in real time and discarded.
func Open(sampleRate int, opts ...Option) (*Sink, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("playback: sample rate must be > 0: %d", sampleRate)
	}
	s := newSink(applyOptions(sampleRate, opts))

	const tick = 10 * time.Millisecond
	buf := make([]byte, bytesPerFrame*sampleRate/100)
	d := &drainOutput{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(d.done)
		t := time.NewTicker(tick)
		defer t.Stop()
		for {
			select {
			case <-d.stop:
				return
			case <-t.C:
				_, _ = s.Read(buf)
			}
		}
	}()
	s.out = d
	return s, nil
}
