//go:build !headless

package playback

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
)

type otoOutput struct {
	player *oto.Player
}

func (o *otoOutput) Close() error {
	return o.player.Close()
}

// Open starts playback on the default device. Only one Sink may be open per
// process.
func Open(sampleRate int, opts ...Option) (*Sink, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("playback: sample rate must be > 0: %d", sampleRate)
	}
	o := applyOptions(sampleRate, opts)

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   o.Latency / 2,
	})
	if err != nil {
		return nil, fmt.Errorf("playback: open device: %w", err)
	}
	<-ready

	s := newSink(o)
	player := ctx.NewPlayer(s)
	player.Play()
	s.out = &otoOutput{player: player}

	logrus.WithFields(logrus.Fields{
		"function":    "Open",
		"sample_rate": sampleRate,
		"latency":     o.Latency.String(),
		"ring_frames": s.ring.size,
	}).Info("Playback device opened")
	return s, nil
}
