//go:build headless

package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlessOpenConsumesFrames(t *testing.T) {
	s, err := Open(1000, WithLatency(20*time.Millisecond))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.WriteBlock(make([]float64, 50), make([]float64, 50)))
	s.Drain()
	assert.Zero(t, s.Buffered())
}

func TestHeadlessOpenRejectsRate(t *testing.T) {
	_, err := Open(0)
	assert.Error(t, err)
}
