package tap

import "errors"

// Cascade is a fixed two-stage pipeline: the first tap's output becomes the
// second tap's input within the same sample step. The first stage always runs
// before the second.
type Cascade struct {
	First  *Tap
	Second *Tap

	// Pan, Volume and Enabled apply to the cascade as a whole; the stages'
	// own pan settings are not used.
	Pan     Pan
	Volume  float64
	Enabled bool
}

// NewCascade chains first into second.
func NewCascade(first, second *Tap) (*Cascade, error) {
	if first == nil || second == nil {
		return nil, errors.New("tap: cascade stages must not be nil")
	}
	return &Cascade{
		First:   first,
		Second:  second,
		Pan:     Center,
		Volume:  1,
		Enabled: true,
	}, nil
}

// Step runs both stages in order and returns the second stage's output.
func (c *Cascade) Step(input float64, n uint64) float64 {
	a, _ := c.First.Process(input, n)
	b, _ := c.Second.Process(a, n)
	return b
}

// Gains returns the pan-weighted volume, or zero when the cascade is disabled.
func (c *Cascade) Gains() (left, right float64) {
	if !c.Enabled {
		return 0, 0
	}
	return c.Pan.Left * c.Volume, c.Pan.Right * c.Volume
}

// Reset clears both stages.
func (c *Cascade) Reset() {
	c.First.Reset()
	c.Second.Reset()
}
