package tap

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-tapfx/internal/testutil"
)

func TestCascadeRunsStagesInOrder(t *testing.T) {
	first, err := New(newRing(t, 64), WithDelay(10))
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(newRing(t, 64), WithDelay(20))
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewCascade(first, second)
	if err != nil {
		t.Fatal(err)
	}

	for n, x := range testutil.Impulse(64, 0) {
		got := c.Step(x, uint64(n))
		want := 0.0
		if n == 30 {
			want = 1
		}
		if got != want {
			t.Fatalf("sample %d: got %v want %v", n, got, want)
		}
	}
}

func TestCascadeStageMixPassesDryThrough(t *testing.T) {
	// First stage output = input + delayed(input); second adds its own echo
	// of that sum.
	first, err := New(newRing(t, 64), WithDelay(4), WithStageMix(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(newRing(t, 64), WithDelay(10), WithStageMix(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewCascade(first, second)
	if err != nil {
		t.Fatal(err)
	}

	want := map[int]float64{0: 1, 4: 1, 10: 1, 14: 1}
	for n, x := range testutil.Impulse(32, 0) {
		if got := c.Step(x, uint64(n)); got != want[n] {
			t.Fatalf("sample %d: got %v want %v", n, got, want[n])
		}
	}
}

func TestNewCascadeRejectsNil(t *testing.T) {
	tp, err := New(newRing(t, 8))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewCascade(tp, nil); err == nil {
		t.Fatal("expected error for nil stage")
	}
}

func TestNewNetworkValidation(t *testing.T) {
	if _, err := NewNetwork(); !errors.Is(err, ErrNoVoices) {
		t.Fatalf("got %v want ErrNoVoices", err)
	}
	tp, err := New(newRing(t, 8))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewNetwork(tp, nil); err == nil {
		t.Fatal("expected error for nil voice")
	}
}

func TestNetworkEchoTrainHardLeft(t *testing.T) {
	const (
		period = 100
		echoes = 6
	)
	tp, err := New(newRing(t, 256), WithDelay(period), WithFeedback(0.5), WithPan(HardLeft))
	if err != nil {
		t.Fatal(err)
	}
	nw, err := NewNetwork(tp)
	if err != nil {
		t.Fatal(err)
	}

	for n, x := range testutil.Impulse(period*echoes+1, 0) {
		l, r := nw.ProcessSample(x, uint64(n))
		if r != 0 {
			t.Fatalf("sample %d: right = %v, want 0", n, r)
		}
		want := 0.0
		if n > 0 && n%period == 0 {
			want = math.Pow(0.5, float64(n/period-1))
		}
		if l != want {
			t.Fatalf("sample %d: left = %v want %v", n, l, want)
		}
	}
}

func TestNetworkMutedVoiceContributesNothing(t *testing.T) {
	build := func(t *testing.T) (*Network, []*Tap) {
		t.Helper()
		taps := make([]*Tap, 8)
		voices := make([]Voice, 8)
		for i := range taps {
			pan := HardLeft
			if i%2 == 1 {
				pan = HardRight
			}
			tp, err := New(newRing(t, 512),
				WithDelay(float64(37*(i+1))),
				WithFeedback(0.1*float64(i%4)),
				WithPan(pan),
				WithVolume(1-0.05*float64(i)),
			)
			if err != nil {
				t.Fatal(err)
			}
			taps[i] = tp
			voices[i] = tp
		}
		nw, err := NewNetwork(voices...)
		if err != nil {
			t.Fatal(err)
		}
		return nw, taps
	}

	full, _ := build(t)
	muted, mutedTaps := build(t)
	solo, soloTaps := build(t)

	const target = 2 // a left-panned voice
	mutedTaps[target].Enabled = false
	for i, tp := range soloTaps {
		tp.Enabled = i == target
	}

	in := testutil.DeterministicNoise(7, 1, 4096)
	for n, x := range in {
		fl, fr := full.ProcessSample(x, uint64(n))
		ml, mr := muted.ProcessSample(x, uint64(n))
		sl, _ := solo.ProcessSample(x, uint64(n))

		if fr != mr {
			t.Fatalf("sample %d: right channel changed: %v vs %v", n, fr, mr)
		}
		if math.Abs((fl-ml)-sl) > 1e-12 {
			t.Fatalf("sample %d: left difference %v, want solo contribution %v", n, fl-ml, sl)
		}
	}
}

func TestNetworkOrderIndependent(t *testing.T) {
	mk := func(delay float64, pan Pan) *Tap {
		tp, err := New(newRing(t, 128), WithDelay(delay), WithFeedback(0.3), WithPan(pan))
		if err != nil {
			t.Fatal(err)
		}
		return tp
	}
	a, err := NewNetwork(mk(11, HardLeft), mk(29, HardRight))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewNetwork(mk(29, HardRight), mk(11, HardLeft))
	if err != nil {
		t.Fatal(err)
	}

	for n, x := range testutil.DeterministicNoise(3, 1, 1000) {
		al, ar := a.ProcessSample(x, uint64(n))
		bl, br := b.ProcessSample(x, uint64(n))
		if al != bl || ar != br {
			t.Fatalf("sample %d: (%v,%v) != (%v,%v)", n, al, ar, bl, br)
		}
	}
}

func TestNetworkReset(t *testing.T) {
	tp, err := New(newRing(t, 16), WithDelay(3))
	if err != nil {
		t.Fatal(err)
	}
	nw, err := NewNetwork(tp)
	if err != nil {
		t.Fatal(err)
	}
	nw.ProcessSample(1, 0)
	nw.Reset()
	for n := uint64(1); n < 8; n++ {
		if l, r := nw.ProcessSample(0, n); l != 0 || r != 0 {
			t.Fatalf("sample %d: history survived reset: (%v, %v)", n, l, r)
		}
	}
}
