package testutil

import (
	"testing"
)

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if a[i] < -1 || a[i] > 1 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}
}

func TestDeterministicNoiseDifferentSeeds(t *testing.T) {
	a := DeterministicNoise(1, 1.0, 16)
	b := DeterministicNoise(2, 1.0, 16)
	if d, _ := MaxAbsDiff(a, b); d == 0 {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestImpulse(t *testing.T) {
	RequireSparse(t, Impulse(8, 3), map[int]float64{3: 1}, 0)
	RequireSparse(t, Impulse(4, 10), nil, 0)
}

func TestEchoTrain(t *testing.T) {
	got := EchoTrain(40, 5, 10, 3, 0.5)
	RequireSparse(t, got, map[int]float64{5: 1, 15: 0.5, 25: 0.25}, 0)

	// Echoes past the end are dropped.
	got = EchoTrain(20, 5, 10, 5, 0.5)
	RequireSparse(t, got, map[int]float64{5: 1, 15: 0.5}, 0)

	RequireSparse(t, EchoTrain(8, 0, 0, 3, 0.5), nil, 0)
}
