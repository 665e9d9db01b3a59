package params

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		ok   bool
	}{
		{name: "valid", spec: Spec{Name: "a", Min: 0, Max: 1, Default: 0.5}, ok: true},
		{name: "empty name", spec: Spec{Min: 0, Max: 1}},
		{name: "inverted", spec: Spec{Name: "a", Min: 2, Max: 1}},
		{name: "negative step", spec: Spec{Name: "a", Min: 0, Max: 1, Step: -1}},
		{name: "nan bound", spec: Spec{Name: "a", Min: math.NaN(), Max: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSetClampsAndQuantizes(t *testing.T) {
	s := NewSurface()
	rate := s.MustRegister(Spec{Name: "rate", Min: 1, Max: 3, Step: 1, Default: 2, Unit: "Hz"})
	fb := s.MustRegister(Spec{Name: "feedback", Min: 0, Max: 0.95, Default: 0.5})

	tests := []struct {
		p    *Param
		in   float64
		want float64
	}{
		{p: rate, in: 2.4, want: 2},
		{p: rate, in: 2.6, want: 3},
		{p: rate, in: 10, want: 3},
		{p: rate, in: -4, want: 1},
		{p: fb, in: 0.333, want: 0.333},
		{p: fb, in: 1.2, want: 0.95},
		{p: fb, in: -0.1, want: 0},
	}
	for _, tc := range tests {
		if got := tc.p.Set(tc.in); got != tc.want {
			t.Fatalf("%s.Set(%v) = %v want %v", tc.p.Name(), tc.in, got, tc.want)
		}
		if got := tc.p.Load(); got != tc.want {
			t.Fatalf("%s.Load() = %v want %v", tc.p.Name(), got, tc.want)
		}
	}
}

func TestSetIgnoresNaN(t *testing.T) {
	s := NewSurface()
	p := s.MustRegister(Spec{Name: "x", Min: 0, Max: 1, Default: 0.25})
	if got := p.Set(math.NaN()); got != 0.25 {
		t.Fatalf("got %v want 0.25", got)
	}
}

func TestDefaultsAndReset(t *testing.T) {
	s := NewSurface()
	on := s.MustRegister(Spec{Name: "on", Min: 0, Max: 1, Step: 1, Default: 1})
	tm := s.MustRegister(Spec{Name: "time", Min: 0, Max: 1000, Step: 1, Default: 375})
	if !on.On() || tm.Load() != 375 {
		t.Fatalf("defaults not applied: on=%v time=%v", on.Load(), tm.Load())
	}
	on.Set(0)
	tm.Set(10)
	s.ResetAll()
	if !on.On() || tm.Load() != 375 {
		t.Fatalf("reset failed: on=%v time=%v", on.Load(), tm.Load())
	}
}

func TestRegisterErrors(t *testing.T) {
	s := NewSurface()
	if _, err := s.Register(Spec{Name: "a", Max: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Register(Spec{Name: "a", Max: 1}); !errors.Is(err, errDuplicateParam) {
		t.Fatalf("got %v want duplicate error", err)
	}
	if _, err := s.Register(Spec{Name: "", Max: 1}); err == nil {
		t.Fatal("expected error for empty name")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("MustRegister should panic on duplicate")
		}
	}()
	s.MustRegister(Spec{Name: "a", Max: 1})
}

func TestSurfaceLookupAndSet(t *testing.T) {
	s := NewSurface()
	if err := s.RegisterAll([]Spec{
		{Name: "b", Max: 10, Default: 1},
		{Name: "a", Max: 10, Default: 2},
	}); err != nil {
		t.Fatal(err)
	}

	if got := s.Names(); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("names not in registration order: %v", got)
	}
	if s.Lookup("missing") != nil {
		t.Fatal("Lookup of unknown name should be nil")
	}
	if _, err := s.Set("missing", 1); !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("got %v want ErrUnknownParam", err)
	}
	if _, err := s.Get("missing"); !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("got %v want ErrUnknownParam", err)
	}

	if v, err := s.Set("a", 20); err != nil || v != 10 {
		t.Fatalf("Set = (%v, %v) want (10, nil)", v, err)
	}
	if v, err := s.Get("a"); err != nil || v != 10 {
		t.Fatalf("Get = (%v, %v) want (10, nil)", v, err)
	}

	snap := s.Snapshot(nil)
	if len(snap) != 2 || snap[0] != 1 || snap[1] != 10 {
		t.Fatalf("snapshot = %v", snap)
	}
	buf := make([]float64, 0, 8)
	if again := s.Snapshot(buf); &again[0] != &buf[:1][0] {
		t.Fatal("snapshot should reuse dst capacity")
	}

	vals := s.Values()
	if vals["a"] != 10 || vals["b"] != 1 {
		t.Fatalf("values = %v", vals)
	}
	if specs := s.Specs(); specs[1].Name != "a" || specs[1].Max != 10 {
		t.Fatalf("specs = %+v", specs)
	}
}

func TestConcurrentSetLoad(t *testing.T) {
	s := NewSurface()
	p := s.MustRegister(Spec{Name: "depth", Min: 0, Max: 1, Default: 0})

	const writes = 10000
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			p.Set(float64(i%2) * 0.75)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			if v := p.Load(); v != 0 && v != 0.75 {
				t.Errorf("torn read: %v", v)
				return
			}
		}
	}()
	wg.Wait()
}
