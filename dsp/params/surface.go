package params

import (
	"errors"
	"fmt"
)

// ErrUnknownParam is returned for names that were never registered.
var ErrUnknownParam = errors.New("params: unknown parameter")

var errDuplicateParam = errors.New("duplicate parameter")

// Surface is an ordered set of parameters. Registration happens at setup,
// before the surface is shared; afterwards any goroutine may Set and Load.
type Surface struct {
	order  []*Param
	byName map[string]*Param
}

// NewSurface creates an empty surface.
func NewSurface() *Surface {
	return &Surface{byName: make(map[string]*Param)}
}

// Register adds a parameter initialised to its default.
func (s *Surface) Register(spec Spec) (*Param, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if _, exists := s.byName[spec.Name]; exists {
		return nil, fmt.Errorf("params: %w: %s", errDuplicateParam, spec.Name)
	}

	p := newParam(spec)
	s.order = append(s.order, p)
	s.byName[spec.Name] = p
	return p, nil
}

// MustRegister is like Register but panics on error.
func (s *Surface) MustRegister(spec Spec) *Param {
	p, err := s.Register(spec)
	if err != nil {
		panic(err.Error())
	}
	return p
}

// RegisterAll registers specs in order and stops at the first error.
func (s *Surface) RegisterAll(specs []Spec) error {
	for _, spec := range specs {
		if _, err := s.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the named parameter, or nil.
func (s *Surface) Lookup(name string) *Param {
	return s.byName[name]
}

// Set writes the named parameter and returns the stored value.
func (s *Surface) Set(name string, v float64) (float64, error) {
	p := s.byName[name]
	if p == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return p.Set(v), nil
}

// Get reads the named parameter.
func (s *Surface) Get(name string) (float64, error) {
	p := s.byName[name]
	if p == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return p.Load(), nil
}

// Len returns the number of parameters.
func (s *Surface) Len() int { return len(s.order) }

// Names returns the parameter names in registration order.
func (s *Surface) Names() []string {
	names := make([]string, len(s.order))
	for i, p := range s.order {
		names[i] = p.spec.Name
	}
	return names
}

// Specs returns the parameter specs in registration order.
func (s *Surface) Specs() []Spec {
	specs := make([]Spec, len(s.order))
	for i, p := range s.order {
		specs[i] = p.spec
	}
	return specs
}

// Snapshot loads every value into dst in registration order, growing dst only
// when it is too short.
func (s *Surface) Snapshot(dst []float64) []float64 {
	if cap(dst) < len(s.order) {
		dst = make([]float64, len(s.order))
	}
	dst = dst[:len(s.order)]
	for i, p := range s.order {
		dst[i] = p.Load()
	}
	return dst
}

// Values returns the current values keyed by name.
func (s *Surface) Values() map[string]float64 {
	out := make(map[string]float64, len(s.order))
	for _, p := range s.order {
		out[p.spec.Name] = p.Load()
	}
	return out
}

// ResetAll restores every default.
func (s *Surface) ResetAll() {
	for _, p := range s.order {
		p.Reset()
	}
}
