// Package automation drives effect parameters from a Lua script.
//
// A script may define
//
//	function on_block(block, seconds) ... end
//
// which runs before every engine block. The script sees these globals:
//
//	set(name, value)  -- writes a parameter, returns the stored value
//	get(name)         -- reads a parameter
//	params()          -- array of parameter names
//	log(message)      -- writes an info log line
//	sample_rate       -- processing rate in Hz
//
// Scripts run on the engine's host loop between blocks, never inside one.
package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/algo-tapfx/dsp/params"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	lua "github.com/yuin/gopher-lua"
)

// ErrTimeout is returned when a script call exceeds its budget.
var ErrTimeout = errors.New("automation: script call timed out")

const hookName = "on_block"

// Script is a loaded automation script. It is not safe for concurrent use.
type Script struct {
	name    string
	state   *lua.LState
	surface *params.Surface
	onBlock *lua.LFunction
	budget  time.Duration
	calls   uint64
}

// Option configures a Script.
type Option func(*Script)

// WithBudget limits the wall time of each on_block call.
func WithBudget(d time.Duration) Option {
	return func(s *Script) {
		if d > 0 {
			s.budget = d
		}
	}
}

// Load reads path from fs and runs its top level.
func Load(fs afero.Fs, path string, surface *params.Surface, sampleRate float64, opts ...Option) (*Script, error) {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("automation: read %s: %w", path, err)
	}
	return New(path, string(src), surface, sampleRate, opts...)
}

// New compiles and runs source. name is used in error messages.
func New(name, source string, surface *params.Surface, sampleRate float64, opts ...Option) (*Script, error) {
	if surface == nil {
		return nil, errors.New("automation: nil parameter surface")
	}
	s := &Script{
		name:    name,
		state:   lua.NewState(),
		surface: surface,
		budget:  50 * time.Millisecond,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	L := s.state
	L.SetGlobal("set", L.NewFunction(s.luaSet))
	L.SetGlobal("get", L.NewFunction(s.luaGet))
	L.SetGlobal("params", L.NewFunction(s.luaParams))
	L.SetGlobal("log", L.NewFunction(s.luaLog))
	L.SetGlobal("sample_rate", lua.LNumber(sampleRate))

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("automation: %s: %w", name, err)
	}
	if fn, ok := L.GetGlobal(hookName).(*lua.LFunction); ok {
		s.onBlock = fn
	}

	logrus.WithFields(logrus.Fields{
		"function": "New",
		"script":   name,
		"on_block": s.onBlock != nil,
	}).Info("Automation script loaded")
	return s, nil
}

// HasHook reports whether the script defines on_block.
func (s *Script) HasHook() bool { return s.onBlock != nil }

// Calls returns how many times on_block ran.
func (s *Script) Calls() uint64 { return s.calls }

// OnBlock runs on_block(block, seconds). It has the signature of
// engine.BlockHook.
func (s *Script) OnBlock(block uint64, seconds float64) error {
	if s.onBlock == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.budget)
	defer cancel()
	s.state.SetContext(ctx)
	defer s.state.RemoveContext()

	s.calls++
	err := s.state.CallByParam(lua.P{
		Fn:      s.onBlock,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(block), lua.LNumber(seconds))
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s: block %d", ErrTimeout, s.name, block)
		}
		return fmt.Errorf("automation: %s: block %d: %w", s.name, block, err)
	}
	return nil
}

// Close releases the interpreter.
func (s *Script) Close() {
	s.state.Close()
}

func (s *Script) luaSet(L *lua.LState) int {
	name := L.CheckString(1)
	v := float64(L.CheckNumber(2))
	applied, err := s.surface.Set(name, v)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(applied))
	return 1
}

func (s *Script) luaGet(L *lua.LState) int {
	name := L.CheckString(1)
	v, err := s.surface.Get(name)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (s *Script) luaParams(L *lua.LState) int {
	t := L.NewTable()
	for _, name := range s.surface.Names() {
		t.Append(lua.LString(name))
	}
	L.Push(t)
	return 1
}

func (s *Script) luaLog(L *lua.LState) int {
	logrus.WithFields(logrus.Fields{
		"function": "log",
		"script":   s.name,
	}).Info(L.CheckString(1))
	return 0
}
