// Package fake provides a deterministic script.Engine for tests and for
// the run_script smoke driver: source strings and callback ids are
// resolved against Go functions registered ahead of time, rather than
// compiled by a real interpreter. It stands in for an embedded
// interpreter the same way buffer's in-memory file backend stands in
// for real disk I/O in tests.
package fake

import (
	"context"
	"fmt"

	"badred/internal/script"
)

// Func is a script body implemented directly in Go.
type Func func(ctx context.Context, arg any, call script.Call) (any, error)

// Engine is a script.Engine backed by registered Go functions.
type Engine struct {
	sources   map[string]Func
	callbacks map[script.CallbackId]Func
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{
		sources:   map[string]Func{},
		callbacks: map[script.CallbackId]Func{},
	}
}

// RegisterSource binds a literal source string to fn, so RunSource(src)
// invokes fn directly instead of parsing src.
func (e *Engine) RegisterSource(src string, fn Func) {
	e.sources[src] = fn
}

// RegisterCallback binds id to fn.
func (e *Engine) RegisterCallback(id script.CallbackId, fn Func) {
	e.callbacks[id] = fn
}

// RunSource implements script.Engine.
func (e *Engine) RunSource(ctx context.Context, src string, arg any, call script.Call) (any, error) {
	fn, ok := e.sources[src]
	if !ok {
		return nil, fmt.Errorf("fake engine: no script registered for source %q", src)
	}
	return fn(ctx, arg, call)
}

// RunCallback implements script.Engine.
func (e *Engine) RunCallback(ctx context.Context, id script.CallbackId, arg any, call script.Call) (any, error) {
	fn, ok := e.callbacks[id]
	if !ok {
		return nil, fmt.Errorf("fake engine: no callback registered for id %d", id)
	}
	return fn(ctx, arg, call)
}
