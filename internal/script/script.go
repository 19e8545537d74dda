// Package script defines the boundary between the editor core and the
// embedded scripting interpreter. The interpreter itself lives outside
// this module; this package only specifies the interface a real
// interpreter must satisfy to plug into the scheduler as a task body
// (the core calls an interface, never a concrete interpreter type;
// compare buffer.FileBackend).
package script

import (
	"context"

	"badred/internal/redcall"
)

// CallbackId names a script-side callback by an opaque handle the core
// never interprets.
type CallbackId uint64

// Call is how a running script body issues one RedCall and blocks for
// its response. It has the same underlying type as scheduler.Call, so a
// scheduler.Call converts to it directly; a scheduler.Body that runs an
// Engine method is still a small closure supplying src or id and arg.
type Call func(req redcall.Request) redcall.Response

// Engine runs script source or invokes a previously registered callback,
// using Call to talk to the editor core. A real embedded interpreter
// (e.g. an embedded Lua or Starlark VM) implements this by compiling
// scripts, or looking up a CallbackId in its own registry, and running
// the corresponding script-side function, translating every core access
// the script makes into a Call.
type Engine interface {
	// RunSource compiles and executes src as a new script task body, with
	// arg passed to the script as the hook payload when it was spawned in
	// response to an event (nil otherwise).
	RunSource(ctx context.Context, src string, arg any, call Call) (result any, err error)

	// RunCallback invokes a previously registered callback by id, passing
	// arg as its single argument (the hook payload when spawned in
	// response to an event).
	RunCallback(ctx context.Context, id CallbackId, arg any, call Call) (result any, err error)
}
