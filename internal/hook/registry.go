// Package hook implements the editor's named extension points: a map
// from hook kind to an ordered list of callback registrations,
// dispatched FIFO per kind.
package hook

// Kind names a hook extension point. The set is closed.
type Kind string

const (
	KeyEvent        Kind = "key_event"
	BufferFileLinked Kind = "buffer_file_linked"
	PaneClosed      Kind = "pane_closed"
	Error           Kind = "error"
	SecondaryError  Kind = "secondary_error"

	// FileChangedOnDisk fires when a linked file's content changes
	// underneath the editor, reported by the fileio watcher.
	FileChangedOnDisk Kind = "file_changed_on_disk"
)

// CallbackHandle identifies a script-side callback. It is opaque to the
// core; the script engine is the only party that interprets it.
type CallbackHandle uint64

// ScopeId optionally restricts a registration to a single subject id (for
// example a PaneId for pane_closed). Registrations without a scope fire
// for every event of their kind.
type ScopeId uint32

// Registration is one entry in a hook kind's ordered callback list.
type Registration struct {
	Callback CallbackHandle
	Scope    ScopeId
	Scoped   bool
}

// Registry owns the hook → ordered-callback-list map. It is exclusively
// owned by editor state, mirroring buffer and pane ownership.
type Registry struct {
	callbacks map[Kind][]Registration
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{callbacks: map[Kind][]Registration{}}
}

// Set appends a callback to kind's list, unscoped. Registration order
// is preserved: callbacks fire FIFO per kind.
func (r *Registry) Set(kind Kind, cb CallbackHandle) {
	r.callbacks[kind] = append(r.callbacks[kind], Registration{Callback: cb})
}

// SetScoped appends a callback to kind's list, bound to scope. Used for
// one-shot subject-bound registrations such as
// set_hook("pane_closed", cb, id).
func (r *Registry) SetScoped(kind Kind, cb CallbackHandle, scope ScopeId) {
	r.callbacks[kind] = append(r.callbacks[kind], Registration{Callback: cb, Scope: scope, Scoped: true})
}

// Matching returns, in registration order, every callback registered for
// kind that either is unscoped or whose scope equals scope.
func (r *Registry) Matching(kind Kind, scope ScopeId) []CallbackHandle {
	var out []CallbackHandle
	for _, reg := range r.callbacks[kind] {
		if !reg.Scoped || reg.Scope == scope {
			out = append(out, reg.Callback)
		}
	}
	return out
}

// All returns every callback registered for kind, in registration order,
// regardless of scope. Used for kinds that are never scoped (key_event,
// error, secondary_error, buffer_file_linked).
func (r *Registry) All(kind Kind) []CallbackHandle {
	regs := r.callbacks[kind]
	out := make([]CallbackHandle, len(regs))
	for i, reg := range regs {
		out[i] = reg.Callback
	}
	return out
}

// InvalidateScope drops every registration scoped to id. Called when a
// pane (or other scoped subject) is closed and its id becomes invalid,
// so a stale id can never again match a future event.
func (r *Registry) InvalidateScope(kind Kind, scope ScopeId) {
	regs := r.callbacks[kind]
	kept := regs[:0]
	for _, reg := range regs {
		if reg.Scoped && reg.Scope == scope {
			continue
		}
		kept = append(kept, reg)
	}
	r.callbacks[kind] = kept
}
