// Package editor owns the global aggregate: buffer and file tables, the
// pane tree, hook registry, keymap tree, options, and the RedCall
// dispatch table that is the only path into any of it. One State is
// created at startup and torn down at exit; every mutation of the
// buffer, file, pane, hook and options tables routes through
// redcall.Dispatcher.Execute.
package editor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"badred/internal/buffer"
	"badred/internal/config"
	"badred/internal/editorerr"
	"badred/internal/hook"
	"badred/internal/keymap"
	"badred/internal/paneset"
	"badred/internal/redcall"
	"badred/internal/scheduler"
	"badred/internal/script"
	"badred/internal/storage"
)

// TextStyle is the opaque style record set_text_style registers; the
// core stores it but never interprets bg/fg itself; rendering belongs
// to the external styling engine.
type TextStyle struct {
	Background string
	Foreground string
}

// Trace observes one completed RedCall round trip, the payload the
// optional debug bridge mirrors. A nil Tracer means no one is listening.
type Tracer interface {
	Broadcast(taskID uint64, req redcall.Request, resp redcall.Response)
}

// FileWatcher tracks linked file paths for external modification, the
// seam fileio.Watcher plugs into. A nil watcher disables tracking.
type FileWatcher interface {
	Watch(path string) error
	Unwatch(path string)
}

// State is BadRed's single owned aggregate. Every field is mutated only
// from within a RedCall handler, State's own constructor/wiring code, or
// the event-loop entry points (HandleKeyEvent, Resize, and the
// scheduler's OnDone callback), all on the one event-loop goroutine;
// between those calls the state is quiescent, so no locks are needed
// anywhere in the core.
type State struct {
	SessionId uuid.UUID

	buffers      map[buffer.Id]*buffer.Buffer
	nextBufferID buffer.Id

	files      map[buffer.FileId]string
	nextFileID buffer.FileId

	panes     *paneset.Tree
	rootFrame paneset.Frame

	hooks *hook.Registry

	keys        *keymap.Tree
	keysCurrent keymap.NodeId

	styles map[string]TextStyle

	// errorHookTasks and secondaryErrorHookTasks mark task ids spawned to
	// run error/secondary_error hook callbacks, so handleTaskDone can tell
	// "a script task faulted" (fire the error hook) apart from "the error
	// hook's own callback faulted" (fire secondary_error instead) from
	// "the secondary_error callback itself faulted" (no tertiary hook
	// exists beyond that, so it is dropped).
	errorHookTasks          map[scheduler.TaskId]bool
	secondaryErrorHookTasks map[scheduler.TaskId]bool

	options config.Options

	exitRequested bool

	fileBackend buffer.FileBackend
	watcher     FileWatcher
	engine      script.Engine

	Scheduler  *scheduler.Scheduler
	Dispatcher *redcall.Dispatcher

	Tracer Tracer

	Logger *slog.Logger
}

// Deps bundles State's external collaborators: the concrete file I/O
// and script engine implementations the core delegates to, chosen by
// the caller; both cmd/badred and the tests wire the deterministic
// script/fake engine.
type Deps struct {
	FileBackend buffer.FileBackend
	Watcher     FileWatcher
	Engine      script.Engine
	Options     config.Options
	Logger      *slog.Logger
}

// New creates a fully wired State: one leaf pane over one empty naive
// buffer, a RedCall dispatcher with every variant registered, and a
// keymap root whose default handler echoes unmapped keys into the
// active buffer.
func New(deps Deps) *State {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := &State{
		SessionId:               uuid.New(),
		buffers:                 map[buffer.Id]*buffer.Buffer{},
		files:                   map[buffer.FileId]string{},
		hooks:                   hook.New(),
		styles:                  map[string]TextStyle{},
		errorHookTasks:          map[scheduler.TaskId]bool{},
		secondaryErrorHookTasks: map[scheduler.TaskId]bool{},
		options:                 deps.Options,
		fileBackend:             deps.FileBackend,
		watcher:                 deps.Watcher,
		engine:                  deps.Engine,
		Logger:                  deps.Logger,
	}

	b0 := s.newBuffer(storage.VariantNaive)
	s.panes = paneset.New(paneset.BufferId(b0.Id()))
	s.rootFrame = paneset.Frame{Rows: 24, Cols: 80}

	s.Dispatcher = redcall.NewDispatcher()
	s.Scheduler = scheduler.New(s.Dispatcher)
	s.Scheduler.OnDone(s.handleTaskDone)
	s.wire()

	s.keys = keymap.New()
	root := s.keys.Root()
	s.keysCurrent = root
	if err := s.keys.SetDefault(root, builtinEchoCallbackID); err != nil {
		// The root node always exists immediately after keymap.New(); a
		// failure here would indicate a keymap package bug, not a
		// reachable runtime condition.
		panic(fmt.Sprintf("editor: keymap default setup: %v", err))
	}

	return s
}

func (s *State) newBuffer(variant storage.Variant) *buffer.Buffer {
	id := s.nextBufferID
	s.nextBufferID++
	b := buffer.New(id, variant)
	s.buffers[id] = b
	return b
}

func (s *State) getBuffer(id buffer.Id) (*buffer.Buffer, error) {
	b, ok := s.buffers[id]
	if !ok {
		return nil, editorerr.New(editorerr.InvalidBuffer, "buffer not found: %d", id)
	}
	return b, nil
}

// ActiveBuffer returns the buffer bound to the currently active pane's
// leaf, used by the built-in echo handler and by tests that want the
// "current" editing surface without issuing a RedCall round trip.
func (s *State) ActiveBuffer() (*buffer.Buffer, error) {
	paneBufID, err := s.panes.BufferIndex(s.panes.Current())
	if err != nil {
		return nil, err
	}
	return s.getBuffer(buffer.Id(paneBufID))
}

// Tick advances the scheduler by one round, the event loop's drain step.
func (s *State) Tick(ctx context.Context) {
	s.Scheduler.Tick(ctx)
}

// HasWork reports whether the scheduler still has runnable or deferred
// tasks.
func (s *State) HasWork() bool { return s.Scheduler.HasWork() }

// ExitRequested reports whether editor_exit has been called.
func (s *State) ExitRequested() bool { return s.exitRequested }

// Resize updates the root frame every pane_frame computation divides.
// It is not itself a RedCall; terminal geometry is pushed in from
// outside, never set by scripts. cmd/badred does not call it, so the
// frame stays at the 24x80 default set in New.
func (s *State) Resize(rows, cols uint16) {
	s.rootFrame = paneset.Frame{Rows: rows, Cols: cols}
}
