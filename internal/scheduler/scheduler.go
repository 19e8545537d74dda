// Package scheduler implements the cooperative single-threaded scheduler
// that multiplexes script tasks against RedCall dispatch. Exactly one
// task's body ever executes at a time; a task suspends by issuing a
// RedCall and resumes only when the scheduler hands back a response. An
// uncaught panic terminates the task and surfaces as a fault result; a
// task never restarts. Each task is a resumable unit with a single-slot
// request/response channel pair; a goroutine blocked on a channel
// send/receive is the idiomatic Go rendering of that coroutine
// contract; the scheduler, not the OS scheduler, decides which one gets
// to proceed next.
package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"

	"badred/internal/editorerr"
	"badred/internal/redcall"
)

// TaskId identifies a task. Allocated monotonically by Scheduler.
type TaskId uint64

type currentTaskKey struct{}

// CurrentTaskId extracts the id of the task whose RedCall a handler is
// currently servicing, from the context Tick passed to Dispatcher.Execute.
// A RedCall handler that must spawn scope-bound hooks and preempt its
// caller (pane_close_child is the canonical example) uses this to learn
// which task to pass to DeferResume.
func CurrentTaskId(ctx context.Context) (TaskId, bool) {
	id, ok := ctx.Value(currentTaskKey{}).(TaskId)
	return id, ok
}

// Result is a task's terminal value: the script's return value, or the
// error that terminated it.
type Result struct {
	Value any
	Err   error
}

// Call is the function a task body uses to issue a RedCall and block
// until the scheduler resumes it with a response. This is the task's one
// suspension point.
type Call func(req redcall.Request) redcall.Response

// Body is a script task's entry point. It runs on its own goroutine but
// executes cooperatively: every call to `call` blocks until the
// scheduler explicitly resumes it, so from the editor's point of view at
// most one Body is ever making progress.
type Body func(ctx context.Context, call Call) (any, error)

type slotKind int

const (
	slotPending slotKind = iota // task is blocked on a RedCall, request available
	slotDone                    // task finished (result available)
)

type task struct {
	id TaskId

	reqCh  chan redcall.Request
	respCh chan redcall.Response
	doneCh chan Result

	slot       slotKind
	pendingReq redcall.Request
	result     Result

	// blockedBy holds ids of tasks that must reach Done before this
	// task's outstanding response is delivered: the preemption
	// mechanism for pane_closed and other scope-bound hooks, which run
	// ahead of the continuation of the task that caused the event.
	blockedBy []TaskId
	deferred  redcall.Response
	hasDeferred bool
}

// Scheduler owns every task and the ready queue. It does not own editor
// state; callers supply a redcall.Dispatcher to resolve requests.
type Scheduler struct {
	dispatcher *redcall.Dispatcher
	tasks      map[TaskId]*task
	ready      []TaskId // FIFO
	nextID     TaskId

	// onDone, if set, is invoked exactly once per task, the instant it
	// reaches a terminal state. The scheduler has no hook registry of
	// its own; it delegates the decision of what to do with a finished
	// task to whoever owns one.
	onDone func(TaskId, Result)
}

// OnDone registers f to run once per task, at the moment that task
// reaches Done. Editor state uses this to drive error/secondary_error
// hook dispatch without the scheduler needing to know hooks exist.
func (s *Scheduler) OnDone(f func(TaskId, Result)) {
	s.onDone = f
}

// PeekNextId returns the id Spawn will hand out on its next call, without
// allocating it. A caller that must classify a task (for example "this
// is an error-hook callback") before it can possibly finish (a task
// spawned with an empty body may run to Done synchronously, inside
// Spawn itself, before Spawn returns its id) records the prediction
// against this id first and spawns immediately after. Single-threaded
// cooperative scheduling makes the prediction exact: nothing else can
// call Spawn in between.
func (s *Scheduler) PeekNextId() TaskId {
	return s.nextID
}

// New creates a scheduler bound to dispatcher, which resolves every
// RedCall a task issues.
func New(dispatcher *redcall.Dispatcher) *Scheduler {
	return &Scheduler{dispatcher: dispatcher, tasks: map[TaskId]*task{}}
}

// Spawn starts body as a new task, appended to the tail of the ready
// queue, and runs it up to its first suspension or completion; a
// spawned task is primed immediately, not merely enqueued inert.
// Returns the new task's id.
func (s *Scheduler) Spawn(body Body) TaskId {
	id := s.nextID
	s.nextID++

	t := &task{
		id:     id,
		reqCh:  make(chan redcall.Request),
		respCh: make(chan redcall.Response),
		doneCh: make(chan Result, 1),
	}
	s.tasks[id] = t

	go t.run(body)
	s.prime(t)
	s.ready = append(s.ready, id)
	return id
}

// prime advances a freshly started (or just-resumed) task's goroutine
// until it either blocks on its next RedCall or terminates, recording
// whichever happened in t.slot.
func (s *Scheduler) prime(t *task) {
	select {
	case req := <-t.reqCh:
		t.slot = slotPending
		t.pendingReq = req
	case result := <-t.doneCh:
		t.slot = slotDone
		t.result = result
		if s.onDone != nil {
			s.onDone(t.id, result)
		}
	}
}

func (t *task) run(body Body) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("script task panicked",
				"task", t.id,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			t.doneCh <- Result{Err: editorerr.New(editorerr.ScriptFault, "task %d panicked: %v", t.id, r)}
		}
	}()

	call := func(req redcall.Request) redcall.Response {
		t.reqCh <- req
		return <-t.respCh
	}
	value, err := body(context.Background(), call)
	t.doneCh <- Result{Value: value, Err: err}
}

// IsDone reports whether a task has reached a terminal state.
func (s *Scheduler) IsDone(id TaskId) bool {
	t, ok := s.tasks[id]
	return ok && t.slot == slotDone
}

// Result returns a finished task's terminal result. Only valid once
// IsDone reports true.
func (s *Scheduler) Result(id TaskId) Result {
	return s.tasks[id].result
}

// PendingRequest returns the RedCall a blocked task is waiting on. Only
// valid when the task is neither done nor deferred.
func (s *Scheduler) PendingRequest(id TaskId) redcall.Request {
	return s.tasks[id].pendingReq
}

// DeferResume marks id's outstanding response as ready but withheld until
// every task in blockedBy reaches Done. This is the hook-preemption
// primitive: a RedCall handler that must fire scope-bound hooks before
// the calling task continues spawns those hook tasks first, then defers
// the calling task's resume on them instead of resuming it immediately.
func (s *Scheduler) DeferResume(id TaskId, resp redcall.Response, blockedBy []TaskId) {
	t := s.tasks[id]
	t.deferred = resp
	t.hasDeferred = true
	t.blockedBy = append([]TaskId(nil), blockedBy...)
}

// resolveDeferrals releases any task whose blockers have all completed,
// resuming it with its withheld response. Runs once per tick, after the
// ready queue for this tick has been processed, so deferred tasks always
// see their preempting hooks as fully Done before they continue.
func (s *Scheduler) resolveDeferrals() {
	for id, t := range s.tasks {
		if !t.hasDeferred {
			continue
		}
		allDone := true
		for _, dep := range t.blockedBy {
			if !s.IsDone(dep) {
				allDone = false
				break
			}
		}
		if !allDone {
			continue
		}
		resp := t.deferred
		t.hasDeferred = false
		t.blockedBy = nil
		s.resume(id, resp)
		s.ready = append(s.ready, id)
	}
}

// resume sends resp into a pending task and re-primes it, recording
// whatever state it reaches next.
func (s *Scheduler) resume(id TaskId, resp redcall.Response) {
	t := s.tasks[id]
	t.respCh <- resp
	s.prime(t)
}

// Tick runs one scheduling round: every task currently in the ready
// queue is resumed exactly once (dispatching its pending RedCall through
// the bound Dispatcher, unless the task is itself deferred awaiting
// preempting hooks), tasks that spawn new tasks push them to the tail
// for the next tick, and deferred tasks whose blockers finished this
// round are released.
func (s *Scheduler) Tick(ctx context.Context) {
	batch := s.ready
	s.ready = nil

	for _, id := range batch {
		t := s.tasks[id]
		switch t.slot {
		case slotDone:
			continue
		case slotPending:
			if t.hasDeferred {
				// Still withheld on the previous handler's DeferResume
				// call; nothing to dispatch this round, re-queue as is.
				s.ready = append(s.ready, id)
				continue
			}
			callCtx := context.WithValue(ctx, currentTaskKey{}, id)
			resp := s.dispatcher.Execute(callCtx, t.pendingReq)
			if t.hasDeferred {
				// The handler just invoked during Execute called
				// DeferResume on this same task: it spawned preempting
				// hook tasks and withheld the real response until they
				// finish. The response Execute returned here is not
				// delivered; t.deferred (set by DeferResume) is, once
				// resolveDeferrals unblocks it.
				continue
			}
			s.resume(id, resp)
			if !s.IsDone(id) {
				s.ready = append(s.ready, id)
			}
		}
	}

	s.resolveDeferrals()
}

// HasWork reports whether any task is still runnable (ready or awaiting
// its preempting hooks to finish).
func (s *Scheduler) HasWork() bool {
	if len(s.ready) > 0 {
		return true
	}
	for _, t := range s.tasks {
		if t.hasDeferred {
			return true
		}
	}
	return false
}
