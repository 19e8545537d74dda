package editor

import (
	"context"

	"badred/internal/hook"
	"badred/internal/scheduler"
	"badred/internal/script"
)

// spawnCallback starts a new scheduler task running callback(arg),
// routing every RedCall the task issues through s.Dispatcher. It is the
// sole place a hook or keymap Fn binding turns into a running task.
func (s *State) spawnCallback(id script.CallbackId, arg any) scheduler.TaskId {
	return s.Scheduler.Spawn(func(ctx context.Context, call scheduler.Call) (any, error) {
		return s.engine.RunCallback(ctx, id, arg, script.Call(call))
	})
}

// FireHook spawns one task per callback registered for kind, in FIFO
// registration order, passing arg as each task's sole argument. It returns the spawned task ids so a caller that must
// preempt its own continuation on them (pane_close_child) can pass them
// to scheduler.DeferResume.
func (s *State) FireHook(kind hook.Kind, scope hook.ScopeId, scoped bool, arg any) []scheduler.TaskId {
	return s.fireHookTracked(kind, scope, scoped, arg, nil)
}

// fireHookTracked is FireHook plus an optional set to mark each spawned
// task id into before it runs. Marking must happen before Spawn, not
// after: a task with a trivial body can reach Done synchronously inside
// Spawn, which fires handleTaskDone before Spawn has even returned the id
// to a post-hoc caller. PeekNextId lets the mark land first.
func (s *State) fireHookTracked(kind hook.Kind, scope hook.ScopeId, scoped bool, arg any, track map[scheduler.TaskId]bool) []scheduler.TaskId {
	var handles []hook.CallbackHandle
	if scoped {
		handles = s.hooks.Matching(kind, scope)
	} else {
		handles = s.hooks.All(kind)
	}
	ids := make([]scheduler.TaskId, 0, len(handles))
	for _, h := range handles {
		if track != nil {
			track[s.Scheduler.PeekNextId()] = true
		}
		ids = append(ids, s.spawnCallback(script.CallbackId(h), arg))
	}
	return ids
}

// handleTaskDone is wired as the scheduler's OnDone callback. It runs
// once per task, at the moment that task reaches Done:
//   - a secondary_error callback task that itself faulted: dropped, no
//     further hook exists;
//   - an error callback task that faulted: fires secondary_error;
//   - any other task that faulted: fires the error hook.
func (s *State) handleTaskDone(id scheduler.TaskId, result scheduler.Result) {
	if s.secondaryErrorHookTasks[id] {
		delete(s.secondaryErrorHookTasks, id)
		return
	}
	if s.errorHookTasks[id] {
		delete(s.errorHookTasks, id)
		if result.Err != nil {
			s.fireSecondaryErrorHook(result.Err.Error())
		}
		return
	}
	if result.Err != nil {
		s.fireErrorHook(result.Err.Error())
	}
}

// fireErrorHook reports msg through the error hook chain, falling back
// directly to secondary_error when no error callback is even registered
// (an editor with no error handler configured should not silently drop
// the message). Every spawned error-hook task is tracked so
// handleTaskDone can route its fault to secondary_error instead of
// looping back into the error hook.
func (s *State) fireErrorHook(msg string) {
	ids := s.fireHookTracked(hook.Error, 0, false, msg, s.errorHookTasks)
	if len(ids) == 0 {
		s.fireSecondaryErrorHook(msg)
	}
}

// fireSecondaryErrorHook reports msg through the secondary_error hook
// chain, tracking every spawned task so a fault there is dropped rather
// than re-entering either hook.
func (s *State) fireSecondaryErrorHook(msg string) {
	s.fireHookTracked(hook.SecondaryError, 0, false, msg, s.secondaryErrorHookTasks)
}
