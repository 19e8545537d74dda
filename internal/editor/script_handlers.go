package editor

import (
	"context"

	"badred/internal/redcall"
	"badred/internal/scheduler"
	"badred/internal/script"
)

// RunScript spawns src as a new top-level task, returning the new
// task's id immediately rather than blocking on its completion. The
// event loop
// uses this directly for the startup script, before any key event has
// arrived; the run_script RedCall is the same operation reached from
// inside a running task.
func (s *State) RunScript(src string) scheduler.TaskId {
	return s.Scheduler.Spawn(func(ctx context.Context, call scheduler.Call) (any, error) {
		return s.engine.RunSource(ctx, src, nil, script.Call(call))
	})
}

func (s *State) handleRunScript(ctx context.Context, req redcall.Request) redcall.Response {
	src, err := argString(req.Values, "source")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(uint64(s.RunScript(src)))
}
