package editor

import (
	"context"
	"errors"
	"testing"

	"badred/internal/config"
	"badred/internal/redcall"
	"badred/internal/scheduler"
	"badred/internal/script"
	"badred/internal/script/fake"
)

type fakeFileBackend struct {
	files map[string][]byte
}

func newFakeFileBackend() *fakeFileBackend {
	return &fakeFileBackend{files: map[string][]byte{}}
}

func (f *fakeFileBackend) ReadFile(path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, &notFoundErr{path}
	}
	return content, nil
}

func (f *fakeFileBackend) WriteFile(path string, content []byte) error {
	f.files[path] = append([]byte(nil), content...)
	return nil
}

type notFoundErr struct{ path string }

func (e *notFoundErr) Error() string { return "not found: " + e.path }

func newTestState() *State {
	return New(Deps{
		FileBackend: newFakeFileBackend(),
		Engine:      fake.New(),
		Options:     config.Default(),
	})
}

// drain ticks the scheduler until it has no more runnable or deferred
// work, the test-harness equivalent of the event loop draining the
// scheduler after every key event.
func drain(s *State) {
	for s.HasWork() {
		s.Tick(context.Background())
	}
}

func TestNewStateHasRootPaneOverBufferZero(t *testing.T) {
	s := newTestState()
	resp := s.Dispatcher.Execute(context.Background(), redcall.NewRequest(redcall.RootPaneIndex, nil))
	if !resp.Ok {
		t.Fatalf("root_pane_index: %v", resp.ErrMsg)
	}
	resp = s.Dispatcher.Execute(context.Background(), redcall.NewRequest(redcall.CurrentBufferId, nil))
	if !resp.Ok || resp.Value.(uint32) != 0 {
		t.Fatalf("current_buffer_id = %+v, want buffer 0", resp)
	}
}

// TestKeyEventRoutingEchoesUnmappedKey: with no keymap configured,
// pressing "q" runs the built-in default, which inserts "q" into the
// active buffer.
func TestKeyEventRoutingEchoesUnmappedKey(t *testing.T) {
	s := newTestState()
	if _, err := s.HandleKeyEvent("q"); err != nil {
		t.Fatalf("HandleKeyEvent: %v", err)
	}
	drain(s)

	resp := s.Dispatcher.Execute(context.Background(), redcall.NewRequest(redcall.BufferContent, map[string]any{"id": uint32(0)}))
	if !resp.Ok {
		t.Fatalf("buffer_content: %v", resp.ErrMsg)
	}
	if resp.Value.(string) != "q" {
		t.Fatalf("buffer content = %q, want %q", resp.Value, "q")
	}
}

// TestFaultedTaskFiresErrorHookThenSecondaryOnHookFault walks the full
// fault chain: a task that returns an error fires the error hook with the
// stringified message; if the error callback itself faults, the
// secondary_error hook fires with that second message; a secondary_error
// fault goes nowhere.
func TestFaultedTaskFiresErrorHookThenSecondaryOnHookFault(t *testing.T) {
	s := newTestState()
	engine := s.engine.(*fake.Engine)

	var errMsgs, secondaryMsgs []string
	engine.RegisterCallback(1, func(ctx context.Context, arg any, call script.Call) (any, error) {
		errMsgs = append(errMsgs, arg.(string))
		return nil, errors.New("error handler itself broke")
	})
	engine.RegisterCallback(2, func(ctx context.Context, arg any, call script.Call) (any, error) {
		secondaryMsgs = append(secondaryMsgs, arg.(string))
		return nil, nil
	})

	ctx := context.Background()
	for _, req := range []redcall.Request{
		redcall.NewRequest(redcall.SetHook, map[string]any{"kind": "error", "callback_handle": uint64(1)}),
		redcall.NewRequest(redcall.SetHook, map[string]any{"kind": "secondary_error", "callback_handle": uint64(2)}),
	} {
		if resp := s.Dispatcher.Execute(ctx, req); !resp.Ok {
			t.Fatalf("set_hook: %v", resp.ErrMsg)
		}
	}

	s.Scheduler.Spawn(func(ctx context.Context, call scheduler.Call) (any, error) {
		return nil, errors.New("script blew up")
	})
	drain(s)

	if len(errMsgs) != 1 || errMsgs[0] != "script blew up" {
		t.Fatalf("error hook messages = %v, want [script blew up]", errMsgs)
	}
	if len(secondaryMsgs) != 1 || secondaryMsgs[0] != "error handler itself broke" {
		t.Fatalf("secondary_error hook messages = %v, want the error callback's own fault", secondaryMsgs)
	}
}

func TestBufferClearEmptiesContentAndResetsCursor(t *testing.T) {
	s := newTestState()
	ctx := context.Background()
	s.Dispatcher.Execute(ctx, redcall.NewRequest(redcall.BufferInsert, map[string]any{"id": uint32(0), "content": "abc"}))
	resp := s.Dispatcher.Execute(ctx, redcall.NewRequest(redcall.BufferClear, map[string]any{"id": uint32(0)}))
	if !resp.Ok {
		t.Fatalf("buffer_clear: %v", resp.ErrMsg)
	}
	lenResp := s.Dispatcher.Execute(ctx, redcall.NewRequest(redcall.BufferLength, map[string]any{"id": uint32(0)}))
	if lenResp.Value.(uint32) != 0 {
		t.Fatalf("buffer length after clear = %v, want 0", lenResp.Value)
	}
	curResp := s.Dispatcher.Execute(ctx, redcall.NewRequest(redcall.BufferCursor, map[string]any{"id": uint32(0)}))
	if curResp.Value.(uint32) != 0 {
		t.Fatalf("cursor after clear = %v, want 0", curResp.Value)
	}
}

func TestFileChangedOnDiskFiresHook(t *testing.T) {
	s := newTestState()

	var gotPath string
	const cbID script.CallbackId = 11
	s.engine.(*fake.Engine).RegisterCallback(cbID, func(ctx context.Context, arg any, call script.Call) (any, error) {
		payload := arg.(map[string]any)
		gotPath = payload["path"].(string)
		return nil, nil
	})

	resp := s.Dispatcher.Execute(context.Background(), redcall.NewRequest(redcall.SetHook, map[string]any{
		"kind":            "file_changed_on_disk",
		"callback_handle": uint64(cbID),
	}))
	if !resp.Ok {
		t.Fatalf("set_hook: %v", resp.ErrMsg)
	}

	s.HandleFileChanged("/tmp/linked.txt")
	drain(s)

	if gotPath != "/tmp/linked.txt" {
		t.Fatalf("hook payload path = %q, want %q", gotPath, "/tmp/linked.txt")
	}
}

// TestPaneCloseChildPreemptsUntilHookCompletes checks the
// hook-preemption contract: the task that issued pane_close_child must
// not see its response until every pane_closed callback scoped to a
// removed pane has run to completion.
func TestPaneCloseChildPreemptsUntilHookCompletes(t *testing.T) {
	s := newTestState()

	splitResp := s.Dispatcher.Execute(context.Background(), redcall.NewRequest(redcall.PaneVSplit, map[string]any{"id": uint32(0)}))
	if !splitResp.Ok {
		t.Fatalf("pane_v_split: %v", splitResp.ErrMsg)
	}
	// Pane 0 (the root leaf) got cloned into a new id by the split; the
	// tree's new root is a split node whose first child is that clone.
	rootResp := s.Dispatcher.Execute(context.Background(), redcall.NewRequest(redcall.RootPaneIndex, nil))
	rootID := rootResp.Value.(uint32)

	hookRan := false
	const hookCallbackID script.CallbackId = 7
	engine := s.engine.(*fake.Engine)
	engine.RegisterCallback(hookCallbackID, func(ctx context.Context, arg any, call script.Call) (any, error) {
		hookRan = true
		return nil, nil
	})

	upResp := s.Dispatcher.Execute(context.Background(), redcall.NewRequest(redcall.PaneIndexDownFrom, map[string]any{"id": rootID, "to_first": true}))
	firstChildID := upResp.Value.(uint32)

	setHookResp := s.Dispatcher.Execute(context.Background(), redcall.NewRequest(redcall.SetHook, map[string]any{
		"kind":            "pane_closed",
		"callback_handle": uint64(hookCallbackID),
		"scope_id":        firstChildID,
	}))
	if !setHookResp.Ok {
		t.Fatalf("set_hook: %v", setHookResp.ErrMsg)
	}

	task := s.Scheduler.Spawn(func(ctx context.Context, call scheduler.Call) (any, error) {
		resp := call(redcall.NewRequest(redcall.PaneCloseChild, map[string]any{"id": rootID, "first": true}))
		if !resp.Ok {
			return nil, responseErr(resp)
		}
		return resp.Value, nil
	})

	if s.Scheduler.IsDone(task) {
		t.Fatalf("caller task completed before pane_closed hook ran")
	}

	drain(s)

	if !hookRan {
		t.Fatalf("pane_closed hook never ran")
	}
	if !s.Scheduler.IsDone(task) {
		t.Fatalf("caller task never resumed after hook completed")
	}
}
