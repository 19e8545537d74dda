package editor

import (
	"context"

	"badred/internal/hook"
	"badred/internal/keymap"
	"badred/internal/redcall"
	"badred/internal/scheduler"
	"badred/internal/script"
)

// builtinEchoCallbackID is the keymap root's default Fn binding,
// reserved out of the script-assigned id space (which starts at 0 and
// counts up) so it can never collide with a real script callback handle.
const builtinEchoCallbackID uint64 = ^uint64(0)

// builtinEchoBody is a task body implemented directly in the core rather
// than delegated to script.Engine: the root map's default echoes unknown
// keys into the active buffer, issuing the same two RedCalls a script
// would (current_buffer_id, then buffer_insert), so every editor
// mutation still flows through the Dispatcher even for the built-in
// default.
func builtinEchoBody(raw string) scheduler.Body {
	return func(ctx context.Context, call scheduler.Call) (any, error) {
		cur := call(redcall.NewRequest(redcall.CurrentBufferId, nil))
		if !cur.Ok {
			return nil, responseErr(cur)
		}
		bufID, _ := cur.Value.(uint32)
		ins := call(redcall.NewRequest(redcall.BufferInsert, map[string]any{
			"id": bufID, "content": raw,
		}))
		if !ins.Ok {
			return nil, responseErr(ins)
		}
		return nil, nil
	}
}

// HandleKeyEvent is the event loop's entry point for one key press. It
// first consults the keymap tree: a Submap binding advances the current
// node and returns without spawning anything (awaiting the next
// keystroke); an Fn binding spawns a task for that callback (the
// reserved built-in echo id runs directly in the core, any other id is
// handed to the script engine) and resets to the root node. If the tree
// has no binding at all for this node chain, every callback registered
// on the key_event hook kind runs instead. New gives the root node the
// built-in echo as its default and the keymap has no way to remove a
// default, so a lookup from any node of this tree finds a binding.
func (s *State) HandleKeyEvent(raw string) ([]uint64, error) {
	ev, err := keymap.ParseKeyEvent(raw)
	if err != nil {
		s.fireErrorHook(err.Error())
		return nil, err
	}

	if binding, ok := s.keys.Lookup(s.keysCurrent, ev); ok {
		switch binding.Kind {
		case keymap.Submap:
			s.keysCurrent = binding.SubmapID
			return nil, nil
		case keymap.Fn:
			s.keysCurrent = s.keys.Root()
			if binding.CallbackID == builtinEchoCallbackID {
				id := s.Scheduler.Spawn(builtinEchoBody(raw))
				return []uint64{uint64(id)}, nil
			}
			id := s.spawnCallback(script.CallbackId(binding.CallbackID), raw)
			return []uint64{uint64(id)}, nil
		}
	}

	ids := s.FireHook(hook.KeyEvent, 0, false, raw)
	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = uint64(id)
	}
	return out, nil
}
