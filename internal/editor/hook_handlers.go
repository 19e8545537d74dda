package editor

import (
	"context"

	"badred/internal/editorerr"
	"badred/internal/hook"
	"badred/internal/redcall"
)

// hookKinds is the closed mapping from the wire string a script passes
// to set_hook's "kind" argument to the internal hook.Kind it names.
var hookKinds = map[string]hook.Kind{
	"key_event":          hook.KeyEvent,
	"buffer_file_linked": hook.BufferFileLinked,
	"pane_closed":        hook.PaneClosed,
	"error":              hook.Error,
	"secondary_error":    hook.SecondaryError,
	"file_changed_on_disk": hook.FileChangedOnDisk,
}

func (s *State) handleSetHook(ctx context.Context, req redcall.Request) redcall.Response {
	kindStr, err := argString(req.Values, "kind")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	kind, ok := hookKinds[kindStr]
	if !ok {
		return redcall.ErrResponse(editorerr.New(editorerr.ScriptFault, "set_hook: unknown hook kind %q", kindStr))
	}
	callback, err := argUint64(req.Values, "callback_handle")
	if err != nil {
		return redcall.ErrResponse(err)
	}

	scope, scoped, err := optUint32(req.Values, "scope_id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	if scoped {
		s.hooks.SetScoped(kind, hook.CallbackHandle(callback), hook.ScopeId(scope))
	} else {
		s.hooks.Set(kind, hook.CallbackHandle(callback))
	}
	return redcall.OkResponse(nil)
}
