package editor

import (
	"badred/internal/editorerr"
	"badred/internal/redcall"
)

// responseErr reconstructs an error from a failed Response, the inverse
// of redcall.ErrResponse, for the rare core-internal caller (the
// built-in echo task body) that issues RedCalls itself and needs to
// propagate a failure as a Go error rather than a Response.
func responseErr(resp redcall.Response) error {
	if resp.Ok {
		return nil
	}
	return editorerr.New(resp.ErrKind, "%s", resp.ErrMsg)
}
