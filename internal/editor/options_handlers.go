package editor

import (
	"context"

	"badred/internal/redcall"
)

// optionsWire renders the current options in the
// {values: {tab_width, expand_tabs, ...}} envelope editor_options
// returns.
func (s *State) optionsWire() map[string]any {
	return map[string]any{
		"values": map[string]any{
			"tab_width":      s.options.TabWidth,
			"expand_tabs":    s.options.ExpandTabs,
			"startup_script": s.options.StartupScript,
			"log_level":      s.options.LogLevel,
		},
	}
}

func (s *State) handleEditorOptions(ctx context.Context, req redcall.Request) redcall.Response {
	return redcall.OkResponse(s.optionsWire())
}

// handleUpdateOptions merges any fields present in req.Values into the
// current options, leaving fields the caller omitted untouched, the
// same partial-update semantics config.Load gives a partial file
// (applyDefaults only fills what is missing, never resets what is
// already set).
func (s *State) handleUpdateOptions(ctx context.Context, req redcall.Request) redcall.Response {
	next := s.options
	if width, ok, err := optUint32(req.Values, "tab_width"); err != nil {
		return redcall.ErrResponse(err)
	} else if ok {
		next.TabWidth = uint16(width)
	}
	if expand, err := optBool(req.Values, "expand_tabs"); err != nil {
		return redcall.ErrResponse(err)
	} else if expand != nil {
		next.ExpandTabs = *expand
	}
	if v, ok := req.Values["startup_script"]; ok {
		if str, ok := v.(string); ok {
			next.StartupScript = str
		}
	}
	if v, ok := req.Values["log_level"]; ok {
		if str, ok := v.(string); ok {
			next.LogLevel = str
		}
	}
	s.options = next
	return redcall.OkResponse(s.optionsWire())
}

func (s *State) handleSetTextStyle(ctx context.Context, req redcall.Request) redcall.Response {
	name, err := argString(req.Values, "name")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	bg, err := argString(req.Values, "background")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	fg, err := argString(req.Values, "foreground")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	s.styles[name] = TextStyle{Background: bg, Foreground: fg}
	return redcall.OkResponse(nil)
}

func (s *State) handleEditorExit(ctx context.Context, req redcall.Request) redcall.Response {
	s.exitRequested = true
	return redcall.OkResponse(nil)
}
