package editor

import (
	"context"

	"badred/internal/buffer"
	"badred/internal/editorerr"
	"badred/internal/hook"
	"badred/internal/paneset"
	"badred/internal/redcall"
	"badred/internal/scheduler"
)

func (s *State) handleActivePaneIndex(ctx context.Context, req redcall.Request) redcall.Response {
	return redcall.OkResponse(uint32(s.panes.Current()))
}

func (s *State) handleRootPaneIndex(ctx context.Context, req redcall.Request) redcall.Response {
	return redcall.OkResponse(uint32(s.panes.Root()))
}

func (s *State) handleSetActivePane(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	if err := s.panes.SetActive(paneset.Id(id)); err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(nil)
}

func (s *State) handlePaneIsFirst(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	isFirst, ok := s.panes.PaneIsFirst(paneset.Id(id))
	if !ok {
		return redcall.ErrResponse(editorerr.New(editorerr.InvalidPane, "pane %d has no parent", id))
	}
	return redcall.OkResponse(isFirst)
}

func (s *State) handlePaneIndexUpFrom(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	parent, ok := s.panes.IndexUpFrom(paneset.Id(id))
	if !ok {
		return redcall.ErrResponse(editorerr.New(editorerr.InvalidPane, "pane %d has no parent", id))
	}
	return redcall.OkResponse(uint32(parent))
}

func (s *State) handlePaneIndexDownFrom(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	toFirst, err := argBool(req.Values, "to_first")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	child, ok := s.panes.IndexDownFrom(paneset.Id(id), toFirst)
	if !ok {
		return redcall.ErrResponse(editorerr.New(editorerr.InvalidPane, "pane %d has no such child", id))
	}
	return redcall.OkResponse(uint32(child))
}

// paneTypeWire is the nested-tag pane_node_type encoding:
// {type:"pane_node_type", variant:"leaf"|"vsplit"|"hsplit", values?:{split_type:{variant, values}}}.
type paneTypeWire struct {
	Type    string         `json:"type"`
	Variant string         `json:"variant"`
	Values  map[string]any `json:"values,omitempty"`
}

func (s *State) handlePaneType(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	info, err := s.panes.PaneType(paneset.Id(id))
	if err != nil {
		return redcall.ErrResponse(err)
	}
	if info.Kind == paneset.Leaf {
		return redcall.OkResponse(paneTypeWire{Type: "pane_node_type", Variant: "leaf"})
	}
	variant := "vsplit"
	if info.Orientation == paneset.Horizontal {
		variant = "hsplit"
	}
	var splitVariant string
	splitValues := map[string]any{}
	switch info.Split.Kind {
	case paneset.SplitPercent:
		splitVariant = "percent"
		splitValues["first_percent"] = info.Split.FirstFraction
	case paneset.SplitFirstFixed:
		splitVariant = "first_fixed"
		splitValues["rows"] = info.Split.FixedRows
	case paneset.SplitSecondFixed:
		splitVariant = "second_fixed"
		splitValues["rows"] = info.Split.FixedRows
	}
	return redcall.OkResponse(paneTypeWire{
		Type:    "pane_node_type",
		Variant: variant,
		Values: map[string]any{
			"split_type": map[string]any{"variant": splitVariant, "values": splitValues},
		},
	})
}

func (s *State) handlePaneBufferIndex(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	bufID, err := s.panes.BufferIndex(paneset.Id(id))
	if err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(uint32(bufID))
}

func (s *State) handlePaneSetBuffer(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	bufID, err := argUint32(req.Values, "buffer_id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	if _, err := s.getBuffer(buffer.Id(bufID)); err != nil {
		return redcall.ErrResponse(err)
	}
	if err := s.panes.SetBuffer(paneset.Id(id), paneset.BufferId(bufID)); err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(nil)
}

func (s *State) handlePaneVSplit(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	newID, err := s.panes.VSplit(paneset.Id(id))
	if err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(uint32(newID))
}

func (s *State) handlePaneHSplit(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	newID, err := s.panes.HSplit(paneset.Id(id))
	if err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(uint32(newID))
}

// handlePaneCloseChild is where hook preemption happens: pane_closed
// callbacks scoped to any removed pane id must run to completion before
// the task that requested the close resumes, so cleanup observes the
// pre-replacement state. It spawns those hook tasks here, then withholds
// its own response via scheduler.DeferResume instead of returning
// normally, so Tick only resumes the caller once every spawned hook task
// reaches Done.
func (s *State) handlePaneCloseChild(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	firstChild, err := argBool(req.Values, "first")
	if err != nil {
		return redcall.ErrResponse(err)
	}

	removed, activeChanged, err := s.panes.CloseChild(paneset.Id(id), firstChild)
	if err != nil {
		return redcall.ErrResponse(err)
	}

	var blockers []scheduler.TaskId
	for _, rid := range removed {
		ids := s.FireHook(hook.PaneClosed, hook.ScopeId(rid), true, uint32(rid))
		blockers = append(blockers, ids...)
		s.hooks.InvalidateScope(hook.PaneClosed, hook.ScopeId(rid))
	}

	resp := redcall.OkResponse(activeChanged)
	if len(blockers) == 0 {
		return resp
	}

	if taskID, ok := scheduler.CurrentTaskId(ctx); ok {
		s.Scheduler.DeferResume(taskID, resp, blockers)
	}
	return resp
}

func (s *State) handlePaneSetSplitPercent(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	percent, err := argFloat64(req.Values, "frac")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	onFirst, err := optBool(req.Values, "on_first")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	if err := s.panes.SetSplitPercent(paneset.Id(id), percent, onFirst); err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(nil)
}

func (s *State) handlePaneSetSplitFixed(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	size, err := argInt(req.Values, "size")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	onFirst, err := argBool(req.Values, "on_first")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	if err := s.panes.SetSplitFixed(paneset.Id(id), size, onFirst); err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(nil)
}

func (s *State) handlePaneTopLine(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	line, err := s.panes.TopLine(paneset.Id(id))
	if err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(uint16(line))
}

func (s *State) handlePaneSetTopLine(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	line, err := argInt(req.Values, "line")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	if err := s.panes.SetTopLine(paneset.Id(id), line); err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(nil)
}

// paneFrameWire is the frame struct {x, y, rows, cols} on the wire.
type paneFrameWire struct {
	X    uint16 `json:"x"`
	Y    uint16 `json:"y"`
	Rows uint16 `json:"rows"`
	Cols uint16 `json:"cols"`
}

func (s *State) handlePaneFrame(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	frame, err := s.panes.Frame(paneset.Id(id), s.rootFrame)
	if err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(paneFrameWire{X: frame.X, Y: frame.Y, Rows: frame.Rows, Cols: frame.Cols})
}

func (s *State) handlePaneWrap(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	wrap, err := s.panes.Wrap(paneset.Id(id))
	if err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(wrap)
}

func (s *State) handlePaneSetWrap(ctx context.Context, req redcall.Request) redcall.Response {
	id, err := argUint32(req.Values, "id")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	wrap, err := argBool(req.Values, "wrap")
	if err != nil {
		return redcall.ErrResponse(err)
	}
	if err := s.panes.SetWrap(paneset.Id(id), wrap); err != nil {
		return redcall.ErrResponse(err)
	}
	return redcall.OkResponse(nil)
}
