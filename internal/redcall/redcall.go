// Package redcall implements the typed request/response bridge between
// script tasks and the editor core. In-process this is an enum dispatch;
// on the wire it is a tagged JSON envelope so a script-side interpreter
// can pattern-match on {type, variant, values}.
package redcall

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"badred/internal/editorerr"
)

// Variant is the closed set of RedCall request kinds. New variants are
// additive; the zero value is never a valid variant.
type Variant string

const (
	CurrentBufferId       Variant = "current_buffer_id"
	ActivePaneIndex       Variant = "active_pane_index"
	RootPaneIndex         Variant = "root_pane_index"
	SetActivePane         Variant = "set_active_pane"
	BufferOpen            Variant = "buffer_open"
	BufferClose           Variant = "buffer_close"
	BufferInsert          Variant = "buffer_insert"
	BufferDelete          Variant = "buffer_delete"
	BufferCursor          Variant = "buffer_cursor"
	BufferCursorLine      Variant = "buffer_cursor_line"
	BufferCursorMovedByChar Variant = "buffer_cursor_moved_by_char"
	BufferIndexMovedByChar  Variant = "buffer_index_moved_by_char"
	BufferSetCursor       Variant = "buffer_set_cursor"
	BufferSetCursorLine   Variant = "buffer_set_cursor_line"
	BufferClear           Variant = "buffer_clear"
	BufferCursorContent   Variant = "buffer_cursor_content"
	BufferCursorLineContent Variant = "buffer_cursor_line_content"
	BufferLength          Variant = "buffer_length"
	BufferLineCount       Variant = "buffer_line_count"
	BufferContent         Variant = "buffer_content"
	BufferContentAt       Variant = "buffer_content_at"
	BufferLineContent     Variant = "buffer_line_content"
	BufferLineContaining  Variant = "buffer_line_containing"
	BufferLineLength      Variant = "buffer_line_length"
	BufferLineStart       Variant = "buffer_line_start"
	BufferLineEnd         Variant = "buffer_line_end"
	BufferLinkFile        Variant = "buffer_link_file"
	BufferUnlinkFile      Variant = "buffer_unlink_file"
	BufferWriteToFile     Variant = "buffer_write_to_file"
	BufferCurrentFile     Variant = "buffer_current_file"
	BufferType            Variant = "buffer_type"
	BufferSetType         Variant = "buffer_set_type"
	BufferClearStyles     Variant = "buffer_clear_styles"
	BufferPushStyle       Variant = "buffer_push_style"
	PaneIsFirst           Variant = "pane_is_first"
	PaneIndexUpFrom       Variant = "pane_index_up_from"
	PaneIndexDownFrom     Variant = "pane_index_down_from"
	PaneType              Variant = "pane_type"
	PaneBufferIndex       Variant = "pane_buffer_index"
	PaneSetBuffer         Variant = "pane_set_buffer"
	PaneVSplit            Variant = "pane_v_split"
	PaneHSplit            Variant = "pane_h_split"
	PaneCloseChild        Variant = "pane_close_child"
	PaneSetSplitPercent   Variant = "pane_set_split_percent"
	PaneSetSplitFixed     Variant = "pane_set_split_fixed"
	PaneTopLine           Variant = "pane_top_line"
	PaneSetTopLine        Variant = "pane_set_top_line"
	PaneFrame             Variant = "pane_frame"
	PaneWrap              Variant = "pane_wrap"
	PaneSetWrap           Variant = "pane_set_wrap"
	FileOpen              Variant = "file_open"
	FileClose             Variant = "file_close"
	SetHook               Variant = "set_hook"
	RunScript             Variant = "run_script"
	SetTextStyle          Variant = "set_text_style"
	EditorExit            Variant = "editor_exit"
	EditorOptions         Variant = "editor_options"
	UpdateOptions         Variant = "update_options"
)

// Request is the wire envelope for one RedCall. Type is always
// "RedCall"; it is carried explicitly so a script-side decoder can
// distinguish a request envelope from other tagged-enum payloads on the
// same channel.
type Request struct {
	Type    string         `json:"type"`
	Variant Variant        `json:"variant"`
	Values  map[string]any `json:"values,omitempty"`
}

// NewRequest builds a Request with Type pre-filled.
func NewRequest(variant Variant, values map[string]any) Request {
	return Request{Type: "RedCall", Variant: variant, Values: values}
}

// Response is Ok(value) | Err(kind, message).
type Response struct {
	Ok      bool              `json:"ok"`
	Value   any               `json:"value,omitempty"`
	ErrKind editorerr.Kind    `json:"err_kind,omitempty"`
	ErrMsg  string            `json:"err_message,omitempty"`
}

// OkResponse wraps a successful value.
func OkResponse(value any) Response {
	return Response{Ok: true, Value: value}
}

// ErrResponse wraps a failure.
func ErrResponse(err error) Response {
	if e, ok := err.(*editorerr.Error); ok {
		return Response{ErrKind: e.Kind, ErrMsg: e.Message}
	}
	return Response{ErrKind: editorerr.ScriptFault, ErrMsg: err.Error()}
}

// Marshal/Unmarshal round-trip a Request or Response across the script
// boundary. In-process callers normally skip these and pass Go values
// directly through Dispatcher; they exist for transports that genuinely
// cross a process or language boundary (the optional debug bridge).
func MarshalRequest(req Request) ([]byte, error)   { return json.Marshal(req) }
func UnmarshalRequest(raw []byte) (Request, error) {
	var req Request
	err := json.Unmarshal(raw, &req)
	return req, err
}
func MarshalResponse(resp Response) ([]byte, error) { return json.Marshal(resp) }
func UnmarshalResponse(raw []byte) (Response, error) {
	var resp Response
	err := json.Unmarshal(raw, &resp)
	return resp, err
}

// Handler executes one RedCall variant against editor state.
type Handler func(ctx context.Context, req Request) Response

// Dispatcher routes a Request to its registered Handler by variant: a
// flat map from variant to handler function, with an unknown-variant
// fallback and debug-gated structured logging on the hot dispatch path.
type Dispatcher struct {
	handlers map[Variant]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[Variant]Handler{}}
}

// Register binds variant to handler. Registering the same variant twice
// replaces the previous handler; callers wire the full table once at
// startup.
func (d *Dispatcher) Register(variant Variant, handler Handler) {
	d.handlers[variant] = handler
}

// Execute dispatches req to its registered handler. An unregistered
// variant is a ScriptFault, not a panic: the bridge is reentered from
// script code, which must never be able to crash the core.
func (d *Dispatcher) Execute(ctx context.Context, req Request) Response {
	req.Variant = Variant(strings.TrimSpace(string(req.Variant)))

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.Debug("redcall dispatch", "variant", req.Variant, "values", req.Values)
	}

	handler, ok := d.handlers[req.Variant]
	if !ok {
		return Response{
			ErrKind: editorerr.ScriptFault,
			ErrMsg:  fmt.Sprintf("unknown redcall variant: %q", req.Variant),
		}
	}
	return handler(ctx, req)
}
