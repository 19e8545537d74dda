package redcall

import (
	"context"
	"testing"

	"badred/internal/editorerr"
)

func TestDispatcherRoutesRegisteredVariant(t *testing.T) {
	d := NewDispatcher()
	d.Register(CurrentBufferId, func(ctx context.Context, req Request) Response {
		return OkResponse(uint32(7))
	})
	resp := d.Execute(context.Background(), NewRequest(CurrentBufferId, nil))
	if !resp.Ok {
		t.Fatalf("resp.Ok = false, want true")
	}
	if resp.Value != uint32(7) {
		t.Fatalf("resp.Value = %v, want 7", resp.Value)
	}
}

func TestDispatcherUnknownVariantIsScriptFault(t *testing.T) {
	d := NewDispatcher()
	resp := d.Execute(context.Background(), NewRequest(Variant("not_a_real_variant"), nil))
	if resp.Ok {
		t.Fatalf("resp.Ok = true, want false")
	}
	if resp.ErrKind != editorerr.ScriptFault {
		t.Fatalf("resp.ErrKind = %v, want ScriptFault", resp.ErrKind)
	}
}

func TestErrResponsePreservesEditorErrKind(t *testing.T) {
	err := editorerr.New(editorerr.InvalidPane, "pane %d not found", 3)
	resp := ErrResponse(err)
	if resp.ErrKind != editorerr.InvalidPane {
		t.Fatalf("resp.ErrKind = %v, want InvalidPane", resp.ErrKind)
	}
	if resp.ErrMsg == "" {
		t.Fatalf("resp.ErrMsg is empty")
	}
}

func TestRequestRoundTripsThroughJSON(t *testing.T) {
	req := NewRequest(BufferInsert, map[string]any{"id": float64(1), "content": "hi"})
	raw, err := MarshalRequest(req)
	if err != nil {
		t.Fatalf("MarshalRequest: %v", err)
	}
	got, err := UnmarshalRequest(raw)
	if err != nil {
		t.Fatalf("UnmarshalRequest: %v", err)
	}
	if got.Variant != BufferInsert || got.Type != "RedCall" {
		t.Fatalf("got = %+v, want variant=%v type=RedCall", got, BufferInsert)
	}
}
