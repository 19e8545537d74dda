package fake

import (
	"context"
	"testing"

	"badred/internal/redcall"
	"badred/internal/script"
)

func TestRunSourceInvokesRegisteredFunc(t *testing.T) {
	e := New()
	e.RegisterSource("echo-arg", func(ctx context.Context, arg any, call script.Call) (any, error) {
		return arg, nil
	})
	got, err := e.RunSource(context.Background(), "echo-arg", "hello", nil)
	if err != nil {
		t.Fatalf("RunSource: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got = %v, want %q", got, "hello")
	}
}

func TestRunSourceUnknownSourceErrors(t *testing.T) {
	e := New()
	if _, err := e.RunSource(context.Background(), "nope", nil, nil); err == nil {
		t.Fatalf("expected error for unregistered source")
	}
}

func TestRunCallbackInvokesRegisteredFuncAndCanCallCore(t *testing.T) {
	e := New()
	e.RegisterCallback(42, func(ctx context.Context, arg any, call script.Call) (any, error) {
		resp := call(redcall.NewRequest(redcall.CurrentBufferId, nil))
		return resp.Value, nil
	})
	called := false
	call := func(req redcall.Request) redcall.Response {
		called = true
		return redcall.OkResponse(uint32(3))
	}
	got, err := e.RunCallback(context.Background(), 42, nil, call)
	if err != nil {
		t.Fatalf("RunCallback: %v", err)
	}
	if !called {
		t.Fatalf("expected the callback to invoke call()")
	}
	if got != uint32(3) {
		t.Fatalf("got = %v, want 3", got)
	}
}
