package debugbridge

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"badred/internal/redcall"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(Options{})
	if err := h.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = h.Stop() })
	return h
}

func dial(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(h.URL(), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestBroadcastWithNoConnectionIsNoop(t *testing.T) {
	h := startHub(t)
	h.Broadcast(Trace{TaskId: 1, Request: redcall.NewRequest(redcall.CurrentBufferId, nil)})
}

func TestClientReceivesBroadcastTrace(t *testing.T) {
	h := startHub(t)
	conn := dial(t, h)

	deadline := time.Now()
	for !h.HasActiveConnection() {
		if time.Since(deadline) > 2*time.Second {
			t.Fatalf("timed out waiting for server to register connection")
		}
		time.Sleep(5 * time.Millisecond)
	}

	want := Trace{
		TaskId:   7,
		Request:  redcall.NewRequest(redcall.CurrentBufferId, nil),
		Response: redcall.OkResponse(uint32(3)),
	}
	h.Broadcast(want)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var got Trace
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.TaskId != want.TaskId || got.Request.Variant != want.Request.Variant {
		t.Fatalf("got = %+v, want %+v", got, want)
	}
}

func TestNewConnectionReplacesOld(t *testing.T) {
	h := startHub(t)
	first := dial(t, h)
	second := dial(t, h)

	deadline := time.Now()
	for {
		if time.Since(deadline) > 2*time.Second {
			t.Fatalf("timed out waiting for replacement")
		}
		_ = first.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		if _, _, err := first.ReadMessage(); err != nil {
			break
		}
	}

	h.Broadcast(Trace{TaskId: 1})
	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := second.ReadMessage(); err != nil {
		t.Fatalf("expected the newer connection to receive the broadcast: %v", err)
	}
}
