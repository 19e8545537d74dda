// Package debugbridge mirrors every RedCall request/response pair to a
// local WebSocket for external tooling (a REPL or test harness) to
// observe, read-only. Single-connection model: a new client replaces
// the old one; ping/deadline keepalive; the read pump is panic-contained
// so a misbehaving client can never take the editor down.
package debugbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"badred/internal/redcall"
)

const (
	writeDeadline = 5 * time.Second
	readDeadline  = 90 * time.Second
	pingInterval  = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 32 * 1024,
}

// Options configures the Hub's listen address.
type Options struct {
	// Addr is the listen address. Empty means "127.0.0.1:0" (OS-assigned
	// port), since the bridge is local-only tooling, never a public one.
	Addr string
}

// Trace is one mirrored RedCall round trip.
type Trace struct {
	TaskId   uint64           `json:"task_id"`
	Request  redcall.Request  `json:"request"`
	Response redcall.Response `json:"response"`
}

// Hub serves a single debug WebSocket connection and mirrors Trace
// values pushed via Broadcast. It never changes a RedCall's result: a
// disconnected client simply misses traces, and a client that does not
// take a trace within writeDeadline is dropped.
type Hub struct {
	opts Options

	mu   sync.RWMutex
	conn *websocket.Conn

	writeMu sync.Mutex

	listener net.Listener
	server   *http.Server
	url      string

	closeOnce sync.Once
}

// NewHub creates a Hub; it does not listen until Start is called.
func NewHub(opts Options) *Hub {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:0"
	}
	return &Hub{opts: opts}
}

// Start begins listening and serving the /debug WebSocket endpoint.
func (h *Hub) Start(ctx context.Context) error {
	if h.server != nil {
		return fmt.Errorf("debugbridge: already started")
	}

	ln, err := net.Listen("tcp", h.opts.Addr)
	if err != nil {
		return fmt.Errorf("debugbridge: listen: %w", err)
	}
	h.listener = ln

	port := ln.Addr().(*net.TCPAddr).Port
	h.url = fmt.Sprintf("ws://127.0.0.1:%d/debug", port)

	mux := http.NewServeMux()
	mux.HandleFunc("/debug", h.handleWS)

	h.server = &http.Server{
		Handler: mux,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if serveErr := h.server.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("debugbridge server error", "error", serveErr)
		}
	}()

	slog.Info("debugbridge server started", "url", h.url)
	return nil
}

// Stop shuts down the server and closes any active connection.
// Idempotent.
func (h *Hub) Stop() error {
	var stopErr error
	h.closeOnce.Do(func() {
		h.mu.Lock()
		conn := h.conn
		h.conn = nil
		h.mu.Unlock()

		if conn != nil {
			_ = conn.Close()
		}

		if h.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.server.Shutdown(shutdownCtx); err != nil {
				stopErr = fmt.Errorf("debugbridge: shutdown: %w", err)
			}
		}
	})
	return stopErr
}

// URL returns the server's WebSocket URL, empty until Start succeeds.
func (h *Hub) URL() string { return h.url }

// HasActiveConnection reports whether a debug client is connected.
func (h *Hub) HasActiveConnection() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conn != nil
}

// Broadcast mirrors t to the connected client, if any. A no-op with no
// client connected. With a client, the write runs on the caller's
// goroutine and can block it for up to writeDeadline; a failed write
// closes the connection.
func (h *Hub) Broadcast(t Trace) {
	h.mu.RLock()
	conn := h.conn
	h.mu.RUnlock()
	if conn == nil {
		return
	}

	payload, err := json.Marshal(t)
	if err != nil {
		slog.Warn("debugbridge: marshal trace", "error", err)
		return
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		h.clearIfCurrent(conn)
		_ = conn.Close()
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		slog.Debug("debugbridge: write failed, closing connection", "error", err)
		h.clearIfCurrent(conn)
		_ = conn.Close()
	}
}

func (h *Hub) clearIfCurrent(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conn == conn {
		h.conn = nil
		return true
	}
	return false
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("debugbridge: upgrade failed", "error", err)
		return
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		_ = conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	h.mu.Lock()
	old := h.conn
	h.conn = conn
	h.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	slog.Info("debugbridge: client connected", "remoteAddr", conn.RemoteAddr())

	pingDone := make(chan struct{})
	go h.pingLoop(conn, pingDone)

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("debugbridge: read pump recovered", "panic", rec, "stack", string(debug.Stack()))
		}
		close(pingDone)
		h.clearIfCurrent(conn)
		_ = conn.Close()
		slog.Info("debugbridge: client disconnected")
	}()

	// The protocol is broadcast-only; this mirror discards anything the
	// client sends, just draining reads to keep the pong handler firing.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("debugbridge: ping loop recovered", "panic", rec, "stack", string(debug.Stack()))
			h.clearIfCurrent(conn)
			_ = conn.Close()
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			h.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline))
			h.writeMu.Unlock()
			if err != nil {
				h.clearIfCurrent(conn)
				_ = conn.Close()
				return
			}
		}
	}
}
