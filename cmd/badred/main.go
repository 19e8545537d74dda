// Command badred is the host process: it wires the editor aggregate to
// a key-event source, a file watcher, an optional debug bridge, and
// persisted options, then runs the event loop until editor_exit or a
// shutdown signal arrives. Terminal rendering and the real key-event
// source are external collaborators, so this reads raw stdin bytes as a
// minimal stand-in key source rather than driving a real terminal UI.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"badred/internal/config"
	"badred/internal/debugbridge"
	"badred/internal/editor"
	"badred/internal/fileio"
	"badred/internal/redcall"
	"badred/internal/script/fake"
	"badred/internal/sessionlog"
)

func main() {
	opts, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "badred: load options: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	_ = level.UnmarshalText([]byte(opts.LogLevel))

	backlog := sessionlog.NewBacklog(256)
	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	handler := sessionlog.NewTeeHandler(base, level, backlog.Callback())
	logger := slog.New(handler)
	slog.SetDefault(logger)

	changes := make(chan fileio.ChangeEvent, 16)
	watcher, err := fileio.NewWatcher(func(ev fileio.ChangeEvent) {
		select {
		case changes <- ev:
		default:
			// A full queue drops the event; the next write to the same
			// path will raise another.
		}
	})
	if err != nil {
		logger.Warn("file watching disabled", "err", err)
	} else {
		defer watcher.Close()
	}

	deps := editor.Deps{
		FileBackend: fileio.New(),
		Engine:      fake.New(),
		Options:     opts,
		Logger:      logger,
	}
	if watcher != nil {
		deps.Watcher = watcher
	}
	state := editor.New(deps)
	logger.Info("editor started", "session_id", state.SessionId)

	hub := debugbridge.NewHub(debugbridge.Options{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := hub.Start(ctx); err != nil {
		logger.Warn("debug bridge disabled", "err", err)
	} else {
		logger.Info("debug bridge listening", "url", hub.URL())
		defer hub.Stop()
	}
	state.Tracer = hubTracer{hub}

	if opts.StartupScript != "" {
		src, readErr := os.ReadFile(opts.StartupScript)
		if readErr != nil {
			logger.Warn("startup script unreadable", "path", opts.StartupScript, "err", readErr)
		} else {
			state.RunScript(string(src))
			for state.HasWork() {
				state.Tick(ctx)
			}
		}
	}

	keys := make(chan string, 64)
	go readKeys(os.Stdin, keys)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sig:
			logger.Info("shutdown requested")
			return
		case key, ok := <-keys:
			if !ok {
				return
			}
			if _, err := state.HandleKeyEvent(key); err != nil {
				logger.Warn("key event rejected", "key", key, "err", err)
			}
		case ev := <-changes:
			state.HandleFileChanged(ev.Path)
		}

		state.Tick(ctx)
		for state.HasWork() {
			state.Tick(ctx)
		}

		if state.ExitRequested() {
			logger.Info("editor_exit requested")
			return
		}
	}
}

// readKeys is the minimal stand-in key-event source: it maps a handful
// of control bytes to the named tokens keymap.ParseKeyEvent recognizes
// and passes every other rune through as a single-character token. A
// production front end replaces this
// with a real terminal raw-mode reader; the interface to the editor core
// (a channel of normalized key strings) does not change.
func readKeys(f *os.File, out chan<- string) {
	defer close(out)
	r := bufio.NewReader(f)
	for {
		ru, _, err := r.ReadRune()
		if err != nil {
			return
		}
		switch ru {
		case '\r', '\n':
			out <- "Enter"
		case 0x7f, 0x08:
			out <- "Backspace"
		case 0x1b:
			out <- "Esc"
		case '\t':
			out <- "Tab"
		default:
			out <- string(ru)
		}
	}
}

// hubTracer adapts editor.Tracer to the debug bridge.
type hubTracer struct {
	hub *debugbridge.Hub
}

func (h hubTracer) Broadcast(taskID uint64, req redcall.Request, resp redcall.Response) {
	h.hub.Broadcast(debugbridge.Trace{TaskId: taskID, Request: req, Response: resp})
}
