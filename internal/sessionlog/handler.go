// Package sessionlog feeds slog records into a bounded message-pane
// backlog. It does not feed the error/secondary_error hook kinds; those
// fire from task results in package editor. Every record is forwarded to a base
// handler unconditionally, and additionally teed to a callback when it
// meets a level threshold, with the callback panic-isolated so a faulty
// observer can never take slog itself down.
package sessionlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"
)

// EntryCallback observes one teed log record.
type EntryCallback func(ts time.Time, level slog.Level, msg string, source string)

// TeeHandler wraps a base slog.Handler and tees records at or above
// minLevel to callback. All records reach the base handler regardless of
// level; only the callback invocation is gated by minLevel.
type TeeHandler struct {
	base     slog.Handler
	callback EntryCallback
	minLevel slog.Level
	group    string
}

// NewTeeHandler creates a TeeHandler. A nil callback is safe: the handler
// degrades to a plain passthrough to base.
func NewTeeHandler(base slog.Handler, minLevel slog.Level, callback EntryCallback) *TeeHandler {
	return &TeeHandler{base: base, callback: callback, minLevel: minLevel}
}

func (h *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *TeeHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.base.Handle(ctx, record)

	if h.callback != nil && record.Level >= h.minLevel {
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintf(os.Stderr, "[session-log] callback panicked: %v\n%s\n", r, debug.Stack())
				}
			}()
			h.callback(record.Time, record.Level, record.Message, h.group)
		}()
	}
	return err
}

func (h *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return &TeeHandler{base: h.base.WithAttrs(attrs), callback: h.callback, minLevel: h.minLevel, group: h.group}
}

func (h *TeeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroup := name
	if h.group != "" {
		newGroup = h.group + "." + name
	}
	return &TeeHandler{base: h.base.WithGroup(name), callback: h.callback, minLevel: h.minLevel, group: newGroup}
}

// Entry is one backlog record surfaced to the message pane.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Source  string
}

// Backlog is a bounded ring of recent log entries for the message pane,
// oldest entries dropped first once Capacity is exceeded.
type Backlog struct {
	capacity int
	entries  []Entry
}

// NewBacklog creates a backlog holding at most capacity entries.
func NewBacklog(capacity int) *Backlog {
	if capacity <= 0 {
		capacity = 1
	}
	return &Backlog{capacity: capacity}
}

// Append adds an entry, evicting the oldest if the backlog is full.
func (b *Backlog) Append(e Entry) {
	b.entries = append(b.entries, e)
	if len(b.entries) > b.capacity {
		b.entries = b.entries[len(b.entries)-b.capacity:]
	}
}

// Entries returns the current backlog, oldest first.
func (b *Backlog) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Callback returns an EntryCallback that appends every teed record to b.
func (b *Backlog) Callback() EntryCallback {
	return func(ts time.Time, level slog.Level, msg string, source string) {
		b.Append(Entry{Time: ts, Level: level, Message: msg, Source: source})
	}
}
