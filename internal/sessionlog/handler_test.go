package sessionlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestHandleForwardsToBaseRegardlessOfCallback(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	h := NewTeeHandler(base, slog.LevelError, nil)

	logger := slog.New(h)
	logger.Info("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("base handler did not receive record: %q", buf.String())
	}
}

func TestCallbackFiresOnlyAtOrAboveMinLevel(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)

	var seen []string
	h := NewTeeHandler(base, slog.LevelError, func(ts time.Time, level slog.Level, msg string, source string) {
		seen = append(seen, msg)
	})
	logger := slog.New(h)

	logger.Info("info message")
	logger.Error("error message")

	if len(seen) != 1 || seen[0] != "error message" {
		t.Fatalf("seen = %v, want only the error-level record", seen)
	}
}

func TestCallbackPanicIsContained(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, nil)
	h := NewTeeHandler(base, slog.LevelInfo, func(ts time.Time, level slog.Level, msg string, source string) {
		panic("boom")
	})
	logger := slog.New(h)

	logger.Info("should not crash the process")
}

func TestWithGroupAccumulatesDotted(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, nil)
	var gotSource string
	h := NewTeeHandler(base, slog.LevelInfo, func(ts time.Time, level slog.Level, msg string, source string) {
		gotSource = source
	})

	grouped := h.WithGroup("outer").WithGroup("inner")
	logger := slog.New(grouped)
	logger.Info("nested")

	if gotSource != "outer.inner" {
		t.Fatalf("source = %q, want %q", gotSource, "outer.inner")
	}
}

func TestWithAttrsPreservesCallback(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, nil)
	fired := false
	h := NewTeeHandler(base, slog.LevelInfo, func(ts time.Time, level slog.Level, msg string, source string) {
		fired = true
	})

	withAttrs := h.WithAttrs([]slog.Attr{slog.String("k", "v")})
	logger := slog.New(withAttrs)
	logger.Info("attributed")

	if !fired {
		t.Fatalf("expected callback to fire through WithAttrs-derived handler")
	}
}

func TestBacklogEvictsOldestBeyondCapacity(t *testing.T) {
	b := NewBacklog(2)
	b.Append(Entry{Message: "one"})
	b.Append(Entry{Message: "two"})
	b.Append(Entry{Message: "three"})

	entries := b.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Message != "two" || entries[1].Message != "three" {
		t.Fatalf("entries = %+v, want [two three]", entries)
	}
}

func TestBacklogCallbackAppendsTeedRecords(t *testing.T) {
	b := NewBacklog(10)
	base := slog.NewTextHandler(&bytes.Buffer{}, nil)
	h := NewTeeHandler(base, slog.LevelWarn, b.Callback())
	logger := slog.New(h)

	logger.Info("ignored, below threshold")
	logger.Warn("surfaced")
	logger.Error("surfaced too")

	entries := b.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2, got %+v", len(entries), entries)
	}
	if entries[0].Message != "surfaced" || entries[1].Message != "surfaced too" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestEnabledDelegatesToBase(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	h := NewTeeHandler(base, slog.LevelInfo, nil)

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("expected base's higher level threshold to suppress Info")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("expected Error to be enabled")
	}
}
