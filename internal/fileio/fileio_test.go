package fileio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileThenReadFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "note.txt")

	b := New()
	if err := b.WriteFile(path, []byte("hello world")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := b.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello world" {
		t.Fatalf("got = %q, want %q", got, "hello world")
	}
}

func TestReadFileMissingReturnsError(t *testing.T) {
	b := New()
	if _, err := b.ReadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error reading a missing file")
	}
}

func TestWriteFileReplacesExistingContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	b := New()
	if err := b.WriteFile(path, []byte("new")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "new" {
		t.Fatalf("got = %q, want %q", got, "new")
	}
}
