// Package fileio is the disk-backed buffer.FileBackend, plus an
// optional fsnotify watcher that raises the file_changed_on_disk hook
// when a linked file is modified outside the editor.
package fileio

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backend implements buffer.FileBackend against the real filesystem.
// It is a zero-value-usable, stateless struct: all state lives on disk.
type Backend struct{}

// New creates a disk-backed file backend.
func New() *Backend { return &Backend{} }

// ReadFile reads path's full content.
func (*Backend) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fileio: read %s: %w", path, err)
	}
	return content, nil
}

// WriteFile writes content to path, creating parent directories as
// needed and replacing any existing file.
func (*Backend) WriteFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("fileio: mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("fileio: write %s: %w", path, err)
	}
	return nil
}
