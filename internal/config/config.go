// Package config loads and persists editor options: tab_width,
// expand_tabs, and the ambient startup_script and log_level settings.
// YAML on disk, defaults filled on a missing or partial file, atomic
// temp-file-then-rename writes so a crash mid-save never leaves a
// half-written file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

const maxConfigFileBytes = 1 << 20

// Options is the persisted, process-wide editor configuration.
type Options struct {
	TabWidth      uint16 `yaml:"tab_width"`
	ExpandTabs    bool   `yaml:"expand_tabs"`
	StartupScript string `yaml:"startup_script,omitempty"`
	LogLevel      string `yaml:"log_level"`
}

// Default returns the built-in option values used when no config file
// exists yet.
func Default() Options {
	return Options{TabWidth: 4, ExpandTabs: true, LogLevel: "info"}
}

// DefaultPath resolves the config file location under the user's config
// directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "badred", "options.yaml")
}

// Load reads path, filling in defaults for a missing file or missing
// fields. A missing file is not an error: Options{} plus Default()'s
// zero-value backstop is exactly the behavior of a fresh install.
func Load(path string) (Options, error) {
	opts := Default()
	raw, err := readLimited(path, maxConfigFileBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return opts, nil
		}
		return opts, err
	}
	if len(raw) == 0 {
		return opts, nil
	}
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return Default(), fmt.Errorf("load options: %w", err)
	}
	applyDefaults(&opts)
	return opts, nil
}

func applyDefaults(opts *Options) {
	if opts.TabWidth == 0 {
		opts.TabWidth = Default().TabWidth
	}
	if opts.LogLevel == "" {
		opts.LogLevel = Default().LogLevel
	}
}

// Save atomically writes opts to path: a temp file in the same directory
// is written and fsynced, then renamed over the destination, so readers
// never observe a partially written file.
func Save(path string, opts Options) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("save options: mkdir: %w", err)
	}
	raw, err := yaml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("save options: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".options.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("save options: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("save options: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("save options: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save options: close: %w", err)
	}

	return renameWithRetry(tmpPath, path)
}

func renameWithRetry(src, dst string) error {
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		if err := os.Rename(src, dst); err == nil {
			return nil
		} else {
			lastErr = err
		}
		time.Sleep(time.Duration(attempt+1) * 5 * time.Millisecond)
	}
	return fmt.Errorf("save options: rename: %w", lastErr)
}

func readLimited(path string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("options file exceeds %d bytes", maxBytes)
	}
	return raw, nil
}
