package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	opts, err := Load(filepath.Join(dir, "options.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts != Default() {
		t.Fatalf("opts = %+v, want defaults %+v", opts, Default())
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "options.yaml")

	want := Options{TabWidth: 8, ExpandTabs: false, StartupScript: "init.lua", LogLevel: "debug"}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("got = %+v, want %+v", got, want)
	}
}

func TestLoadFillsMissingFieldsWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.yaml")
	if err := Save(path, Options{ExpandTabs: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.TabWidth != Default().TabWidth {
		t.Fatalf("TabWidth = %d, want default %d", got.TabWidth, Default().TabWidth)
	}
	if got.LogLevel != Default().LogLevel {
		t.Fatalf("LogLevel = %q, want default %q", got.LogLevel, Default().LogLevel)
	}
}
