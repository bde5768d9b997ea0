package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name == "" {
		t.Fatal("expected a default client name")
	}
	if cfg.Solver.ConnectTimeoutSeconds <= 0 {
		t.Fatal("expected a positive default connect timeout")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != DefaultConfig().Name {
		t.Fatalf("expected default name, got %q", cfg.Name)
	}
}

func TestLoadAndSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Solver.Path = "/usr/local/bin/optalcp"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Solver.Path != cfg.Solver.Path {
		t.Fatalf("expected solver path %q, got %q", cfg.Solver.Path, loaded.Solver.Path)
	}
}

func TestEnvOverrideAppliesWhenUnset(t *testing.T) {
	t.Setenv("OPTALCP_SOLVER", "ws://localhost:1234")
	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	if cfg.Solver.Path != "ws://localhost:1234" {
		t.Fatalf("expected env override to apply, got %q", cfg.Solver.Path)
	}
}

func TestEnvOverrideDoesNotClobberExplicitPath(t *testing.T) {
	t.Setenv("OPTALCP_SOLVER", "ws://localhost:1234")
	cfg := DefaultConfig()
	cfg.Solver.Path = "/explicit/path"
	cfg.applyEnvOverrides()
	if cfg.Solver.Path != "/explicit/path" {
		t.Fatalf("expected explicit path to win, got %q", cfg.Solver.Path)
	}
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
}
