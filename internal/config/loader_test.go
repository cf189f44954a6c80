package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/cmdgate/internal/domain"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Execution.Backend != "simulated" {
		t.Fatalf("backend = %q", cfg.Execution.Backend)
	}
	if cfg.Execution.TimeoutMS != domain.DefaultTimeoutMS {
		t.Fatalf("timeout = %d", cfg.Execution.TimeoutMS)
	}
	if !cfg.Security.IsEnabled() {
		t.Fatalf("security disabled by default")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
}

func TestLoadHydratesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("execution:\n  backend: shell\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Execution.Backend != "shell" {
		t.Fatalf("backend = %q", cfg.Execution.Backend)
	}
	if cfg.Execution.Shell != "auto" || cfg.Execution.TimeoutMS != domain.DefaultTimeoutMS {
		t.Fatalf("defaults not hydrated: %+v", cfg.Execution)
	}
}

func TestLoadKeepsSecurityOnWhenSectionOmitted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("execution:\n  backend: simulated\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Security.IsEnabled() {
		t.Fatalf("omitted security section disabled protections: %+v", cfg.Security)
	}
	if cfg.Security.Enabled == nil || !*cfg.Security.Enabled {
		t.Fatalf("security flag not hydrated: %+v", cfg.Security)
	}
}

func TestLoadHonorsExplicitSecurityOptOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("security:\n  enabled: false\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Security.IsEnabled() {
		t.Fatalf("explicit opt-out ignored: %+v", cfg.Security)
	}
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv("CMDGATE_CONFIG", path)

	loader := NewFileLoader("")
	if loader.Path() != path {
		t.Fatalf("resolved path = %q, want %q", loader.Path(), path)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	cfg.Execution.Backend = "shell"
	if err := loader.Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	again, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if again.Execution.Backend != "shell" {
		t.Fatalf("backend = %q", again.Execution.Backend)
	}
}
