// Package config loads YAML configuration from ~/.cmdgate/config.yaml
// (overridable via CMDGATE_CONFIG), writing defaults on first run.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/ports"
)

// FileLoader loads configuration from disk.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader; path overrides the default
// location when non-empty.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

// Save persists the configuration.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return writeDefault(path, cfg)
}

// Path reports the resolved configuration file location.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("CMDGATE_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".cmdgate", "config.yaml")
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func defaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Execution: domain.ExecutionSettings{
			Backend:   "simulated",
			Shell:     "auto",
			TimeoutMS: domain.DefaultTimeoutMS,
		},
		Security: domain.SecuritySettings{
			Enabled:    boolPtr(true),
			PolicyFile: filepath.Join(userHomeDir(), ".cmdgate", "policy.yaml"),
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Execution.Backend == "" {
		cfg.Execution.Backend = "simulated"
	}
	if cfg.Execution.Shell == "" {
		cfg.Execution.Shell = "auto"
	}
	if cfg.Execution.TimeoutMS == 0 {
		cfg.Execution.TimeoutMS = domain.DefaultTimeoutMS
	}
	if cfg.Security.Enabled == nil {
		cfg.Security.Enabled = boolPtr(true)
	}
	return cfg
}

func boolPtr(b bool) *bool {
	return &b
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return path
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
