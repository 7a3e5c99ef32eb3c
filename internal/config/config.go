// Package config loads valet's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/valet/internal/schema"
)

// Default values
const (
	DefaultToastDuration = 2 * time.Second
	DirName              = "valet"
	FileName             = "config.yaml"
	DatabaseFileName     = "valet.db"
)

// Config is the decoded configuration file.
type Config struct {
	// Database is the SQLite database path.
	Database string `yaml:"database"`

	// ToastDuration is how long a toast stays visible in the UI.
	ToastDuration time.Duration `yaml:"toast_duration"`

	// DisableAnimations keeps toasts on screen until the next key press
	// instead of timing them out.
	DisableAnimations bool `yaml:"disable_animations"`

	// ExportDir is where `export` writes when no file is given.
	ExportDir string `yaml:"export_dir"`
}

// Defaults returns the configuration used when no file exists. dir is the
// valet config directory; the database lives next to the config file.
func Defaults(dir string) Config {
	return Config{
		Database:      filepath.Join(dir, DatabaseFileName),
		ToastDuration: DefaultToastDuration,
		ExportDir:     ".",
	}
}

// Dir returns the per-user valet config directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, DirName), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the config file at path. A missing file yields the defaults
// for path's directory. The file is validated against the CUE #Config
// schema before decoding, so unknown keys and malformed durations are
// reported with their key names.
func Load(path string, v *schema.Validator) (Config, error) {
	cfg := Defaults(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := v.Validate(schema.Config, raw); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.ToastDuration <= 0 {
		cfg.ToastDuration = DefaultToastDuration
	}
	return cfg, nil
}

// Values returns cfg keyed by its file keys, in the form the #Config
// schema checks.
func (c Config) Values() map[string]any {
	return map[string]any{
		"database":           c.Database,
		"toast_duration":     c.ToastDuration.String(),
		"disable_animations": c.DisableAnimations,
		"export_dir":         c.ExportDir,
	}
}

// Save writes cfg to path as YAML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg.Values())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
