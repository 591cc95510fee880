// Package config provides configuration loading functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/harunari/todoro/internal/domain"
)

// Loader loads configuration from a TOML file, filling defaults for
// anything the file does not set.
type Loader struct {
	path    string // Explicit config file path ("" = default location)
	dataDir string // Explicit data directory ("" = default location)
}

// NewLoader creates a Loader for the default config location
// ($XDG_CONFIG_HOME/todoro/config.toml).
func NewLoader() *Loader {
	return &Loader{}
}

// NewLoaderWithPath creates a Loader reading the given file. Useful for
// tests and the --config flag.
func NewLoaderWithPath(path string) *Loader {
	return &Loader{path: path}
}

// WithDataDir overrides the resolved data directory.
func (l *Loader) WithDataDir(dir string) *Loader {
	l.dataDir = dir
	return l
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "todoro", domain.ConfigFileName)
}

// DefaultDataDir returns the default data directory
// ($XDG_DATA_HOME/todoro).
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "todoro")
}

// fileConfig mirrors the TOML file shape. Everything is optional.
type fileConfig struct {
	Storage *struct {
		Backend *string `toml:"backend"`
		Dir     *string `toml:"dir"`
		Key     *string `toml:"key"`
	} `toml:"storage"`
	Redis *struct {
		Addr     *string `toml:"addr"`
		Password *string `toml:"password"`
		DB       *int    `toml:"db"`
	} `toml:"redis"`
	Log *struct {
		Level *string `toml:"level"`
	} `toml:"log"`
	Health *struct {
		Interval *string `toml:"interval"`
	} `toml:"health"`
}

// Load returns the configuration: defaults overridden by whatever the
// config file sets. A missing file yields the defaults without error.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()
	if l.dataDir != "" {
		cfg.Storage.Dir = l.dataDir
	} else {
		cfg.Storage.Dir = DefaultDataDir()
	}

	path := l.path
	if path == "" {
		path = DefaultConfigPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyFileConfig(cfg, &fc)
	collectWarnings(cfg, data)
	return cfg, nil
}

// applyFileConfig overlays the file values onto cfg.
func applyFileConfig(cfg *domain.Config, fc *fileConfig) {
	if fc.Storage != nil {
		if fc.Storage.Backend != nil {
			cfg.Storage.Backend = *fc.Storage.Backend
		}
		if fc.Storage.Dir != nil {
			cfg.Storage.Dir = *fc.Storage.Dir
		}
		if fc.Storage.Key != nil {
			cfg.Storage.Key = *fc.Storage.Key
		}
	}
	if fc.Redis != nil {
		if fc.Redis.Addr != nil {
			cfg.Redis.Addr = *fc.Redis.Addr
		}
		if fc.Redis.Password != nil {
			cfg.Redis.Password = *fc.Redis.Password
		}
		if fc.Redis.DB != nil {
			cfg.Redis.DB = *fc.Redis.DB
		}
	}
	if fc.Log != nil && fc.Log.Level != nil {
		cfg.Log.Level = *fc.Log.Level
	}
	if fc.Health != nil && fc.Health.Interval != nil {
		if d, err := time.ParseDuration(*fc.Health.Interval); err == nil {
			cfg.Health.Interval = d
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid [health].interval %q, using default", *fc.Health.Interval))
		}
	}
}

// knownSections lists the sections the loader understands.
var knownSections = map[string]bool{
	"storage": true,
	"redis":   true,
	"log":     true,
	"health":  true,
}

// collectWarnings reports unknown top-level sections so typos in the
// config file do not silently do nothing.
func collectWarnings(cfg *domain.Config, data []byte) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return
	}
	for section := range raw {
		if !knownSections[section] {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}
	sort.Strings(cfg.Warnings)
}

// Validate checks the loaded configuration for values the rest of the
// application cannot work with.
func Validate(cfg *domain.Config) error {
	switch cfg.Storage.Backend {
	case domain.BackendFile, domain.BackendRedis, domain.BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Key == "" {
		return fmt.Errorf("storage key cannot be empty")
	}
	if cfg.Storage.Backend == domain.BackendFile && cfg.Storage.Dir == "" {
		return fmt.Errorf("storage dir cannot be empty with the file backend")
	}
	return nil
}
