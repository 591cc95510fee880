package domain

import "time"

// ConfigFileName is the configuration file name inside the config directory.
const ConfigFileName = "config.toml"

// DefaultStorageKey is the fixed key the task sequence is stored under.
const DefaultStorageKey = "todoro.tasks"

// Storage backend names accepted in [storage].backend.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config represents the application configuration.
type Config struct {
	Storage  StorageConfig // [storage] settings
	Redis    RedisConfig   // [redis] settings
	Log      LogConfig     // [log] settings
	Health   HealthConfig  // [health] settings
	Warnings []string      // Unknown keys found while loading
}

// StorageConfig selects and locates the durable medium.
type StorageConfig struct {
	Backend string // file, redis or memory
	Dir     string // Data directory for the file backend (and logs)
	Key     string // Storage key for the task sequence
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string // debug, info, warn, error
}

// HealthConfig controls the periodic health-check loop.
type HealthConfig struct {
	Interval time.Duration // 0 disables the loop
}

// NewDefaultConfig returns the configuration used when no file exists.
// The data directory is resolved by the loader since it depends on the
// environment.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Key:     DefaultStorageKey,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Log: LogConfig{
			Level: "info",
		},
		Health: HealthConfig{
			Interval: 30 * time.Second,
		},
	}
}
