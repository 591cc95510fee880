package domain

import (
	"context"
	"time"
)

// Medium is the durable key-value storage contract consumed by the
// persistence layer. One fixed key holds the entire serialized task
// sequence. Implementations report absence via the bool, not an error.
type Medium interface {
	// Get returns the value stored under key, and whether it was present.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	// Quota or capacity exhaustion is reported as (or wraps) ErrMediumFull.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the value stored under key. Removing an absent key
	// is not an error.
	Remove(ctx context.Context, key string) error
}

// LoadReport is the outcome of loading the persisted task sequence.
// Loading never fails: corruption is isolated per record and a broken
// container is treated as no data.
type LoadReport struct {
	Tasks    []Task // Tasks recovered, insertion order
	Dropped  int    // Records skipped due to per-record corruption
	Degraded bool   // Primary medium unavailable or container unparseable
}

// Clean reports whether the load completed without degradation or drops.
func (r LoadReport) Clean() bool {
	return !r.Degraded && r.Dropped == 0
}

// StoreStatus is a diagnostic snapshot of the persistence layer.
type StoreStatus struct {
	Available     bool // Durable medium passed its availability probe
	HasStoredData bool // The fixed key currently holds data
	FallbackCount int  // Records held in the in-memory fallback buffer
	StoredBytes   int  // Size of the serialized stored data, 0 if none
}

// TaskStore persists the ordered task sequence. It never panics and
// never partially writes: a save either replaces the full stored
// sequence or fails leaving the previous data intact.
type TaskStore interface {
	// Save serializes and stores the full task sequence (full replace).
	Save(ctx context.Context, tasks []Task) error

	// Load reads the stored sequence. Absence yields an empty report.
	Load(ctx context.Context) LoadReport

	// Clear removes the stored sequence. Idempotent.
	Clear(ctx context.Context) error

	// Status returns a diagnostic snapshot without side effects.
	Status(ctx context.Context) StoreStatus

	// CheckIntegrity re-loads the stored data and describes every entry
	// violating the basic shape (non-empty id and text). No mutation.
	CheckIntegrity(ctx context.Context) []string

	// Reprobe re-runs the availability probe and reports the result.
	Reprobe(ctx context.Context) bool
}

// HealthReport summarizes the registry's view of its persistence health.
type HealthReport struct {
	Healthy bool
	Issues  []string
}

// Logger is the minimal logging port used by the core components.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards everything. Used when no logger is configured.
type NopLogger struct{}

// Debug discards the message.
func (NopLogger) Debug(string, string) {}

// Info discards the message.
func (NopLogger) Info(string, string) {}

// Warn discards the message.
func (NopLogger) Warn(string, string) {}

// Error discards the message.
func (NopLogger) Error(string, string) {}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
