// Package testutil provides shared test doubles and helpers.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harunari/todoro/internal/app"
	"github.com/harunari/todoro/internal/domain"
	"github.com/harunari/todoro/internal/infra/medium"
	"github.com/harunari/todoro/internal/infra/taskstore"
	"github.com/harunari/todoro/internal/registry"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (c *MockClock) Now() time.Time {
	return c.NowTime
}

// NewMemoryContainer builds an app.Container over a fresh in-memory
// medium and returns the medium so tests can seed or inspect it.
func NewMemoryContainer(t *testing.T) (*app.Container, *medium.Memory) {
	t.Helper()

	med := medium.NewMemory()
	cfg := domain.NewDefaultConfig()
	cfg.Storage.Backend = domain.BackendMemory
	cfg.Storage.Dir = t.TempDir()

	store := taskstore.New(context.Background(), med, cfg.Storage.Key, nil)
	clock := &MockClock{NowTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	reg := registry.New(store, clock, nil)

	return app.NewWithDeps(reg, store, clock, cfg), med
}

// SeedTasks persists tasks into med under the default storage key, the
// way a previous process run would have left them.
func SeedTasks(t *testing.T, med domain.Medium, tasks []domain.Task) {
	t.Helper()

	store := taskstore.New(context.Background(), med, domain.DefaultStorageKey, nil)
	require.NoError(t, store.Save(context.Background(), tasks))
}
