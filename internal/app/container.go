// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"fmt"

	"github.com/harunari/todoro/internal/domain"
	"github.com/harunari/todoro/internal/infra/config"
	"github.com/harunari/todoro/internal/infra/logging"
	"github.com/harunari/todoro/internal/infra/medium"
	"github.com/harunari/todoro/internal/infra/taskstore"
	"github.com/harunari/todoro/internal/registry"
	"github.com/harunari/todoro/internal/usecase"
)

// Options configures container construction.
type Options struct {
	ConfigPath string // Explicit config file path ("" = default location)
	DataDir    string // Explicit data directory ("" = default location)
}

// Container wires the application: config, logger, durable medium,
// persistence store and the task registry. The registry is constructed
// but not initialized; callers decide when to Initialize and whether a
// degraded load is worth warning about.
type Container struct {
	Registry *registry.Registry
	Store    domain.TaskStore
	Logger   *logging.Logger
	Clock    domain.Clock
	Config   *domain.Config

	closers []func() error
}

// New builds a Container from configuration. The availability probe of
// the persistence store runs here, so a dead redis or an unwritable data
// directory degrades to the in-memory fallback instead of failing.
func New(ctx context.Context, opts Options) (*Container, error) {
	loader := config.NewLoaderWithPath(opts.ConfigPath)
	if opts.ConfigPath == "" {
		loader = config.NewLoader()
	}
	if opts.DataDir != "" {
		loader = loader.WithDataDir(opts.DataDir)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(cfg.Storage.Dir, logging.ParseLevel(cfg.Log.Level))

	med, closer, err := newMedium(cfg)
	if err != nil {
		return nil, err
	}

	store := taskstore.New(ctx, med, cfg.Storage.Key, logger)
	clock := domain.RealClock{}
	reg := registry.New(store, clock, logger)

	c := &Container{
		Registry: reg,
		Store:    store,
		Logger:   logger,
		Clock:    clock,
		Config:   cfg,
	}
	c.closers = append(c.closers, logger.Close)
	if closer != nil {
		c.closers = append(c.closers, closer)
	}
	return c, nil
}

// NewWithDeps creates a Container with custom dependencies for testing.
func NewWithDeps(reg *registry.Registry, store domain.TaskStore, clock domain.Clock, cfg *domain.Config) *Container {
	return &Container{
		Registry: reg,
		Store:    store,
		Clock:    clock,
		Config:   cfg,
	}
}

// newMedium selects the durable medium from the [storage] section.
func newMedium(cfg *domain.Config) (domain.Medium, func() error, error) {
	switch cfg.Storage.Backend {
	case domain.BackendFile:
		return medium.NewFile(cfg.Storage.Dir), nil, nil
	case domain.BackendRedis:
		r := medium.NewRedisFromConfig(cfg.Redis)
		return r, r.Close, nil
	case domain.BackendMemory:
		return medium.NewMemory(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Close releases everything the container opened.
func (c *Container) Close() error {
	var lastErr error
	for _, close := range c.closers {
		if err := close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// UseCase factory methods

// ExportTasksUseCase returns a new ExportTasks use case.
func (c *Container) ExportTasksUseCase() *usecase.ExportTasks {
	return usecase.NewExportTasks(c.Registry)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.Registry)
}
