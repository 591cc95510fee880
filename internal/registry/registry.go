// Package registry owns the authoritative in-memory task sequence and
// reconciles every mutation with the persistence layer: validate, mutate,
// persist, and roll back the mutation if persistence fails.
package registry

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/harunari/todoro/internal/domain"
)

// Registry is the single owner of the ordered task sequence. Insertion
// order is significant and preserved across reloads. All mutations are
// serialized through one mutex so the best-effort health loop can run
// beside caller operations.
// Fields are ordered to minimize memory padding.
type Registry struct {
	store         domain.TaskStore
	clock         domain.Clock
	logger        domain.Logger
	tasks         []domain.Task
	mu            sync.Mutex
	initialized   bool
	wasDegraded   bool
	lastAvailable bool
}

// New creates an uninitialized Registry. Call Initialize before any
// mutation or projection.
func New(store domain.TaskStore, clock domain.Clock, logger domain.Logger) *Registry {
	return &Registry{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Initialize loads the persisted tasks into memory. It transitions the
// registry to initialized exactly once; a degraded or partial load still
// initializes (with whatever could be recovered) and returns clean=false
// so the caller can surface a non-fatal warning. Calling Initialize on an
// initialized registry returns domain.ErrAlreadyInitialized.
func (r *Registry) Initialize(ctx context.Context) (clean bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return false, domain.ErrAlreadyInitialized
	}

	rep := r.store.Load(ctx)
	r.tasks = rep.Tasks
	if r.tasks == nil {
		r.tasks = []domain.Task{}
	}
	r.initialized = true
	r.wasDegraded = rep.Degraded
	r.lastAvailable = r.store.Status(ctx).Available

	if !rep.Clean() {
		r.log().Warn("registry", fmt.Sprintf("initialized degraded: %d task(s) loaded, %d dropped, degraded=%v",
			len(rep.Tasks), rep.Dropped, rep.Degraded))
		return false, nil
	}

	r.log().Info("registry", fmt.Sprintf("initialized with %d task(s)", len(rep.Tasks)))
	return true, nil
}

// Add validates and sanitizes text, constructs a new Task and appends it
// to the end of the sequence. The append is rolled back if the save fails,
// so in-memory and durable state never diverge after a reported failure.
func (r *Registry) Add(ctx context.Context, text string) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return domain.Task{}, domain.ErrNotInitialized
	}

	if verr := domain.Validate(text); verr != nil {
		return domain.Task{}, verr
	}

	now := r.clock.Now()
	task := domain.Task{
		ID:        domain.NewTaskID(now),
		Text:      domain.Sanitize(text),
		Completed: false,
		CreatedAt: now,
	}

	r.tasks = append(r.tasks, task)
	if err := r.store.Save(ctx, r.tasks); err != nil {
		r.tasks = r.tasks[:len(r.tasks)-1]
		r.log().Error("registry", fmt.Sprintf("add rolled back: %v", err))
		return domain.Task{}, fmt.Errorf("save task: %w", err)
	}

	r.log().Info("registry", fmt.Sprintf("added task %s", task.ID))
	return task, nil
}

// Toggle replaces the task with the given id by a copy with the inverted
// completion flag, preserving id, text, creation time and position. The
// original task is restored if the save fails.
func (r *Registry) Toggle(ctx context.Context, id string) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return domain.Task{}, domain.ErrNotInitialized
	}

	idx := r.indexOf(id)
	if idx < 0 {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	original := r.tasks[idx]
	r.tasks[idx] = original.WithCompleted(!original.Completed)
	if err := r.store.Save(ctx, r.tasks); err != nil {
		r.tasks[idx] = original
		r.log().Error("registry", fmt.Sprintf("toggle rolled back: %v", err))
		return domain.Task{}, fmt.Errorf("save task: %w", err)
	}

	return r.tasks[idx], nil
}

// Delete removes the task with the given id, shifting subsequent tasks
// while preserving order. The task is reinserted at its original index if
// the save fails.
func (r *Registry) Delete(ctx context.Context, id string) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return domain.Task{}, domain.ErrNotInitialized
	}

	idx := r.indexOf(id)
	if idx < 0 {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	removed := r.tasks[idx]
	r.tasks = slices.Delete(r.tasks, idx, idx+1)
	if err := r.store.Save(ctx, r.tasks); err != nil {
		r.tasks = slices.Insert(r.tasks, idx, removed)
		r.log().Error("registry", fmt.Sprintf("delete rolled back: %v", err))
		return domain.Task{}, fmt.Errorf("save task: %w", err)
	}

	r.log().Info("registry", fmt.Sprintf("deleted task %s", removed.ID))
	return removed, nil
}

// ClearAll empties the sequence and clears the durable copy. The previous
// sequence is restored from a snapshot if the clear fails.
func (r *Registry) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return domain.ErrNotInitialized
	}

	snapshot := r.tasks
	r.tasks = []domain.Task{}
	if err := r.store.Clear(ctx); err != nil {
		r.tasks = snapshot
		r.log().Error("registry", fmt.Sprintf("clear rolled back: %v", err))
		return fmt.Errorf("clear tasks: %w", err)
	}

	r.log().Info("registry", fmt.Sprintf("cleared %d task(s)", len(snapshot)))
	return nil
}

// All returns a snapshot copy of the sequence in insertion order.
func (r *Registry) All() []domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.tasks)
}

// Active returns the tasks not yet completed, insertion order.
func (r *Registry) Active() []domain.Task {
	return r.filtered(false)
}

// Completed returns the completed tasks, insertion order.
func (r *Registry) Completed() []domain.Task {
	return r.filtered(true)
}

func (r *Registry) filtered(done bool) []domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if t.Completed == done {
			out = append(out, t)
		}
	}
	return out
}

// TotalCount returns the number of tasks.
func (r *Registry) TotalCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// CompletedCount returns the number of completed tasks.
func (r *Registry) CompletedCount() int {
	return r.count(true)
}

// ActiveCount returns the number of active tasks.
func (r *Registry) ActiveCount() int {
	return r.count(false)
}

func (r *Registry) count(done bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tasks {
		if t.Completed == done {
			n++
		}
	}
	return n
}

// CheckHealth inspects the persistence layer and reports any issues.
// No mutation.
func (r *Registry) CheckHealth(ctx context.Context) domain.HealthReport {
	r.mu.Lock()
	initialized := r.initialized
	r.mu.Unlock()

	var issues []string
	if !initialized {
		issues = append(issues, "registry not initialized")
	}

	st := r.store.Status(ctx)
	if !st.Available {
		issues = append(issues, "durable medium unavailable, running on in-memory fallback")
	}
	issues = append(issues, r.store.CheckIntegrity(ctx)...)

	return domain.HealthReport{Healthy: len(issues) == 0, Issues: issues}
}

// AttemptRecovery re-probes the durable medium and, if it has come back
// after being unavailable, re-saves the in-memory sequence so the durable
// copy catches up. Best effort: a failed re-save leaves the in-memory
// state untouched. Returns true when the medium is available afterwards.
func (r *Registry) AttemptRecovery(ctx context.Context) bool {
	available := r.store.Reprobe(ctx)

	r.mu.Lock()
	cameBack := available && !r.lastAvailable
	r.lastAvailable = available
	tasks := slices.Clone(r.tasks)
	initialized := r.initialized
	r.mu.Unlock()

	if !available || !initialized {
		return available
	}

	if cameBack {
		if err := r.store.Save(ctx, tasks); err != nil {
			r.log().Warn("registry", fmt.Sprintf("recovery re-save failed: %v", err))
		} else {
			r.log().Info("registry", fmt.Sprintf("recovery re-saved %d task(s)", len(tasks)))
		}
	}
	return true
}

// RunHealthLoop runs CheckHealth and AttemptRecovery every interval until
// ctx is cancelled. Intended to be launched on its own goroutine by
// long-lived callers; one-shot CLI commands skip it.
func (r *Registry) RunHealthLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rep := r.CheckHealth(ctx)
			if !rep.Healthy {
				r.log().Warn("health", fmt.Sprintf("unhealthy: %v", rep.Issues))
				r.AttemptRecovery(ctx)
			}
		}
	}
}

// indexOf returns the position of the task with the given id, or -1.
// Callers must hold the mutex.
func (r *Registry) indexOf(id string) int {
	return slices.IndexFunc(r.tasks, func(t domain.Task) bool { return t.ID == id })
}

// log returns the configured logger, or a no-op one.
func (r *Registry) log() domain.Logger {
	if r.logger != nil {
		return r.logger
	}
	return domain.NopLogger{}
}
