// Package taskstore persists the task sequence to a durable key-value
// medium, degrading to an in-memory fallback buffer when the medium is
// unavailable or its contents cannot be parsed.
package taskstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/harunari/todoro/internal/domain"
)

// Ensure Store implements domain.TaskStore.
var _ domain.TaskStore = (*Store)(nil)

// probeSuffix is appended to the storage key to form the availability
// probe key. The probe writes and deletes a throwaway value.
const probeSuffix = ".probe"

// record is the wire shape persisted under the storage key.
// CreatedAt is serialized as an RFC 3339 timestamp string.
type record struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// looseRecord is the shape used when reading back. Pointer fields let the
// decoder distinguish an absent or null field from an empty one.
type looseRecord struct {
	ID        *string `json:"id"`
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
	CreatedAt *string `json:"createdAt"`
}

// Store implements domain.TaskStore over a domain.Medium.
// Fields are ordered to minimize memory padding.
type Store struct {
	medium    domain.Medium
	logger    domain.Logger
	fallback  []record
	key       string
	mu        sync.Mutex
	available bool
}

// New creates a Store over medium, storing the task sequence under key.
// Availability is probed once here; a failed probe pins the store to the
// fallback buffer until Reprobe succeeds.
func New(ctx context.Context, medium domain.Medium, key string, logger domain.Logger) *Store {
	s := &Store{
		medium: medium,
		key:    key,
		logger: logger,
	}
	s.available = s.probe(ctx)
	if !s.available {
		s.logf().Warn("store", "durable medium unavailable, using in-memory fallback")
	}
	return s
}

// probe attempts a harmless write+delete round trip on the probe key.
func (s *Store) probe(ctx context.Context) bool {
	probeKey := s.key + probeSuffix
	if err := s.medium.Set(ctx, probeKey, "probe"); err != nil {
		return false
	}
	if err := s.medium.Remove(ctx, probeKey); err != nil {
		return false
	}
	return true
}

// Save serializes tasks and writes the full sequence atomically under the
// storage key (full replace, not merge). A failed primary write falls back
// to the in-memory buffer so the data is not silently lost, but the error
// is still returned so the caller can roll back.
func (s *Store) Save(ctx context.Context, tasks []domain.Task) error {
	for i, t := range tasks {
		if !t.IsWellFormed() {
			return fmt.Errorf("%w: element %d is not a well-formed task", domain.ErrInvalidTask, i)
		}
	}

	records := make([]record, len(tasks))
	for i, t := range tasks {
		records[i] = record{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt.Format(time.RFC3339Nano),
		}
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal task records: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available {
		s.fallback = records
		return nil
	}

	if err := s.medium.Set(ctx, s.key, string(payload)); err != nil {
		// Keep a copy in memory before reporting the failure.
		s.fallback = records
		s.logf().Error("store", fmt.Sprintf("save failed, kept %d record(s) in fallback: %v", len(records), err))
		return fmt.Errorf("persist tasks: %w", err)
	}

	return nil
}

// Load reads the stored task sequence. It never fails: an absent key
// yields an empty report, an unparseable container is treated as no data,
// and each record is parsed independently so one corrupt record never
// discards the rest.
func (s *Store) Load(ctx context.Context) domain.LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available {
		return s.loadFallback()
	}

	raw, ok, err := s.medium.Get(ctx, s.key)
	if err != nil {
		s.logf().Warn("store", fmt.Sprintf("read failed, serving fallback: %v", err))
		rep := s.loadFallback()
		rep.Degraded = true
		return rep
	}
	if !ok {
		return domain.LoadReport{Tasks: []domain.Task{}}
	}

	var rawRecords []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rawRecords); err != nil {
		s.logf().Warn("store", fmt.Sprintf("stored container unparseable, treating as empty: %v", err))
		return domain.LoadReport{Tasks: []domain.Task{}, Degraded: true}
	}

	tasks := make([]domain.Task, 0, len(rawRecords))
	dropped := 0
	for i, rr := range rawRecords {
		task, err := decodeRecord(rr)
		if err != nil {
			dropped++
			s.logf().Warn("store", fmt.Sprintf("dropped corrupt record %d: %v", i, err))
			continue
		}
		tasks = append(tasks, task)
	}

	return domain.LoadReport{Tasks: tasks, Dropped: dropped}
}

// loadFallback converts the fallback buffer. Serving from the fallback is
// always a degraded load: the durable copy could not be used.
func (s *Store) loadFallback() domain.LoadReport {
	tasks := make([]domain.Task, 0, len(s.fallback))
	dropped := 0
	for _, r := range s.fallback {
		created, err := time.Parse(time.RFC3339, r.CreatedAt)
		if err != nil {
			dropped++
			continue
		}
		tasks = append(tasks, domain.Task{
			ID:        r.ID,
			Text:      r.Text,
			Completed: r.Completed,
			CreatedAt: created,
		})
	}
	return domain.LoadReport{Tasks: tasks, Dropped: dropped, Degraded: true}
}

// decodeRecord parses one wire record into a Task, rejecting bad shapes,
// invalid timestamps and texts the validator refuses.
func decodeRecord(raw json.RawMessage) (domain.Task, error) {
	var lr looseRecord
	if err := json.Unmarshal(raw, &lr); err != nil {
		return domain.Task{}, fmt.Errorf("bad record shape: %w", err)
	}
	if lr.Text == nil {
		return domain.Task{}, &domain.ValidationError{Kind: domain.KindNotString, Message: "text field absent or not a string"}
	}
	if lr.ID == nil || strings.TrimSpace(*lr.ID) == "" {
		return domain.Task{}, fmt.Errorf("record has no id")
	}
	if lr.CreatedAt == nil {
		return domain.Task{}, fmt.Errorf("record has no createdAt")
	}
	if verr := domain.ValidateStored(*lr.Text); verr != nil {
		return domain.Task{}, verr
	}
	created, err := time.Parse(time.RFC3339, *lr.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("invalid createdAt timestamp: %w", err)
	}

	completed := false
	if lr.Completed != nil {
		completed = *lr.Completed
	}

	return domain.Task{
		ID:        *lr.ID,
		Text:      *lr.Text,
		Completed: completed,
		CreatedAt: created,
	}, nil
}

// Clear removes the stored sequence from the medium and empties the
// fallback buffer. Clearing an already-empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.available {
		if err := s.medium.Remove(ctx, s.key); err != nil {
			return fmt.Errorf("clear stored tasks: %w", err)
		}
	}
	s.fallback = nil
	return nil
}

// Status returns a diagnostic snapshot. No side effects.
func (s *Store) Status(ctx context.Context) domain.StoreStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := domain.StoreStatus{
		Available:     s.available,
		FallbackCount: len(s.fallback),
	}
	if s.available {
		if raw, ok, err := s.medium.Get(ctx, s.key); err == nil && ok {
			st.HasStoredData = true
			st.StoredBytes = len(raw)
		}
	}
	return st
}

// CheckIntegrity re-runs Load and reports every entry missing an id or
// text. Decode-level corruption is already dropped by Load, so violations
// here point at data written by something other than this store.
func (s *Store) CheckIntegrity(ctx context.Context) []string {
	rep := s.Load(ctx)

	var violations []string
	if rep.Degraded {
		violations = append(violations, "load degraded: durable data unavailable or unparseable")
	}
	if rep.Dropped > 0 {
		violations = append(violations, fmt.Sprintf("%d corrupt record(s) dropped on load", rep.Dropped))
	}
	for i, t := range rep.Tasks {
		if t.ID == "" {
			violations = append(violations, fmt.Sprintf("entry %d has an empty id", i))
		}
		if strings.TrimSpace(t.Text) == "" {
			violations = append(violations, fmt.Sprintf("entry %d has empty text", i))
		}
	}
	return violations
}

// Reprobe re-runs the availability probe, updating the store's view of
// the medium. Used by recovery after a degraded start.
func (s *Store) Reprobe(ctx context.Context) bool {
	ok := s.probe(ctx)

	s.mu.Lock()
	wasAvailable := s.available
	s.available = ok
	s.mu.Unlock()

	if ok && !wasAvailable {
		s.logf().Info("store", "durable medium became available")
	}
	return ok
}

// logf returns the configured logger, or a no-op one.
func (s *Store) logf() domain.Logger {
	if s.logger != nil {
		return s.logger
	}
	return domain.NopLogger{}
}
