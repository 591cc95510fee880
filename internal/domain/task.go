// Package domain contains core business entities and interfaces.
package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task represents one immutable to-do item. "Changing" a task means
// constructing a new value with the same ID and CreatedAt and replacing
// the old one at its position in the registry's ordered sequence.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt time.Time `json:"createdAt"` // Creation time, never reassigned
	ID        string    `json:"id"`        // Opaque unique identifier, never reassigned
	Text      string    `json:"text"`      // Sanitized task text (1-200 chars trimmed)
	Completed bool      `json:"completed"` // Completion flag, false at creation
}

// WithCompleted returns a copy of the task with the completion flag set to done.
// ID, Text and CreatedAt are preserved.
func (t Task) WithCompleted(done bool) Task {
	t.Completed = done
	return t
}

// IsWellFormed reports whether the task can be persisted: non-empty id,
// non-empty text and a non-zero creation time.
func (t Task) IsWellFormed() bool {
	return t.ID != "" && strings.TrimSpace(t.Text) != "" && !t.CreatedAt.IsZero()
}

// NewTaskID generates a fresh task identifier from a high-resolution time
// component and a random component. Collisions are treated as negligible,
// not formally prevented.
func NewTaskID(now time.Time) string {
	return strconv.FormatInt(now.UnixNano(), 36) + "-" + uuid.NewString()[:8]
}
