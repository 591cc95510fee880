// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harunari/todoro/internal/domain"
)

// taskFile is the YAML document shape used by export and import.
type taskFile struct {
	Tasks []taskEntry `yaml:"tasks"`
}

// taskEntry is one task in a YAML task file. ID and CreatedAt are
// written on export and ignored on import: imported tasks go through the
// registry and get fresh identities.
type taskEntry struct {
	ID        string `yaml:"id,omitempty"`
	Text      string `yaml:"text"`
	Completed bool   `yaml:"completed,omitempty"`
	CreatedAt string `yaml:"createdAt,omitempty"`
}

// ExportTasksOutput contains the result of exporting tasks.
type ExportTasksOutput struct {
	YAML  []byte // Marshaled task file
	Count int    // Number of tasks exported
}

// ExportTasks is the use case for writing the task sequence to a YAML
// task file.
type ExportTasks struct {
	registry Registry
}

// NewExportTasks creates a new ExportTasks use case.
func NewExportTasks(registry Registry) *ExportTasks {
	return &ExportTasks{registry: registry}
}

// Execute marshals the current task sequence in insertion order.
func (uc *ExportTasks) Execute(_ context.Context) (*ExportTasksOutput, error) {
	tasks := uc.registry.All()

	doc := taskFile{Tasks: make([]taskEntry, len(tasks))}
	for i, t := range tasks {
		doc.Tasks[i] = taskEntry{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt.Format(time.RFC3339Nano),
		}
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshal task file: %w", err)
	}

	return &ExportTasksOutput{YAML: out, Count: len(tasks)}, nil
}

// Registry is the slice of the task registry the use cases need.
type Registry interface {
	All() []domain.Task
	Add(ctx context.Context, text string) (domain.Task, error)
	Toggle(ctx context.Context, id string) (domain.Task, error)
}
