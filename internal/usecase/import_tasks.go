package usecase

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/harunari/todoro/internal/domain"
)

// ImportTasksInput contains the parameters for importing tasks.
type ImportTasksInput struct {
	Content string // YAML task file content
	DryRun  bool   // Validate and report without adding
}

// ImportTasksOutput contains the result of importing tasks.
type ImportTasksOutput struct {
	Added   []domain.Task // Tasks created (empty on dry run)
	Texts   []string      // Accepted texts, in file order
	Skipped []string      // Per-entry rejection messages
}

// ImportTasks is the use case for adding tasks from a YAML task file.
// Entries are re-validated through the registry, so an imported file can
// never smuggle in text the Add path would reject. Rejected entries are
// skipped and reported; the rest are still imported.
type ImportTasks struct {
	registry Registry
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(registry Registry) *ImportTasks {
	return &ImportTasks{registry: registry}
}

// Execute parses content and adds each acceptable entry.
func (uc *ImportTasks) Execute(ctx context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	var doc taskFile
	if err := yaml.Unmarshal([]byte(in.Content), &doc); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}

	out := &ImportTasksOutput{}
	for i, entry := range doc.Tasks {
		if verr := domain.Validate(entry.Text); verr != nil {
			out.Skipped = append(out.Skipped, fmt.Sprintf("entry %d: %v", i+1, verr))
			continue
		}
		out.Texts = append(out.Texts, entry.Text)

		if in.DryRun {
			continue
		}

		task, err := uc.registry.Add(ctx, entry.Text)
		if err != nil {
			return out, fmt.Errorf("add imported task: %w", err)
		}
		if entry.Completed {
			task, err = uc.registry.Toggle(ctx, task.ID)
			if err != nil {
				return out, fmt.Errorf("mark imported task completed: %w", err)
			}
		}
		out.Added = append(out.Added, task)
	}

	return out, nil
}
