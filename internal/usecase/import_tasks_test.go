package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportTasks_Execute(t *testing.T) {
	// Setup
	reg := &mockRegistry{}
	uc := NewImportTasks(reg)
	content := `
tasks:
  - text: Buy groceries
  - text: Reply to review comments
    completed: true
`

	// Execute
	out, err := uc.Execute(context.Background(), ImportTasksInput{Content: content})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Added, 2)
	assert.Empty(t, out.Skipped)
	assert.Equal(t, "Buy groceries", out.Added[0].Text)
	assert.False(t, out.Added[0].Completed)
	assert.True(t, out.Added[1].Completed)
	assert.Len(t, reg.tasks, 2)
}

func TestImportTasks_Execute_SkipsInvalidEntries(t *testing.T) {
	// Setup
	reg := &mockRegistry{}
	uc := NewImportTasks(reg)
	content := `
tasks:
  - text: ""
  - text: "<script>alert(1)</script>"
  - text: valid task
`

	// Execute
	out, err := uc.Execute(context.Background(), ImportTasksInput{Content: content})

	// Assert: rejected entries are skipped, the rest imported.
	require.NoError(t, err)
	require.Len(t, out.Added, 1)
	assert.Equal(t, "valid task", out.Added[0].Text)
	require.Len(t, out.Skipped, 2)
	assert.Contains(t, out.Skipped[0], "entry 1")
	assert.Contains(t, out.Skipped[1], "entry 2")
}

func TestImportTasks_Execute_DryRun(t *testing.T) {
	reg := &mockRegistry{}
	uc := NewImportTasks(reg)
	content := `
tasks:
  - text: would be added
`

	out, err := uc.Execute(context.Background(), ImportTasksInput{Content: content, DryRun: true})

	require.NoError(t, err)
	assert.Empty(t, out.Added)
	assert.Equal(t, []string{"would be added"}, out.Texts)
	assert.Empty(t, reg.tasks)
}

func TestImportTasks_Execute_BadYAML(t *testing.T) {
	uc := NewImportTasks(&mockRegistry{})

	_, err := uc.Execute(context.Background(), ImportTasksInput{Content: "tasks: ["})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse task file")
}

func TestImportTasks_Execute_AddError(t *testing.T) {
	reg := &mockRegistry{addErr: assert.AnError}
	uc := NewImportTasks(reg)

	_, err := uc.Execute(context.Background(), ImportTasksInput{Content: "tasks:\n  - text: x\n"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "add imported task")
}
