package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harunari/todoro/internal/testutil"
)

func TestExportCommand_Stdout(t *testing.T) {
	c, med := testutil.NewMemoryContainer(t)
	testutil.SeedTasks(t, med, seededTasks())

	cmd := newExportCommand(c)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	err := cmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "tasks:")
	assert.Contains(t, out, "text: first")
	assert.Contains(t, out, "text: second")
}

func TestExportCommand_ToFile(t *testing.T) {
	c, med := testutil.NewMemoryContainer(t)
	testutil.SeedTasks(t, med, seededTasks())
	path := filepath.Join(t.TempDir(), "tasks.yaml")

	cmd := newExportCommand(c)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"-o", path})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Exported 2 task(s)")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "text: first")
}

func TestImportCommand(t *testing.T) {
	// Setup
	c, _ := testutil.NewMemoryContainer(t)
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tasks:
  - text: imported one
  - text: imported two
    completed: true
`), 0o600))

	cmd := newImportCommand(c)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{path})

	// Execute
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Imported 2 task(s)")
	assert.Equal(t, 2, c.Registry.TotalCount())
	assert.Equal(t, 1, c.Registry.CompletedCount())
}

func TestImportCommand_DryRun(t *testing.T) {
	c, _ := testutil.NewMemoryContainer(t)
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tasks:\n  - text: preview\n"), 0o600))

	cmd := newImportCommand(c)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{path, "--dry-run"})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Dry run: 1 task(s) would be imported")
	assert.Zero(t, c.Registry.TotalCount())
}

func TestImportCommand_MissingFile(t *testing.T) {
	c, _ := testutil.NewMemoryContainer(t)
	cmd := newImportCommand(c)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.yaml")})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read file")
}
