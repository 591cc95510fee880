package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harunari/todoro/internal/testutil"
)

func TestStatusCommand(t *testing.T) {
	// Setup
	c, med := testutil.NewMemoryContainer(t)
	testutil.SeedTasks(t, med, seededTasks())

	cmd := newStatusCommand(c)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	// Execute
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Available:      true")
	assert.Contains(t, out, "Stored data:    true")
	assert.Contains(t, out, "Fallback count: 0")
}

func TestDoctorCommand_Healthy(t *testing.T) {
	c, _ := testutil.NewMemoryContainer(t)

	cmd := newDoctorCommand(c)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Storage is healthy")
}

func TestDoctorCommand_ReportsCorruption(t *testing.T) {
	// Setup: corrupt one stored record behind the store's back.
	c, med := testutil.NewMemoryContainer(t)
	require.NoError(t, med.Set(context.Background(), c.Config.Storage.Key,
		`[{"id":"ok","text":"fine","completed":false,"createdAt":"2024-01-01T09:00:00Z"},{"broken":true}]`))

	cmd := newDoctorCommand(c)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	// Execute
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Issues found:")
	assert.Contains(t, buf.String(), "dropped")
}

func TestDoctorCommand_Recover(t *testing.T) {
	c, _ := testutil.NewMemoryContainer(t)

	cmd := newDoctorCommand(c)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--recover"})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Recovery: backend available")
}
