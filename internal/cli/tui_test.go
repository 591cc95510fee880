package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harunari/todoro/internal/app"
	"github.com/harunari/todoro/internal/testutil"
)

func TestTUICommand_LaunchesAfterInitialize(t *testing.T) {
	// Setup: mock out the actual bubbletea program.
	c, med := testutil.NewMemoryContainer(t)
	testutil.SeedTasks(t, med, seededTasks())

	launched := false
	var gotDegraded bool
	orig := launchTUIFunc
	launchTUIFunc = func(_ *app.Container, degraded bool) error {
		launched = true
		gotDegraded = degraded
		return nil
	}
	defer func() { launchTUIFunc = orig }()

	cmd := newTUICommand(c)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	// Execute
	err := cmd.Execute()

	// Assert: the registry was initialized before launch.
	require.NoError(t, err)
	assert.True(t, launched)
	assert.False(t, gotDegraded)
	assert.Equal(t, 2, c.Registry.TotalCount())
}
