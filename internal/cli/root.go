// Package cli provides the command-line interface for todoro.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harunari/todoro/internal/app"
)

// Command group IDs.
const (
	groupTask  = "task"
	groupStore = "store"
)

// NewRootCommand creates the root command for todoro.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "todoro",
		Short: "Local task list manager",
		Long: `todoro is a small task list manager. Tasks live in memory and are
persisted to a durable key-value backend (a JSON file by default, or
redis); when the backend is unavailable todoro keeps working on an
in-memory fallback and catches the backend up once it returns.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			for _, w := range c.Config.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupStore, Title: "Storage Commands:"},
	)

	root.AddCommand(
		newAddCommand(c),
		newListCommand(c),
		newDoneCommand(c),
		newRemoveCommand(c),
		newClearCommand(c),
		newStatusCommand(c),
		newDoctorCommand(c),
		newExportCommand(c),
		newImportCommand(c),
		newTUICommand(c),
	)

	return root
}

// initRegistry initializes the registry from the persisted data, printing
// a non-fatal warning when the load was degraded. The UI layer decides how
// to surface degradation; the registry stays usable either way.
func initRegistry(cmd *cobra.Command, c *app.Container) error {
	clean, err := c.Registry.Initialize(cmd.Context())
	if err != nil {
		return fmt.Errorf("initialize registry: %w", err)
	}
	if !clean {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: stored tasks could not be fully loaded; continuing with what was recovered")
	}
	return nil
}
