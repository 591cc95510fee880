package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harunari/todoro/internal/app"
	"github.com/harunari/todoro/internal/tui"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it
// to be mocked in tests.
var launchTUIFunc = launchTUI

// newTUICommand creates the tui command.
func newTUICommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tui",
		Short:   "Interactive task list",
		GroupID: groupTask,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clean, err := c.Registry.Initialize(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize registry: %w", err)
			}

			// The TUI is the one long-lived caller, so the periodic
			// health-check loop runs alongside it. Best effort only.
			loopCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go c.Registry.RunHealthLoop(loopCtx, c.Config.Health.Interval)

			return launchTUIFunc(c, !clean)
		},
	}
	return cmd
}

// launchTUI runs the bubbletea program until the user quits.
func launchTUI(c *app.Container, degraded bool) error {
	model := tui.New(c.Registry, degraded)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
