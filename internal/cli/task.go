package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harunari/todoro/internal/app"
	"github.com/harunari/todoro/internal/domain"
)

// newAddCommand creates the add command.
func newAddCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <text>",
		Short:   "Add a task",
		GroupID: groupTask,
		Long: `Add a task to the list.

The text is trimmed, limited to 200 characters and rejected if it
contains markup that could not be rendered safely.

Examples:
  todoro add "Buy groceries"
  todoro add "Reply to the review comments"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initRegistry(cmd, c); err != nil {
				return err
			}

			task, err := c.Registry.Add(cmd.Context(), args[0])
			if err != nil {
				if verr := domain.AsValidationError(err); verr != nil {
					return fmt.Errorf("%s", verr.Message)
				}
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added task %s\n", task.ID)
			return nil
		},
	}
	return cmd
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Active bool
		Done   bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List tasks",
		GroupID: groupTask,
		Long: `Display the task list in insertion order.

Output format is tab-separated with columns:
  ID, STATE, CREATED, TEXT

Examples:
  # All tasks
  todoro list

  # Only unfinished tasks
  todoro list --active

  # Only completed tasks
  todoro list --done`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Active && opts.Done {
				return errors.New("--active and --done are mutually exclusive")
			}
			if err := initRegistry(cmd, c); err != nil {
				return err
			}

			var tasks []domain.Task
			switch {
			case opts.Active:
				tasks = c.Registry.Active()
			case opts.Done:
				tasks = c.Registry.Completed()
			default:
				tasks = c.Registry.All()
			}

			if len(tasks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tSTATE\tCREATED\tTEXT")
			for _, t := range tasks {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					t.ID,
					renderState(t.Completed),
					t.CreatedAt.Format("2006-01-02 15:04"),
					renderText(t),
				)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%d task(s), %d done, %d active\n",
				c.Registry.TotalCount(), c.Registry.CompletedCount(), c.Registry.ActiveCount())
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Active, "active", false, "Show only unfinished tasks")
	cmd.Flags().BoolVar(&opts.Done, "done", false, "Show only completed tasks")

	return cmd
}

// newDoneCommand creates the done command (toggles completion).
func newDoneCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "done <id>",
		Short:   "Toggle a task's completion",
		GroupID: groupTask,
		Long: `Toggle the completion flag of the task with the given id.
Running it on a completed task marks it active again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initRegistry(cmd, c); err != nil {
				return err
			}

			task, err := c.Registry.Toggle(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, domain.ErrTaskNotFound) {
					return fmt.Errorf("no task with id %s", args[0])
				}
				return err
			}

			state := "active"
			if task.Completed {
				state = "done"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", task.ID, state)
			return nil
		},
	}
	return cmd
}

// newRemoveCommand creates the rm command.
func newRemoveCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Short:   "Remove a task",
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initRegistry(cmd, c); err != nil {
				return err
			}

			task, err := c.Registry.Delete(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, domain.ErrTaskNotFound) {
					return fmt.Errorf("no task with id %s", args[0])
				}
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s: %s\n", task.ID, task.Text)
			return nil
		},
	}
	return cmd
}

// newClearCommand creates the clear command.
func newClearCommand(c *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "clear",
		Short:   "Remove all tasks",
		GroupID: groupTask,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := initRegistry(cmd, c); err != nil {
				return err
			}

			count := c.Registry.TotalCount()
			if count > 0 && !force {
				ok, err := confirm(cmd, fmt.Sprintf("Remove all %d task(s)?", count))
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			if err := c.Registry.ClearAll(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d task(s)\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not ask for confirmation")

	return cmd
}

// confirm asks a yes/no question on the command's streams.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	var answer string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &answer); err != nil {
		return false, nil // Empty input means no
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
