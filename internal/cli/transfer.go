package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harunari/todoro/internal/app"
	"github.com/harunari/todoro/internal/usecase"
)

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export tasks to a YAML file",
		GroupID: groupStore,
		Long: `Write the task list as a YAML task file.

Examples:
  # Print to stdout
  todoro export

  # Write to a file
  todoro export -o tasks.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := initRegistry(cmd, c); err != nil {
				return err
			}

			out, err := c.ExportTasksUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" {
				_, _ = cmd.OutOrStdout().Write(out.YAML)
				return nil
			}

			if err := os.WriteFile(output, out.YAML, 0o600); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d task(s) to %s\n", out.Count, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "import <file>",
		Short:   "Import tasks from a YAML file",
		GroupID: groupStore,
		Long: `Add tasks from a YAML task file. Each entry is validated the same way
'todoro add' validates its argument; rejected entries are skipped and
reported, the rest are imported.

File format:
  tasks:
    - text: Buy groceries
    - text: Reply to review comments
      completed: true

Examples:
  todoro import tasks.yaml

  # Preview without adding
  todoro import tasks.yaml --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			if err := initRegistry(cmd, c); err != nil {
				return err
			}

			out, err := c.ImportTasksUseCase().Execute(cmd.Context(), usecase.ImportTasksInput{
				Content: string(content),
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, msg := range out.Skipped {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %s\n", msg)
			}
			if dryRun {
				_, _ = fmt.Fprintf(w, "Dry run: %d task(s) would be imported\n", len(out.Texts))
				for _, text := range out.Texts {
					_, _ = fmt.Fprintf(w, "  - %s\n", text)
				}
				return nil
			}

			_, _ = fmt.Fprintf(w, "Imported %d task(s)\n", len(out.Added))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without adding")

	return cmd
}
