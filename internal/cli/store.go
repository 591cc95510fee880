package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harunari/todoro/internal/app"
)

// newStatusCommand creates the status command.
func newStatusCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show storage status",
		GroupID: groupStore,
		Long: `Show a diagnostic snapshot of the storage layer: whether the durable
backend is available, how much data it holds and how many records are
parked in the in-memory fallback buffer.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := c.Store.Status(cmd.Context())

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Backend:        %s\n", c.Config.Storage.Backend)
			_, _ = fmt.Fprintf(w, "Available:      %v\n", st.Available)
			_, _ = fmt.Fprintf(w, "Stored data:    %v", st.HasStoredData)
			if st.HasStoredData {
				_, _ = fmt.Fprintf(w, " (%d bytes)", st.StoredBytes)
			}
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintf(w, "Fallback count: %d\n", st.FallbackCount)
			return nil
		},
	}
	return cmd
}

// newDoctorCommand creates the doctor command.
func newDoctorCommand(c *app.Container) *cobra.Command {
	var runRecovery bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Check storage health",
		GroupID: groupStore,
		Long: `Check the health of the persisted task data and report any issues
found: an unavailable backend, corrupt records, entries with missing
fields.

With --recover, todoro re-probes the backend and, if it has come back
after being unavailable, re-saves the in-memory tasks so the durable
copy catches up.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := initRegistry(cmd, c); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			rep := c.Registry.CheckHealth(cmd.Context())
			if rep.Healthy {
				_, _ = fmt.Fprintln(w, "Storage is healthy")
			} else {
				_, _ = fmt.Fprintln(w, "Issues found:")
				for _, issue := range rep.Issues {
					_, _ = fmt.Fprintf(w, "  - %s\n", issue)
				}
			}

			if runRecovery {
				if c.Registry.AttemptRecovery(cmd.Context()) {
					_, _ = fmt.Fprintln(w, "Recovery: backend available")
				} else {
					_, _ = fmt.Fprintln(w, "Recovery: backend still unavailable")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&runRecovery, "recover", false, "Attempt to re-sync the durable copy")

	return cmd
}
