package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spotlight/pkg/layout"
)

// snapshotCommand creates the snapshot management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect and prune stored layouts",
	}

	cmd.AddCommand(c.snapshotGetCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())
	cmd.AddCommand(c.snapshotCleanupCommand())

	return cmd
}

// snapshotGetCommand creates the "snapshot get" subcommand.
func (c *CLI) snapshotGetCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Print a snapshot summary or write it to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open snapshot store: %w", err)
			}
			defer store.Close()

			l, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			if output != "" {
				if err := layout.WriteLayoutFile(*l, output); err != nil {
					return fmt.Errorf("write output %s: %w", output, err)
				}
				p.success("Snapshot written")
				p.file(output)
				return nil
			}

			p.keyValue("ID", l.ID)
			p.keyValue("Created", l.CreatedAt.Format(time.RFC3339))
			p.keyValue("Frame", fmt.Sprintf("%.0f × %.0f (spacing %.0f)", l.Width, l.RowHeight, l.Spacing))
			p.keyValue("Height", fmt.Sprintf("%.1f", l.Height))
			p.layoutStats(l.Items, len(l.Rows), l.Pending, false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout JSON to a file")
	return cmd
}

// snapshotDeleteCommand creates the "snapshot delete" subcommand.
func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open snapshot store: %w", err)
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).success("Deleted snapshot %s", args[0])
			return nil
		},
	}
}

// snapshotCleanupCommand creates the "snapshot cleanup" subcommand.
func (c *CLI) snapshotCleanupCommand() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete snapshots older than a given age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open snapshot store: %w", err)
			}
			defer store.Close()

			n, err := store.Cleanup(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).success("Removed %d snapshots older than %s", n, olderThan)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "minimum age of snapshots to delete")
	return cmd
}
