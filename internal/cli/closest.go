package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spotlight/pkg/errors"
	"github.com/matzehuels/spotlight/pkg/layout"
)

// closestResult is the --json output of the closest command.
type closestResult struct {
	Index int     `json:"index"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Top   float64 `json:"top"`
	Delta float64 `json:"delta"`
}

// closestCommand creates the closest command for resolving scroll offsets.
func (c *CLI) closestCommand() *cobra.Command {
	var (
		snapshot bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "closest [layout.json] [y]",
		Short: "Find the row nearest to a vertical offset",
		Long: `Find the row whose top is nearest to a vertical offset.

Prints the row index and the signed distance from the row's top to the
offset. With --snapshot the first argument is a stored snapshot ID instead of
a file.`,
		Example: `  spotlight closest gallery.layout.json 1830
  spotlight closest --snapshot 3f2b0c1e-... 1830 --json`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeFiles("json"),
		RunE: func(cmd *cobra.Command, args []string) error {
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "offset must be a number, received %q", args[1])
			}

			var l *layout.Layout
			if snapshot {
				store, err := c.newStore(cmd.Context())
				if err != nil {
					return fmt.Errorf("open snapshot store: %w", err)
				}
				defer store.Close()
				if l, err = store.Load(cmd.Context(), args[0]); err != nil {
					return err
				}
			} else {
				doc, err := layout.ReadLayoutFile(args[0])
				if err != nil {
					return err
				}
				l = &doc
			}

			row, delta, ok := l.RowAt(y)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "%s has no rows", args[0])
			}

			result := closestResult{Index: row.Index, Start: row.Start, End: row.End, Top: row.Top, Delta: delta}
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "row %d (items %d-%d) top %.1f delta %+.1f\n",
				result.Index, result.Start, result.End, result.Top, result.Delta)
			return nil
		},
	}

	cmd.Flags().BoolVar(&snapshot, "snapshot", false, "treat the first argument as a snapshot ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
