package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spotlight/pkg/errors"
	"github.com/matzehuels/spotlight/pkg/tile"
)

// tileResult is the --json output of the tile command.
type tileResult struct {
	Breakpoints []int       `json:"breakpoints"`
	Rows        []tile.Span `json:"rows"`
	Score       float64     `json:"score"`
}

// tileCommand creates the tile command for partitioning raw aspect ratios.
func (c *CLI) tileCommand() *cobra.Command {
	var (
		threshold float64
		remainder bool
		file      string
		asJSON    bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "tile [ratio...]",
		Short: "Partition aspect ratios into rows",
		Long: `Partition aspect ratios into rows.

Each row is closed once its aggregate aspect ratio reaches the threshold. The
partition with the lowest total distortion is chosen and printed as
breakpoints, the exclusive end index of every row.

With --remainder, trailing items that would form an under-full row are left
out so they can be tiled together with the next page.

Ratios are read from the arguments, or from --file (whitespace or comma
separated, "-" for stdin).`,
		Example: `  spotlight tile 1.5 0.75 1 1.33 --threshold 3
  spotlight tile --file ratios.txt --remainder --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ratios, err := readRatios(cmd.InOrStdin(), args, file)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			breaks, cached, err := runner.TileWithCacheInfo(cmd.Context(), ratios, threshold, remainder)
			if err != nil {
				return err
			}
			c.Logger.Debug("tiled", "items", len(ratios), "rows", len(breaks), "cached", cached)

			result := tileResult{
				Breakpoints: breaks,
				Rows:        tile.Spans(breaks),
				Score:       tile.Score(ratios, breaks, threshold),
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTileTable(ratios, result))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 4, "aggregate aspect ratio that fills a row")
	cmd.Flags().BoolVar(&remainder, "remainder", false, "leave an under-full trailing row unplaced")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read ratios from a file (- for stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// readRatios collects aspect ratios from args or, when file is set, from the
// file.
func readRatios(stdin io.Reader, args []string, file string) ([]float64, error) {
	fields := args
	if file != "" {
		if len(args) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "pass ratios as arguments or with --file, not both")
		}
		var (
			data []byte
			err  error
		)
		if file == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		fields = strings.FieldsFunc(string(data), func(r rune) bool {
			return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
		})
	}

	ratios := make([]float64, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidAspectRatio, "item %d: %q is not a number", i, f)
		}
		if err := errors.ValidateAspectRatio(v); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidAspectRatio, "item %d: aspect ratio must be a positive number, received %v", i, v)
		}
		ratios = append(ratios, v)
	}
	return ratios, nil
}

// renderTileTable formats the rows of a tiling as a table.
func renderTileTable(ratios []float64, result tileResult) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(result.Rows))
	placed := 0
	for i, s := range result.Rows {
		var aggregate float64
		for _, ar := range ratios[s.Start:s.End] {
			aggregate += ar
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			fmt.Sprintf("%d-%d", s.Start, s.End),
			strconv.Itoa(s.Len()),
			strconv.FormatFloat(aggregate, 'f', 2, 64),
		})
		placed = s.End
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Row", "Items", "Count", "Aggregate").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	summary := fmt.Sprintf("breakpoints %v · score %.3f", result.Breakpoints, result.Score)
	if pending := len(ratios) - placed; pending > 0 {
		summary += fmt.Sprintf(" · %d pending", pending)
	}
	return t.Render() + "\n" + StyleDim.Render(summary)
}
