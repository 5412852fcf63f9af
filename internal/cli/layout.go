package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spotlight/pkg/cache"
	"github.com/matzehuels/spotlight/pkg/grid"
	"github.com/matzehuels/spotlight/pkg/layout"
	"github.com/matzehuels/spotlight/pkg/pipeline"
	"github.com/matzehuels/spotlight/pkg/source"
)

// frameFlags are the layout flags shared by layout and browse. Values left
// unset on the command line come from the config file.
type frameFlags struct {
	width     float64
	rowHeight float64
	spacing   float64
	pageSize  int
	final     bool
}

func (f *frameFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", pipeline.DefaultWidth, "frame width in pixels")
	cmd.Flags().Float64Var(&f.rowHeight, "row-height", pipeline.DefaultRowHeight, "target row height in pixels")
	cmd.Flags().Float64Var(&f.spacing, "spacing", pipeline.DefaultSpacing, "gap between items and rows in pixels")
	cmd.Flags().IntVar(&f.pageSize, "page-size", pipeline.DefaultPageSize, "items fetched per page")
	cmd.Flags().BoolVar(&f.final, "final", false, "place every item, stretching the last row if needed")
}

// options merges the config file defaults with the flags the user set.
func (f *frameFlags) options(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	opts := base
	flags := cmd.Flags()
	if flags.Changed("width") {
		opts.Width = f.width
	}
	if flags.Changed("row-height") {
		opts.RowHeight = f.rowHeight
	}
	if flags.Changed("spacing") {
		opts.Spacing = f.spacing
	}
	if flags.Changed("page-size") {
		opts.PageSize = f.pageSize
	}
	if flags.Changed("final") {
		opts.Final = f.final
	}
	return opts
}

// layoutCommand creates the layout command for computing grid layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		frame   frameFlags
		output  string
		noCache bool
		refresh bool
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "layout [manifest|directory]",
		Short: "Lay out media items as justified rows",
		Long: `Lay out media items as justified rows.

The input is a manifest (.json, .yaml or .yml) listing item ids with aspect
ratios or pixel sizes, a directory of images whose dimensions are read from
their headers, or an http(s) endpoint serving pages of items. Items are streamed page by page into the grid; without --final
trailing items that do not fill a row stay pending.

The output is a layout.json document with every row's item range, top offset
and height. Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("json", "yaml", "yml"),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := frame.options(cmd, c.cfg.Layout.PipelineOptions())
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts, output, noCache, save)
		},
	}

	frame.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&save, "save", false, "also store the layout as a snapshot")

	return cmd
}

// runLayout loads the items, computes the layout, and writes output.
// Remote sources are streamed page by page; local ones are laid out in one
// cached call.
func (c *CLI) runLayout(ctx context.Context, stdout, stderr io.Writer, input string, opts pipeline.Options, output string, noCache, save bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	var (
		l        layout.Layout
		cacheHit bool
		spinner  *Spinner
	)
	if source.IsRemote(input) {
		pager, err := c.newRemote(input, opts, runner.Cache)
		if err != nil {
			return err
		}
		spinner = newSpinner(ctx, stderr, "Streaming "+input)
		opts.OnPage = spinner.OnPage
		spinner.Start()
		result, err := runner.Execute(ctx, pager, opts)
		if err != nil {
			spinner.StopWithError("Layout failed")
			return fmt.Errorf("compute layout: %w", err)
		}
		l = result.Layout
		c.Logger.Debug("streamed", "pages", result.Stats.Pages, "items", result.Stats.Items)
	} else {
		items, err := source.Open(ctx, input)
		if err != nil {
			return fmt.Errorf("load items %s: %w", input, err)
		}
		spinner = newSpinner(ctx, stderr, fmt.Sprintf("Laying out %d items", len(items)))
		opts.OnPage = spinner.OnPage
		spinner.Start()
		l, cacheHit, err = runner.LayoutWithCacheInfo(ctx, items, opts)
		if err != nil {
			spinner.StopWithError("Layout failed")
			return fmt.Errorf("compute layout: %w", err)
		}
	}
	spinner.Stop()

	if spinner.Cancelled() {
		return ctx.Err()
	}
	prog.done("Laid out", "items", l.Items, "rows", len(l.Rows), "pending", l.Pending, "cached", cacheHit)

	if save {
		store, err := c.newStore(ctx)
		if err != nil {
			return fmt.Errorf("open snapshot store: %w", err)
		}
		defer store.Close()
		if _, err := store.Save(ctx, &l); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}

	outputPath := output
	if outputPath == "" && source.IsRemote(input) {
		outputPath = "remote.layout.json"
	} else if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = strings.TrimSuffix(base, string(filepath.Separator)) + ".layout.json"
	}

	if err := layout.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	p := newPrinter(stdout)
	p.success("Layout complete")
	p.file(outputPath)
	p.layoutStats(l.Items, len(l.Rows), l.Pending, cacheHit)
	if l.ID != "" {
		p.keyValue("Snapshot", l.ID)
	}
	p.newline()
	p.nextStep("Browse", appName+" browse "+outputPath)

	return nil
}

// loadGrid opens input as a grid: layout documents are restored as saved,
// manifests and image directories are laid out with opts.
func (c *CLI) loadGrid(ctx context.Context, input string, opts pipeline.Options) (*grid.Grid, error) {
	if strings.HasSuffix(input, ".layout.json") {
		l, err := layout.ReadLayoutFile(input)
		if err != nil {
			return nil, err
		}
		return grid.FromLayout(l, grid.WithLogger(c.Logger))
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	opts.Logger = c.Logger

	if source.IsRemote(input) {
		pager, err := c.newRemote(input, opts, nil)
		if err != nil {
			return nil, err
		}
		return runner.Stream(ctx, pager, opts)
	}

	items, err := source.Open(ctx, input)
	if err != nil {
		return nil, err
	}
	return runner.Stream(ctx, source.NewSlice(items, opts.PageSize), opts)
}

// newRemote creates a pager over an HTTP endpoint, caching pages in ch when
// it is not nil.
func (c *CLI) newRemote(input string, opts pipeline.Options, ch cache.Cache) (*source.Remote, error) {
	var ropts []source.RemoteOption
	if ch != nil {
		ropts = append(ropts, source.WithPageCache(ch, c.cfg.Cache.TTL, opts.Refresh))
	}
	return source.NewRemote(input, opts.PageSize, ropts...)
}
