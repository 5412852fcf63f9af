package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spotlight/pkg/observability"
)

// Execute builds the command tree, wires the global --verbose flag and runs
// the command named by os.Args.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level, plus layout, cache and HTTP events
//     from the observability hooks
//
// Example:
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func (c *CLI) Execute(ctx context.Context) error {
	return c.command().ExecuteContext(ctx)
}

// command returns the root command with global flags applied.
func (c *CLI) command() *cobra.Command {
	var verbose bool

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetLayoutHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
		}
		c.SetLogLevel(level)
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))

		if loadConfig != nil {
			return loadConfig(cmd, args)
		}
		return nil
	}

	return root
}
