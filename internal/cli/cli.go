package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spotlight/pkg/buildinfo"
	"github.com/matzehuels/spotlight/pkg/cache"
	"github.com/matzehuels/spotlight/pkg/config"
	"github.com/matzehuels/spotlight/pkg/pipeline"
	"github.com/matzehuels/spotlight/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "spotlight"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by the --config flag; cfg is loaded before any
	// command runs.
	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration.
func (c *CLI) Config() config.Config {
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Spotlight lays out media items as justified rows",
		Long:         `Spotlight partitions a stream of images or videos into rows that fill a fixed frame width, keeping row heights close to a target. It computes layouts from manifests or image directories, resolves scroll offsets to rows, and serves both over HTTP.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/spotlight/config.toml)")

	// Register all subcommands
	root.AddCommand(c.tileCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.closestCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	return nil
}

// =============================================================================
// Backend Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	// Redis applies the prefix itself.
	var keyer cache.Keyer
	if p := c.cfg.Cache.Prefix; p != "" && c.cfg.Cache.Backend != config.BackendRedis {
		keyer = cache.NewScopedKeyer(nil, p)
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return c.cfg.Cache.Open(ctx)
}

// newStore opens the configured snapshot backend.
func (c *CLI) newStore(ctx context.Context) (storage.Store, error) {
	return c.cfg.Storage.Open(ctx)
}

// cacheDir returns the file cache directory for the loaded configuration.
func (c *CLI) cacheDir() (string, error) {
	return c.cfg.Cache.CacheDir()
}
