package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spotlight/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noCache  bool
		maxItems int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  GET    /healthz
  POST   /v1/tile
  POST   /v1/layouts
  GET    /v1/layouts/{id}
  GET    /v1/layouts/{id}/closest?y=
  DELETE /v1/layouts/{id}

Layouts are stored in the configured snapshot backend and cached in the
configured cache backend. The server shuts down gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			store, err := c.newStore(ctx)
			if err != nil {
				return fmt.Errorf("open snapshot store: %w", err)
			}
			defer store.Close()

			srv := server.New(runner, store,
				server.WithLogger(logger),
				server.WithDefaults(c.cfg.Layout.PipelineOptions()),
				server.WithMaxItems(maxItems),
				server.WithTimeouts(c.cfg.Server.ReadTimeout, c.cfg.Server.WriteTimeout),
			)

			logger.Info("starting server",
				"addr", addr,
				"cache", c.cfg.Cache.Backend,
				"storage", c.cfg.Storage.Backend)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&maxItems, "max-items", server.DefaultMaxItems, "maximum items per request")

	return cmd
}
