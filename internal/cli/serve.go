package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/squaremap/internal/server"
	"github.com/matzehuels/squaremap/pkg/cache"
	"github.com/matzehuels/squaremap/pkg/pipeline"
)

// serveKeyPrefix keeps cache entries written by the server apart from the
// ones written by the CLI.
const serveKeyPrefix = "serve:"

// serveCommand creates the command that runs the HTTP rendering endpoint.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve treemap rendering over HTTP",
		Long: `Serve starts an HTTP server. POST a CSV or XLSX file to /render to receive the
rendered treemap; query parameters override the configured defaults.

  curl --data-binary @orders.csv 'localhost:8080/render?format=svg&width=600'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = ""
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg := c.config
	cfg.SetServeDefaults()
	if addr == "" {
		addr = cfg.Serve.Addr
	}

	store, err := newCache(c.flags.noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(cache.NewDefaultKeyer(), serveKeyPrefix), c.Logger)
	defer runner.Close()

	defaults := c.flags.options()
	defaults.DataPath, defaults.OutputPath = "", ""

	srv := server.New(runner, c.Logger,
		server.WithDefaults(defaults),
		server.WithMaxBodyBytes(cfg.Serve.MaxBodyBytes),
	)

	c.Logger.Info("listening", "addr", addr)
	err = srv.ListenAndServe(ctx, addr)
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		c.Logger.Info("server stopped")
		return nil
	}
	return err
}
