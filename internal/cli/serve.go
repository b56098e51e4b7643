package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treescape/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API on top of
// the configured store and cache.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(st, runner, c.Logger, server.Options{MaxTextSize: cfg.Server.MaxTextSize})
	c.Logger.Info("serving", "addr", addr, "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
	return srv.ListenAndServe(ctx, addr)
}
