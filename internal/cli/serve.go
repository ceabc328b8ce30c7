package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/phanxgames/crossmath/web"
)

// serveCommand serves the browser build.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, dist string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser build over HTTP",
		Long: `Serve the browser build over HTTP.

The page is embedded in the binary; crossmath.wasm and wasm_exec.js are read
from --dist (build them with "make wasm"). GET /api/layout returns the
computed layout for a profile as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Serve.Addr
			}
			if !cmd.Flags().Changed("dist") {
				dist = cfg.Serve.Dist
			}
			return runServe(withLogger(cmd.Context(), c.Logger), addr, dist)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&dist, "dist", "dist", "directory holding crossmath.wasm and wasm_exec.js")
	return cmd
}

func runServe(ctx context.Context, addr, dist string) error {
	logger := loggerFromContext(ctx)
	logger.Info("serving browser build", "dist", dist)
	return web.ListenAndServe(ctx, addr, web.NewRouter(web.Options{Dist: dist, Logger: logger}), logger)
}
