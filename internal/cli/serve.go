package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/bidchain/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve bid-chain evaluations over HTTP",
		Long: `Start an HTTP server exposing:

  GET /healthz
  GET /v1/chain?ssps=6&bid=4.0&policy=conversion&seed=42
  GET /v1/chain.{json,dot,svg,png,pdf}

Defaults come from the [chain] and [server] config sections.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			return server.New(cfg, c.newRunner(), c.Logger).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.Config.Server.Addr, "listen address")
	return cmd
}
