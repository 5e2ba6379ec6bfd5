package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jakechorley/guard-roster/pkg/viewserver"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar, guards and conflicts projections as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			h := viewserver.NewHandler(app.Snapshot, app.Options, app.Logger)
			return viewserver.Serve(ctx, cfg, h, app.Logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to server.addr)")
	return cmd
}
