package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"onboarding-bot/internal/di"
)

// serve: HTTP API until SIGINT/SIGTERM.
func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the onboarding HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := di.NewContainer(cfg, nil)
			if err != nil {
				return err
			}
			defer c.Close()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return c.Server.Run(gctx)
			})
			g.Go(func() error {
				<-gctx.Done()
				c.Logger.Info("Shutdown requested")
				return nil
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
