package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"onboarding-bot/internal/di"
	"onboarding-bot/internal/domain/entity"
	"onboarding-bot/internal/infrastructure/console"
	"onboarding-bot/internal/usecase/submission"
)

// run: one workflow in the foreground with live progress.
func runCmd() *cobra.Command {
	var (
		dataPath     string
		simulateOnly bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one onboarding workflow from a JSON data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(dataPath)
			if err != nil {
				return fmt.Errorf("open data file: %w", err)
			}
			payload, err := submission.DecodePayload(f)
			f.Close()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			progress := console.NewProgress()
			c, err := di.NewContainer(cfg, progress)
			if err != nil {
				return err
			}
			defer c.Close()

			req := payload.Request(entity.RunPlan{SimulateOnly: simulateOnly})
			c.Logger.Info("Run requested", "simulate_only", simulateOnly, "documents", len(req.Documents))

			outcome, err := c.Submissions.Submit(ctx, req)
			if err != nil {
				return err
			}
			progress.Outcome(outcome)

			if !outcome.Succeeded() {
				if errors.Is(ctx.Err(), context.Canceled) {
					return fmt.Errorf("run interrupted")
				}
				return fmt.Errorf("run %s finished with status %s", outcome.RunID, outcome.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "JSON file with the client data and document references")
	cmd.Flags().BoolVar(&simulateOnly, "simulate-only", false, "stop after the simulation, before registration")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
