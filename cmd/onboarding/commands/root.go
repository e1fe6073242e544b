package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"onboarding-bot/internal/config"
	"onboarding-bot/internal/infrastructure/env"
)

var (
	configPath string
	cfg        *config.Config
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "onboarding",
		Short:        "Drive the card onboarding back-office: simulation, registration and documents",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := env.NewEnvService(); err != nil {
				return err
			}
			loaded, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml)")

	root.AddCommand(runCmd(), serveCmd())
	return root
}
