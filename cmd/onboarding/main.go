package main

import (
	"os"

	"onboarding-bot/cmd/onboarding/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
