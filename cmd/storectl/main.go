// Command storectl runs one-off store maintenance against the configured
// database: migrations, seeding, bulk product import and password resets.
package main

import (
	"os"

	"go-wigstore-api/internal/config"
	"go-wigstore-api/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.IsProduction())

	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Wig store maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCommand(cfg),
		newSeedCommand(cfg),
		newImportCommand(cfg),
		newResetPasswordCommand(cfg),
		newCreateUserCommand(cfg),
	)

	if err := root.Execute(); err != nil {
		logger.L.Error("storectl failed", "error", err)
		os.Exit(1)
	}
}
