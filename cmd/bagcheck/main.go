package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bagcheck-inc/bagcheck/internal/interfaces/cli/migrate"
	"github.com/bagcheck-inc/bagcheck/internal/interfaces/cli/server"
	"github.com/bagcheck-inc/bagcheck/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "bagcheck",
		Short:   "BagCheck - designer bag authentication service",
		Long:    `BagCheck runs the authentication ticket API and its database migrations.`,
		Version: version.Get().Version,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
