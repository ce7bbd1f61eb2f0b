package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/klarnacheckout/internal/interfaces/cli/migrate"
	"github.com/orris-inc/klarnacheckout/internal/interfaces/cli/server"
	"github.com/orris-inc/klarnacheckout/internal/interfaces/cli/token"
	"github.com/orris-inc/klarnacheckout/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "klarnacheckout",
		Short:   "Checkout session service",
		Long:    `klarnacheckout creates provider checkout sessions for orders, reconciles completed checkouts into payments and captures them.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
