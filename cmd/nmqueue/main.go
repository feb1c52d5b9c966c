package main

import (
	"os"

	"github.com/spf13/cobra"

	"nmqueue/internal/interfaces/cli/am"
	"nmqueue/internal/interfaces/cli/migrate"
	"nmqueue/internal/interfaces/cli/nm"
	"nmqueue/internal/interfaces/cli/reconcile"
	"nmqueue/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nmqueue",
		Short: "Membership application lifecycle tracker",
		Long:  `nmqueue tracks membership applications: applicant records, per-application progress, role-based permissions and reconciliation against the external account, keyring and archive sources.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		nm.NewCommand(),
		reconcile.NewCommand(),
		am.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
