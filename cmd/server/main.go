package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	serve := newServeCmd(&configPath)
	root := &cobra.Command{
		Use:           "admin-backend",
		Short:         "Back-office API for the blog, catalog and team pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_FILE or config.yaml)")

	root.AddCommand(
		serve,
		newMigrateCmd(&configPath),
		newBackfillCmd(&configPath),
		newAuditCmd(&configPath),
	)
	return root
}
