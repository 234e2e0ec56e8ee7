package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcrobot/admin_backend/internal/infrastructure/repository"
	"github.com/arcrobot/admin_backend/internal/ranking"
	"github.com/arcrobot/admin_backend/internal/scheduler"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			applied, err := repository.Migrate(cmd.Context(), rt.db, rt.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	}
}

func newBackfillCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill-images",
		Short: "Rewrite every stored image list in the canonical JSON encoding",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			results, err := repository.BackfillImageLists(cmd.Context(), rt.db, repository.NewTxManager(rt.db), rt.logger)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s.%s: scanned %d, rewrote %d\n", r.Table, r.Column, r.Scanned, r.Rewritten)
			}
			return nil
		},
	}
}

func newAuditCmd(configPath *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "audit-ranks",
		Short: "Report duplicate and missing order_key values; fails on duplicates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			audit := scheduler.NewRankAuditScheduler(rt.ranker(repository.NewTxManager(rt.db)), repository.RankedScopes(), 0, rt.logger)
			reports := audit.RunOnce(cmd.Context())
			if len(reports) != len(repository.RankedScopes()) {
				return fmt.Errorf("audit incomplete: %d of %d scopes checked", len(reports), len(repository.RankedScopes()))
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				for _, rep := range reports {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows, duplicates %v, gaps %v\n", rep.Scope, rep.Count, rep.Duplicates, rep.Gaps)
				}
			}
			return duplicatesError(reports, rt.logger)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the reports as JSON")
	return cmd
}

// duplicatesError fails the command when any scope has duplicate ranks.
// Gaps are reported but tolerated.
func duplicatesError(reports []ranking.Report, logger *zap.Logger) error {
	var bad []ranking.Scope
	for _, rep := range reports {
		if len(rep.Duplicates) > 0 {
			bad = append(bad, rep.Scope)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	logger.Error("duplicate ranks found", zap.Any("scopes", bad))
	return fmt.Errorf("duplicate ranks in %v", bad)
}
