package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdulachik/litminer/internal/config"
	"github.com/abdulachik/litminer/internal/db"
)

var (
	migrateStatus bool
	migrateDown   bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the run store schema",
	Long: `Apply pending schema migrations to the run store.

  litminer migrate            apply pending migrations
  litminer migrate --status   list migrations and when they were applied
  litminer migrate --down     revert the most recent migration (drops its tables)`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "List migrations without applying them")
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Revert the most recent migration")
	migrateCmd.MarkFlagsMutuallyExclusive("status", "down")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	w := cmd.OutOrStdout()

	switch {
	case migrateStatus:
		states, err := store.MigrationStatus(ctx)
		if err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		for _, st := range states {
			at := st.AppliedAt
			if st.Pending() {
				at = "pending"
			}
			fmt.Fprintf(w, "%-24s %s\n", st.Version, at)
		}

	case migrateDown:
		version, err := store.MigrateDown(ctx)
		if err != nil {
			return fmt.Errorf("revert migration: %w", err)
		}
		if version == "" {
			fmt.Fprintln(w, "No migrations applied.")
			return nil
		}
		fmt.Fprintf(w, "Reverted %s\n", version)

	default:
		ran, err := store.MigrateUp(ctx)
		if err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("migrations completed", "database", cfg.DatabasePath, "applied", len(ran))
		for _, v := range ran {
			fmt.Fprintf(w, "Applied %s\n", v)
		}
	}
	return nil
}
