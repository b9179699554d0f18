package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdulachik/litminer/internal/app"
	"github.com/abdulachik/litminer/internal/config"
	"github.com/abdulachik/litminer/internal/report"
)

// recentRuns bounds the run history shown by stats.
const recentRuns = 10

var statsRunID string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long: `Display the most recent runs and the quote counts of one run by method and
chapter. The latest run is shown unless --run names another.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsRunID, "run", "", "Run ID to report (default: latest)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(ctx, cfg, "")
	if err != nil {
		return err
	}
	defer a.Close()

	stats := report.Stats{DatabasePath: cfg.DatabasePath}

	stats.Runs, err = a.Store.CountRuns(ctx)
	if err != nil {
		return fmt.Errorf("count runs: %w", err)
	}

	stats.Recent, err = a.Store.ListRuns(ctx, recentRuns)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if statsRunID != "" {
		stats.Latest, err = a.Store.GetRun(ctx, statsRunID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("run %s not found", statsRunID)
		}
	} else {
		stats.Latest, err = a.Store.LatestRun(ctx)
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("load run: %w", err)
	default:
		stats.ByMethod, err = a.Store.CountQuotesByMethod(ctx, stats.Latest.ID)
		if err != nil {
			return fmt.Errorf("count quotes by method: %w", err)
		}
		stats.ByChapter, err = a.Store.CountQuotesByChapter(ctx, stats.Latest.ID)
		if err != nil {
			return fmt.Errorf("count quotes by chapter: %w", err)
		}
	}

	// The index is optional; report it only when it exists.
	if _, err := os.Stat(cfg.VecLitePath); err == nil {
		idx, err := a.OpenIndex()
		if err != nil {
			slog.Warn("failed to open VecLite", "error", err)
		} else {
			defer idx.Close()
			stats.IndexPath = cfg.VecLitePath
			stats.Indexed = idx.Count()
		}
	}

	report.PrintStats(cmd.OutOrStdout(), stats)
	return nil
}
