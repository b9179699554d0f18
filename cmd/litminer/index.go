package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/litminer/internal/app"
	"github.com/abdulachik/litminer/internal/config"
	"github.com/abdulachik/litminer/internal/db"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the latest run's quotes in VecLite",
	Long: `Load the quotes of the latest stored run into the VecLite index used by
the search command.

Uses the embedding provider configured in veclite.yaml (VECLITE_CONFIG):
  - openai: OpenAI API (requires OPENAI_API_KEY env var)
  - ollama: Local Ollama server

Quotes already in the index are skipped by position; use --rebuild after a
new run to start from an empty index.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "Delete the index before loading")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForIndex(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(ctx, cfg, "")
	if err != nil {
		return err
	}
	defer a.Close()

	run, err := a.Store.LatestRun(ctx)
	if err != nil {
		return fmt.Errorf("latest run: %w", err)
	}

	total, err := a.Store.CountQuotes(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("count quotes: %w", err)
	}

	if indexRebuild {
		if err := os.RemoveAll(cfg.VecLitePath); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
	}

	idx, err := a.OpenIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	existing := idx.Count()
	if int64(existing) >= total {
		slog.Info("all quotes already indexed", "run", run.ID, "total", total, "in_veclite", existing)
		return nil
	}

	quotes, err := a.Store.ListQuotes(ctx, db.ListQuotesParams{RunID: run.ID, Limit: -1})
	if err != nil {
		return fmt.Errorf("list quotes: %w", err)
	}

	slog.Info("indexing quotes",
		"run", run.ID,
		"total", len(quotes),
		"already_indexed", existing,
	)

	start := time.Now()
	indexed, failed := 0, 0

	for i, row := range quotes[existing:] {
		if err := ctx.Err(); err != nil {
			return err
		}

		q := row.Model()
		if _, err := idx.InsertQuote(ctx, run.ID, q, a.Speaker(q.CharacterID)); err != nil {
			slog.Warn("failed to index quote", "id", q.ID, "error", err)
			failed++
			continue
		}

		indexed++
		if indexed%100 == 0 {
			slog.Info("progress", "indexed", indexed, "total", len(quotes)-existing)
		}

		if (i+1)%500 == 0 {
			if err := idx.Sync(); err != nil {
				slog.Warn("failed to sync", "error", err)
			}
		}
	}

	if err := idx.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	slog.Info("indexing complete",
		"indexed", indexed,
		"errors", failed,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
