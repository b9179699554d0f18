package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// ExitCodeEmpty is returned by run --fail-on-empty when nothing was found,
// so wrappers can fall back to canned data.
const ExitCodeEmpty = 2

var rootCmd = &cobra.Command{
	Use:   "litminer",
	Short: "Mine quotes, characters, themes and relationships from a novel",
	Long: `LitMiner extracts significant quotes from a novel's text, profiles its
characters from NER annotations, scores themes and builds a character
relationship graph. Results are written as JSON and kept in SQLite.`,
	SilenceUsage: true,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if errors.Is(err, errEmptyRun) {
			os.Exit(ExitCodeEmpty)
		}
		os.Exit(1)
	}
}
