package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdulachik/litminer/internal/app"
	"github.com/abdulachik/litminer/internal/config"
	"github.com/abdulachik/litminer/internal/report"
	"github.com/abdulachik/litminer/internal/vectorstore"
)

var (
	searchLimit     int
	searchSemantic  bool
	searchCharacter string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed quotes",
	Long: `Search the VecLite quote index. BM25 full-text search is used by
default; --semantic runs a vector search with the configured embedder.

Examples:
  litminer search "thought police"
  litminer search --semantic "love and betrayal"
  litminer search --semantic --character Julia "rebellion"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum number of results")
	searchCmd.Flags().BoolVar(&searchSemantic, "semantic", false, "Use vector search")
	searchCmd.Flags().StringVar(&searchCharacter, "character", "", "Limit semantic search to one speaker")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

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

	idx, err := a.OpenIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	var results []vectorstore.SearchResult
	switch {
	case searchCharacter != "":
		results, err = idx.SearchByCharacter(ctx, query, searchCharacter, searchLimit)
	case searchSemantic:
		results, err = idx.Search(ctx, query, searchLimit)
	default:
		results, err = idx.TextSearch(ctx, query, searchLimit)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No quotes found.")
		return nil
	}

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "[%.3f] %s\n", r.Score, report.Listing(r.Quote(), a.Title(), r.Character, report.DefaultWidth))
	}
	return nil
}
