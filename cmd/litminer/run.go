package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdulachik/litminer/internal/app"
	"github.com/abdulachik/litminer/internal/config"
	"github.com/abdulachik/litminer/internal/output"
	"github.com/abdulachik/litminer/internal/pipeline"
	"github.com/abdulachik/litminer/internal/report"
)

var errEmptyRun = errors.New("run found no quotes and no characters")

var (
	runText         string
	runAnnotations  string
	runAnnotationID string
	runBookID       int
	runProfile      string
	runOut          string
	runFailOnEmpty  bool
	runNoStore      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the analysis pipeline over a book",
	Long: `Extract quotes from the book text, aggregate characters and relationships
from annotations and write quotes.json, characters.json, themes.json and
relationships.json.

Without --annotations, character mentions are found by matching the
profile's aliases in the text.

Examples:
  litminer run --text books/1984.txt
  litminer run --text books/1984.txt --annotations booknlp/ --annotation-id 1984
  litminer run --text books/lighthouse.html --profile profiles/lighthouse.yaml --out site/data`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runText, "text", "", "Book text (.txt or .html)")
	runCmd.Flags().StringVar(&runAnnotations, "annotations", "", "Directory holding BookNLP output")
	runCmd.Flags().StringVar(&runAnnotationID, "annotation-id", "book", "BookNLP book id (file prefix)")
	runCmd.Flags().IntVar(&runBookID, "book-id", 0, "Book id stamped on quotes (default BOOK_ID)")
	runCmd.Flags().StringVar(&runProfile, "profile", "", "Book profile (.yaml or .toml, default PROFILE_PATH)")
	runCmd.Flags().StringVar(&runOut, "out", "", "Output directory (default OUTPUT_DIR)")
	runCmd.Flags().BoolVar(&runFailOnEmpty, "fail-on-empty", false, "Exit with code 2 when nothing was found")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "Skip saving the run to the database")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForRun(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.Load(cfg, runProfile)
	if err != nil {
		return err
	}
	defer a.Close()

	bookID := runBookID
	if bookID == 0 {
		bookID = cfg.BookID
	}
	outDir := runOut
	if outDir == "" {
		outDir = cfg.OutputDir
	}

	res, err := pipeline.Run(ctx, pipeline.Inputs{
		TextPath:       runText,
		AnnotationsDir: runAnnotations,
		AnnotationID:   runAnnotationID,
		BookID:         bookID,
		Profile:        a.Profile,
		Settings:       cfg.Settings(),
	})
	if err != nil {
		var missing *pipeline.MissingInputError
		if errors.As(err, &missing) {
			slog.Error("missing input", "artifact", missing.Artifact, "path", missing.Path)
		}
		return err
	}

	paths, err := output.WriteAll(outDir, res)
	if err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}

	if !runNoStore {
		if err := a.OpenStore(ctx); err != nil {
			return err
		}
		if err := a.Store.SaveRun(ctx, res); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	report.RunSummary(cmd.OutOrStdout(), res.Outcome, paths)

	if res.Outcome.Status == pipeline.StatusEmpty && runFailOnEmpty {
		return errEmptyRun
	}
	return nil
}
