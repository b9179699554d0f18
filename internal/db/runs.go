package db

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abdulachik/litminer/internal/output"
	"github.com/abdulachik/litminer/internal/pipeline"
)

// SaveRun stores a finished run, its quote rows and its four artifacts in a
// single transaction.
func (s *Store) SaveRun(ctx context.Context, res *pipeline.Result) error {
	out := res.Outcome
	if out.RunID == "" {
		return fmt.Errorf("save run: missing run id")
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := s.Queries.WithTx(tx)

	if err := q.CreateRun(ctx, CreateRunParams{
		ID:                out.RunID,
		BookID:            int64(out.BookID),
		Status:            string(out.Status),
		SourceHash:        out.SourceHash,
		QuoteCount:        int64(out.Quotes),
		CharacterCount:    int64(out.Characters),
		ThemeCount:        int64(out.Themes),
		RelationshipCount: int64(out.Relationships),
		EmptyArtifacts:    strings.Join(out.EmptyArtifacts, ","),
		SkippedRecords:    int64(out.SkippedRecords),
		FinishedAt:        out.FinishedAt.UTC().Format(time.RFC3339Nano),
	}); err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	for _, quote := range res.Quotes.Quotes {
		themes, err := json.Marshal(quote.Themes)
		if err != nil {
			return fmt.Errorf("encode themes: %w", err)
		}
		hash := sha256.Sum256([]byte(quote.Text))

		if err := q.CreateQuote(ctx, CreateQuoteParams{
			RunID:            out.RunID,
			QuoteID:          int64(quote.ID),
			BookID:           int64(quote.BookID),
			CharacterID:      nullString(quote.CharacterID),
			Chapter:          int64(quote.ChapterID),
			Part:             int64(quote.Part),
			Page:             int64(quote.Page),
			Text:             quote.Text,
			TextHash:         hex.EncodeToString(hash[:]),
			Context:          nullString(quote.Context),
			Significance:     int64(quote.Significance),
			ExtractionMethod: quote.ExtractionMethod,
			Themes:           string(themes),
		}); err != nil {
			return fmt.Errorf("create quote %d: %w", quote.ID, err)
		}
	}

	for name, doc := range output.Documents(res) {
		body, err := output.Encode(doc)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := q.CreateArtifact(ctx, CreateArtifactParams{
			RunID: out.RunID,
			Name:  name,
			Body:  string(body),
		}); err != nil {
			return fmt.Errorf("create artifact %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}

	slog.Info("saved run", "run", out.RunID, "status", out.Status, "quotes", out.Quotes)
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
