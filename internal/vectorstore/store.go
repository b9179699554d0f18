// Package vectorstore indexes extracted quotes in VecLite for BM25 and
// semantic search.
package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abdul-hamid-achik/veclite"

	"github.com/abdulachik/litminer/internal/model"
)

const quotesCollection = "quotes"

// Config holds configuration for the QuoteStore.
type Config struct {
	// Path to the VecLite database file (e.g., "data/quotes.veclite").
	Path string

	// ConfigPath is the path to veclite.yaml. When empty VecLite searches
	// ./veclite.yaml and ~/.veclite/config.yaml.
	ConfigPath string
}

// QuoteStore wraps a VecLite collection of quotes.
type QuoteStore struct {
	vecdb    *veclite.DB
	coll     *veclite.Collection
	embedder veclite.Embedder
}

// SearchResult is one quote returned by a search.
type SearchResult struct {
	VecLiteID    uint64
	RunID        string
	QuoteID      int
	Text         string
	Character    string
	Themes       []string
	Chapter      int
	Page         int
	Significance int
	Score        float32
}

// New opens the store at cfg.Path using the embedder from veclite.yaml.
func New(cfg Config) (*QuoteStore, error) {
	slog.Debug("creating QuoteStore", "path", cfg.Path, "config_path", cfg.ConfigPath)

	vecliteCfg, err := veclite.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load veclite config: %w", err)
	}

	embedder, err := veclite.NewEmbedderFromConfig(vecliteCfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	vecdb, err := veclite.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open veclite db: %w", err)
	}

	coll, err := vecdb.CreateCollection(quotesCollection,
		veclite.WithDimension(embedder.Dimension()),
		veclite.WithDistanceType(veclite.DistanceCosine),
		veclite.WithHNSW(16, 200),
		veclite.WithTextIndex("text", "themes", "character"),
		veclite.WithEmbedder(embedder),
	)
	if err != nil {
		coll, err = vecdb.GetCollection(quotesCollection)
		if err != nil {
			vecdb.Close()
			return nil, fmt.Errorf("get collection: %w", err)
		}
	}

	slog.Info("opened quote index",
		"path", cfg.Path,
		"provider", vecliteCfg.Embedder.Provider,
		"dimension", embedder.Dimension(),
	)

	return &QuoteStore{vecdb: vecdb, coll: coll, embedder: embedder}, nil
}

// Close closes the VecLite database.
func (s *QuoteStore) Close() error {
	if s.vecdb != nil {
		return s.vecdb.Close()
	}
	return nil
}

// InsertQuote embeds and stores a quote of run runID. character is the
// resolved speaker name, "Narrator" for unattributed quotes.
func (s *QuoteStore) InsertQuote(ctx context.Context, runID string, q model.Quote, character string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	id, err := s.coll.InsertText(q.Text, Payload(runID, q, character))
	if err != nil {
		return 0, fmt.Errorf("insert quote %d: %w", q.ID, err)
	}
	return id, nil
}

// Search finds quotes semantically similar to query.
func (s *QuoteStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	results, err := s.coll.SearchText(query, veclite.TopK(k))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return convertResults(results), nil
}

// TextSearch performs BM25 full-text search over text, themes and speaker.
func (s *QuoteStore) TextSearch(ctx context.Context, query string, k int) ([]SearchResult, error) {
	results, err := s.coll.TextSearch(query, veclite.TopK(k))
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	return convertResults(results), nil
}

// SearchByCharacter limits a semantic search to one speaker.
func (s *QuoteStore) SearchByCharacter(ctx context.Context, query, character string, k int) ([]SearchResult, error) {
	queryVec, err := s.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.coll.Search(queryVec,
		veclite.TopK(k),
		veclite.WithFilter(veclite.Equal("character", character)),
	)
	if err != nil {
		return nil, fmt.Errorf("search by character: %w", err)
	}
	return convertResults(results), nil
}

// Count returns the number of indexed quotes.
func (s *QuoteStore) Count() int {
	return s.coll.Count()
}

// Stats returns collection statistics.
func (s *QuoteStore) Stats() veclite.CollectionStats {
	return s.coll.Stats()
}

// Sync persists pending changes to disk.
func (s *QuoteStore) Sync() error {
	return s.vecdb.Sync()
}

// Payload builds the stored payload of a quote. Themes are joined with
// commas so the text index can match them.
func Payload(runID string, q model.Quote, character string) map[string]any {
	return map[string]any{
		"run_id":       runID,
		"quote_id":     q.ID,
		"text":         q.Text,
		"character":    character,
		"themes":       strings.Join(q.Themes, ","),
		"chapter":      q.ChapterID,
		"page":         q.Page,
		"significance": q.Significance,
	}
}

func convertResults(results []veclite.Result) []SearchResult {
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, fromPayload(r.Record.ID, r.Score, r.Record.Content, r.Record.Payload))
	}
	return out
}

// Quote converts a result back into the quote shape used for display.
func (r SearchResult) Quote() model.Quote {
	return model.Quote{
		ID:           r.QuoteID,
		ChapterID:    r.Chapter,
		Page:         r.Page,
		Text:         r.Text,
		Significance: r.Significance,
		Themes:       r.Themes,
	}
}

// fromPayload decodes a stored payload. Numbers may come back as int,
// int64 or float64 depending on how the collection was persisted.
func fromPayload(id uint64, score float32, content string, payload map[string]any) SearchResult {
	sr := SearchResult{VecLiteID: id, Score: score, Themes: []string{}}

	if payload != nil {
		sr.RunID, _ = payload["run_id"].(string)
		sr.Text, _ = payload["text"].(string)
		sr.Character, _ = payload["character"].(string)
		sr.QuoteID = toInt(payload["quote_id"])
		sr.Chapter = toInt(payload["chapter"])
		sr.Page = toInt(payload["page"])
		sr.Significance = toInt(payload["significance"])
		if themes, ok := payload["themes"].(string); ok && themes != "" {
			sr.Themes = strings.Split(themes, ",")
		}
	}

	if sr.Text == "" {
		sr.Text = content
	}
	return sr
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
