package db

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/abdulachik/litminer/internal/model"
)

type Run struct {
	ID                string `json:"id"`
	BookID            int64  `json:"book_id"`
	Status            string `json:"status"`
	SourceHash        string `json:"source_hash"`
	QuoteCount        int64  `json:"quote_count"`
	CharacterCount    int64  `json:"character_count"`
	ThemeCount        int64  `json:"theme_count"`
	RelationshipCount int64  `json:"relationship_count"`
	EmptyArtifacts    string `json:"empty_artifacts"`
	SkippedRecords    int64  `json:"skipped_records"`
	FinishedAt        string `json:"finished_at"`
}

// Empty lists the artifacts that held no entries in this run.
func (r Run) Empty() []string {
	if r.EmptyArtifacts == "" {
		return nil
	}
	return strings.Split(r.EmptyArtifacts, ",")
}

type Quote struct {
	ID               int64
	RunID            string
	QuoteID          int64
	BookID           int64
	CharacterID      sql.NullString
	Chapter          int64
	Part             int64
	Page             int64
	Text             string
	TextHash         string
	Context          sql.NullString
	Significance     int64
	ExtractionMethod string
	Themes           string
}

// Model converts a stored row back into the artifact quote shape.
func (q Quote) Model() model.Quote {
	out := model.Quote{
		ID:               int(q.QuoteID),
		BookID:           int(q.BookID),
		ChapterID:        int(q.Chapter),
		Part:             int(q.Part),
		Page:             int(q.Page),
		Text:             q.Text,
		Significance:     int(q.Significance),
		ExtractionMethod: q.ExtractionMethod,
		Themes:           []string{},
	}
	if q.CharacterID.Valid {
		id := q.CharacterID.String
		out.CharacterID = &id
	}
	if q.Context.Valid {
		ctx := q.Context.String
		out.Context = &ctx
	}
	if q.Themes != "" {
		_ = json.Unmarshal([]byte(q.Themes), &out.Themes)
	}
	return out
}
