package db

import (
	"context"
	"database/sql"
)

const createRun = `
INSERT INTO runs (
    id, book_id, status, source_hash, quote_count, character_count,
    theme_count, relationship_count, empty_artifacts, skipped_records, finished_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateRunParams struct {
	ID                string
	BookID            int64
	Status            string
	SourceHash        string
	QuoteCount        int64
	CharacterCount    int64
	ThemeCount        int64
	RelationshipCount int64
	EmptyArtifacts    string
	SkippedRecords    int64
	FinishedAt        string
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, createRun,
		arg.ID,
		arg.BookID,
		arg.Status,
		arg.SourceHash,
		arg.QuoteCount,
		arg.CharacterCount,
		arg.ThemeCount,
		arg.RelationshipCount,
		arg.EmptyArtifacts,
		arg.SkippedRecords,
		arg.FinishedAt,
	)
	return err
}

const runColumns = `id, book_id, status, source_hash, quote_count, character_count,
    theme_count, relationship_count, empty_artifacts, skipped_records, finished_at`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var r Run
	err := row.Scan(
		&r.ID,
		&r.BookID,
		&r.Status,
		&r.SourceHash,
		&r.QuoteCount,
		&r.CharacterCount,
		&r.ThemeCount,
		&r.RelationshipCount,
		&r.EmptyArtifacts,
		&r.SkippedRecords,
		&r.FinishedAt,
	)
	return r, err
}

// Run IDs are ULIDs, so lexical order is creation order.
const latestRun = `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC LIMIT 1`

func (q *Queries) LatestRun(ctx context.Context) (Run, error) {
	return scanRun(q.db.QueryRowContext(ctx, latestRun))
}

const getRun = `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

func (q *Queries) GetRun(ctx context.Context, id string) (Run, error) {
	return scanRun(q.db.QueryRowContext(ctx, getRun, id))
}

const listRuns = `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC LIMIT ?`

func (q *Queries) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countRuns = `SELECT COUNT(*) FROM runs`

func (q *Queries) CountRuns(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countRuns).Scan(&count)
	return count, err
}

const createQuote = `
INSERT INTO quotes (
    run_id, quote_id, book_id, character_id, chapter, part, page,
    text, text_hash, context, significance, extraction_method, themes
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateQuoteParams struct {
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

func (q *Queries) CreateQuote(ctx context.Context, arg CreateQuoteParams) error {
	_, err := q.db.ExecContext(ctx, createQuote,
		arg.RunID,
		arg.QuoteID,
		arg.BookID,
		arg.CharacterID,
		arg.Chapter,
		arg.Part,
		arg.Page,
		arg.Text,
		arg.TextHash,
		arg.Context,
		arg.Significance,
		arg.ExtractionMethod,
		arg.Themes,
	)
	return err
}

// Empty filter values match every quote. Rows come back in artifact order.
const listQuotes = `
SELECT id, run_id, quote_id, book_id, character_id, chapter, part, page,
    text, text_hash, context, significance, extraction_method, themes
FROM quotes
WHERE run_id = ?
  AND (? = '' OR character_id = ?)
  AND (? = '' OR EXISTS (SELECT 1 FROM json_each(quotes.themes) WHERE json_each.value = ?))
  AND significance >= ?
ORDER BY id
LIMIT ?
`

type ListQuotesParams struct {
	RunID           string
	CharacterID     string
	Theme           string
	MinSignificance int64
	Limit           int64
}

func (q *Queries) ListQuotes(ctx context.Context, arg ListQuotesParams) ([]Quote, error) {
	rows, err := q.db.QueryContext(ctx, listQuotes,
		arg.RunID,
		arg.CharacterID, arg.CharacterID,
		arg.Theme, arg.Theme,
		arg.MinSignificance,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Quote
	for rows.Next() {
		var i Quote
		if err := rows.Scan(
			&i.ID,
			&i.RunID,
			&i.QuoteID,
			&i.BookID,
			&i.CharacterID,
			&i.Chapter,
			&i.Part,
			&i.Page,
			&i.Text,
			&i.TextHash,
			&i.Context,
			&i.Significance,
			&i.ExtractionMethod,
			&i.Themes,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countQuotes = `SELECT COUNT(*) FROM quotes WHERE run_id = ?`

func (q *Queries) CountQuotes(ctx context.Context, runID string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countQuotes, runID).Scan(&count)
	return count, err
}

const countQuotesByMethod = `
SELECT extraction_method, COUNT(*) AS count
FROM quotes
WHERE run_id = ?
GROUP BY extraction_method
ORDER BY extraction_method
`

type CountQuotesByMethodRow struct {
	ExtractionMethod string
	Count            int64
}

func (q *Queries) CountQuotesByMethod(ctx context.Context, runID string) ([]CountQuotesByMethodRow, error) {
	rows, err := q.db.QueryContext(ctx, countQuotesByMethod, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CountQuotesByMethodRow
	for rows.Next() {
		var i CountQuotesByMethodRow
		if err := rows.Scan(&i.ExtractionMethod, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countQuotesByChapter = `
SELECT chapter, COUNT(*) AS count
FROM quotes
WHERE run_id = ?
GROUP BY chapter
ORDER BY chapter
`

type CountQuotesByChapterRow struct {
	Chapter int64
	Count   int64
}

func (q *Queries) CountQuotesByChapter(ctx context.Context, runID string) ([]CountQuotesByChapterRow, error) {
	rows, err := q.db.QueryContext(ctx, countQuotesByChapter, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CountQuotesByChapterRow
	for rows.Next() {
		var i CountQuotesByChapterRow
		if err := rows.Scan(&i.Chapter, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createArtifact = `INSERT INTO artifacts (run_id, name, body) VALUES (?, ?, ?)`

type CreateArtifactParams struct {
	RunID string
	Name  string
	Body  string
}

func (q *Queries) CreateArtifact(ctx context.Context, arg CreateArtifactParams) error {
	_, err := q.db.ExecContext(ctx, createArtifact, arg.RunID, arg.Name, arg.Body)
	return err
}

const getArtifact = `SELECT body FROM artifacts WHERE run_id = ? AND name = ?`

type GetArtifactParams struct {
	RunID string
	Name  string
}

func (q *Queries) GetArtifact(ctx context.Context, arg GetArtifactParams) (string, error) {
	var body string
	err := q.db.QueryRowContext(ctx, getArtifact, arg.RunID, arg.Name).Scan(&body)
	return body, err
}
