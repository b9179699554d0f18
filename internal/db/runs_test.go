package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/litminer/internal/model"
	"github.com/abdulachik/litminer/internal/pipeline"
)

func strPtr(s string) *string { return &s }

func testResult(runID string) *pipeline.Result {
	quotes := []model.Quote{
		{
			ID: 1, BookID: 1, CharacterID: strPtr("3"), ChapterID: 10, Part: 2, Page: 4,
			Text:         "We shall meet in the place where there is no darkness.",
			Context:      strPtr("O'Brien said, We shall meet in the place where there is no darkness."),
			Significance: 3, ExtractionMethod: model.MethodQuoted, Themes: []string{"Love vs. Hate"},
		},
		{
			ID: 2, BookID: 1, ChapterID: 1, Part: 1, Page: 1,
			Text:         "Big Brother is watching you and the telescreen never sleeps",
			Significance: 3, ExtractionMethod: model.MethodKeyword, Themes: []string{"Surveillance", "Power and Control"},
		},
		{
			ID: 3, BookID: 1, ChapterID: 1, Part: 1, Page: 2,
			Text:         "The Party told you to reject the evidence of your eyes and ears",
			Significance: 2, ExtractionMethod: model.MethodKeyword, Themes: []string{},
		},
	}

	return &pipeline.Result{
		Outcome: pipeline.Outcome{
			RunID:          runID,
			BookID:         1,
			Status:         pipeline.StatusCompleted,
			Quotes:         len(quotes),
			Characters:     1,
			Themes:         1,
			EmptyArtifacts: []string{pipeline.ArtifactRelationships},
			SkippedRecords: 2,
			SourceHash:     "abc123",
			FinishedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		Quotes:        model.QuoteDocument{Quotes: quotes},
		Characters:    []model.Character{{ID: "3", Name: "O'Brien", Aliases: []string{}, SampleQuotes: []string{}}},
		Themes:        []model.Theme{{Name: "Surveillance", Keywords: []string{"telescreen"}, OccurrenceCount: 1, Evidence: []string{"1.0"}}},
		Relationships: []model.Relationship{},
	}
}

func TestStore_SaveRun(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, testResult("01HZZZZZZZZZZZZZZZZZZZZZZ1")))

	t.Run("latest run", func(t *testing.T) {
		run, err := store.LatestRun(ctx)
		require.NoError(t, err)
		assert.Equal(t, "01HZZZZZZZZZZZZZZZZZZZZZZ1", run.ID)
		assert.Equal(t, int64(1), run.BookID)
		assert.Equal(t, "completed", run.Status)
		assert.Equal(t, int64(3), run.QuoteCount)
		assert.Equal(t, []string{"relationships"}, run.Empty())
		assert.Equal(t, int64(2), run.SkippedRecords)
		assert.Equal(t, "2024-01-02T03:04:05Z", run.FinishedAt)
	})

	t.Run("artifacts", func(t *testing.T) {
		body, err := store.GetArtifact(ctx, GetArtifactParams{RunID: "01HZZZZZZZZZZZZZZZZZZZZZZ1", Name: pipeline.ArtifactRelationships})
		require.NoError(t, err)
		assert.Equal(t, "[]\n", body)

		body, err = store.GetArtifact(ctx, GetArtifactParams{RunID: "01HZZZZZZZZZZZZZZZZZZZZZZ1", Name: pipeline.ArtifactCharacters})
		require.NoError(t, err)
		var chars []model.Character
		require.NoError(t, json.Unmarshal([]byte(body), &chars))
		assert.Equal(t, "O'Brien", chars[0].Name)
	})

	t.Run("quote rows round trip", func(t *testing.T) {
		rows, err := store.ListQuotes(ctx, ListQuotesParams{RunID: "01HZZZZZZZZZZZZZZZZZZZZZZ1", Limit: -1})
		require.NoError(t, err)
		require.Len(t, rows, 3)

		q := rows[0].Model()
		require.NotNil(t, q.CharacterID)
		assert.Equal(t, "3", *q.CharacterID)
		assert.Equal(t, 10, q.ChapterID)
		assert.Equal(t, []string{"Love vs. Hate"}, q.Themes)
		assert.Len(t, rows[0].TextHash, 64)

		assert.Nil(t, rows[1].Model().CharacterID)
		assert.Nil(t, rows[1].Model().Context)
		assert.Equal(t, []string{}, rows[2].Model().Themes)
	})

	t.Run("duplicate run id fails and rolls back", func(t *testing.T) {
		err := store.SaveRun(ctx, testResult("01HZZZZZZZZZZZZZZZZZZZZZZ1"))
		require.Error(t, err)

		count, err := store.CountQuotes(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZ1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("missing run id", func(t *testing.T) {
		assert.Error(t, store.SaveRun(ctx, testResult("")))
	})
}

func TestStore_LatestRunOrdering(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	_, err := store.LatestRun(ctx)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, store.SaveRun(ctx, testResult("01HAAAAAAAAAAAAAAAAAAAAAAA")))
	require.NoError(t, store.SaveRun(ctx, testResult("01HBBBBBBBBBBBBBBBBBBBBBBB")))

	run, err := store.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "01HBBBBBBBBBBBBBBBBBBBBBBB", run.ID)

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "01HBBBBBBBBBBBBBBBBBBBBBBB", runs[0].ID)

	runs, err = store.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	old, err := store.GetRun(ctx, "01HAAAAAAAAAAAAAAAAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, int64(3), old.QuoteCount)

	_, err = store.GetRun(ctx, "01HMISSINGMISSINGMISSINGMI")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStore_ListQuotesFilters(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()
	runID := "01HZZZZZZZZZZZZZZZZZZZZZZ2"
	require.NoError(t, store.SaveRun(ctx, testResult(runID)))

	tests := []struct {
		name string
		arg  ListQuotesParams
		want []int64
	}{
		{"all", ListQuotesParams{RunID: runID, Limit: -1}, []int64{1, 2, 3}},
		{"by theme", ListQuotesParams{RunID: runID, Theme: "Surveillance", Limit: -1}, []int64{2}},
		{"by character", ListQuotesParams{RunID: runID, CharacterID: "3", Limit: -1}, []int64{1}},
		{"by significance", ListQuotesParams{RunID: runID, MinSignificance: 3, Limit: -1}, []int64{1, 2}},
		{"limit", ListQuotesParams{RunID: runID, Limit: 1}, []int64{1}},
		{"unknown theme", ListQuotesParams{RunID: runID, Theme: "Nope", Limit: -1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := store.ListQuotes(ctx, tt.arg)
			require.NoError(t, err)
			var got []int64
			for _, r := range rows {
				got = append(got, r.QuoteID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_Counts(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()
	runID := "01HZZZZZZZZZZZZZZZZZZZZZZ3"
	require.NoError(t, store.SaveRun(ctx, testResult(runID)))

	byMethod, err := store.CountQuotesByMethod(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, []CountQuotesByMethodRow{
		{ExtractionMethod: model.MethodKeyword, Count: 2},
		{ExtractionMethod: model.MethodQuoted, Count: 1},
	}, byMethod)

	byChapter, err := store.CountQuotesByChapter(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, []CountQuotesByChapterRow{{Chapter: 1, Count: 2}, {Chapter: 10, Count: 1}}, byChapter)
}
