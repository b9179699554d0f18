package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/litminer/internal/db"
	"github.com/abdulachik/litminer/internal/model"
	"github.com/abdulachik/litminer/internal/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newStore(t *testing.T) *db.Store {
	t.Helper()
	ctx := context.Background()
	store, err := db.NewStore(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { store.Close() })
	return store
}

func sp(s string) *string { return &s }

func seed(t *testing.T, store *db.Store) {
	t.Helper()
	quotes := []model.Quote{
		{ID: 1, BookID: 1, CharacterID: sp("3"), ChapterID: 10, Part: 2, Page: 4, Significance: 4,
			Text: "We shall meet in the place where there is no darkness.", ExtractionMethod: model.MethodQuoted,
			Themes: []string{"Love vs. Hate"}},
		{ID: 2, BookID: 1, ChapterID: 1, Part: 1, Page: 1, Significance: 3,
			Text: "Big Brother is watching you and the telescreen never sleeps", ExtractionMethod: model.MethodKeyword,
			Themes: []string{"Surveillance"}},
	}
	res := &pipeline.Result{
		Outcome: pipeline.Outcome{
			RunID: "01HWEB", BookID: 1, Status: pipeline.StatusCompleted, Quotes: 2, Characters: 1, Themes: 1,
			EmptyArtifacts: []string{pipeline.ArtifactRelationships}, SourceHash: "abc", FinishedAt: time.Unix(0, 0),
		},
		Quotes: model.QuoteDocument{
			Quotes: quotes,
			Explorer: model.Explorer{
				QuotesByTheme:         map[string][]model.ThemeQuote{"Surveillance": {{ID: 2, Text: quotes[1].Text, Chapter: 1, Significance: 3}}},
				QuotesByCharacter:     map[string][]model.CharacterQuote{"Narrator": {}},
				MostSignificantQuotes: []model.SignificantQuote{},
			},
		},
		Characters:    []model.Character{{ID: "3", Name: "O'Brien", Aliases: []string{"O'Brien"}, SampleQuotes: []string{}}},
		Themes:        []model.Theme{{Name: "Surveillance", Keywords: []string{"telescreen"}, OccurrenceCount: 1, Evidence: []string{"1.0"}}},
		Relationships: []model.Relationship{},
	}
	require.NoError(t, store.SaveRun(context.Background(), res))
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_NoRuns(t *testing.T) {
	r := NewServer(newStore(t)).Router()

	w := get(t, r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	for _, path := range []string{"/api/runs/latest", "/api/quotes", "/api/characters", "/api/quotes/explorer"} {
		w := get(t, r, path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestRouter(t *testing.T) {
	store := newStore(t)
	seed(t, store)
	r := NewServer(store).Router()

	t.Run("latest run", func(t *testing.T) {
		w := get(t, r, "/api/runs/latest")
		require.Equal(t, http.StatusOK, w.Code)

		var run runResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
		assert.Equal(t, "01HWEB", run.ID)
		assert.Equal(t, int64(2), run.Quotes)
		assert.Equal(t, []string{"relationships"}, run.EmptyArtifacts)
	})

	t.Run("artifacts served as stored", func(t *testing.T) {
		w := get(t, r, "/api/relationships")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]\n", w.Body.String())

		w = get(t, r, "/api/characters")
		require.Equal(t, http.StatusOK, w.Code)
		var chars []model.Character
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chars))
		assert.Equal(t, "O'Brien", chars[0].Name)

		w = get(t, r, "/api/themes")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"evidence_sentence_ids"`)
	})

	t.Run("explorer", func(t *testing.T) {
		w := get(t, r, "/api/quotes/explorer")
		require.Equal(t, http.StatusOK, w.Code)

		var ex model.Explorer
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ex))
		assert.Len(t, ex.QuotesByTheme["Surveillance"], 1)
		assert.Contains(t, ex.QuotesByCharacter, "Narrator")
	})

	quoteTests := []struct {
		name string
		path string
		code int
		want []int
	}{
		{"all quotes", "/api/quotes", http.StatusOK, []int{1, 2}},
		{"theme filter", "/api/quotes?theme=Surveillance", http.StatusOK, []int{2}},
		{"character filter", "/api/quotes?character=3", http.StatusOK, []int{1}},
		{"significance filter", "/api/quotes?min_significance=4", http.StatusOK, []int{1}},
		{"limit", "/api/quotes?limit=1", http.StatusOK, []int{1}},
		{"no match", "/api/quotes?theme=Nothing", http.StatusOK, []int{}},
		{"bad limit", "/api/quotes?limit=abc", http.StatusBadRequest, nil},
		{"zero limit", "/api/quotes?limit=0", http.StatusBadRequest, nil},
		{"bad significance", "/api/quotes?min_significance=high", http.StatusBadRequest, nil},
	}

	for _, tt := range quoteTests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, r, tt.path)
			require.Equal(t, tt.code, w.Code)
			if tt.code != http.StatusOK {
				return
			}

			var body struct {
				RunID  string        `json:"run_id"`
				Quotes []model.Quote `json:"quotes"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "01HWEB", body.RunID)

			got := []int{}
			for _, q := range body.Quotes {
				got = append(got, q.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
