// Package web serves the artifacts of the latest stored run over HTTP.
package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abdulachik/litminer/internal/db"
	"github.com/abdulachik/litminer/internal/model"
	"github.com/abdulachik/litminer/internal/pipeline"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Store is the read side of the run store.
type Store interface {
	LatestRun(ctx context.Context) (db.Run, error)
	GetArtifact(ctx context.Context, arg db.GetArtifactParams) (string, error)
	ListQuotes(ctx context.Context, arg db.ListQuotesParams) ([]db.Quote, error)
}

// Server answers read-only API requests.
type Server struct {
	store Store
}

// NewServer creates a Server over store.
func NewServer(store Store) *Server {
	return &Server{store: store}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	{
		api.GET("/runs/latest", s.latestRun)
		api.GET("/quotes", s.quotes)
		api.GET("/quotes/explorer", s.explorer)
		api.GET("/characters", s.artifact(pipeline.ArtifactCharacters))
		api.GET("/themes", s.artifact(pipeline.ArtifactThemes))
		api.GET("/relationships", s.artifact(pipeline.ArtifactRelationships))
	}

	return r
}

// requestLogger logs each request through slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

type runResponse struct {
	ID             string   `json:"id"`
	BookID         int64    `json:"book_id"`
	Status         string   `json:"status"`
	SourceHash     string   `json:"source_hash"`
	Quotes         int64    `json:"quotes"`
	Characters     int64    `json:"characters"`
	Themes         int64    `json:"themes"`
	Relationships  int64    `json:"relationships"`
	EmptyArtifacts []string `json:"empty_artifacts"`
	SkippedRecords int64    `json:"skipped_records"`
	FinishedAt     string   `json:"finished_at"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) latestRun(c *gin.Context) {
	run, ok := s.loadRun(c)
	if !ok {
		return
	}

	empty := run.Empty()
	if empty == nil {
		empty = []string{}
	}
	c.JSON(http.StatusOK, runResponse{
		ID:             run.ID,
		BookID:         run.BookID,
		Status:         run.Status,
		SourceHash:     run.SourceHash,
		Quotes:         run.QuoteCount,
		Characters:     run.CharacterCount,
		Themes:         run.ThemeCount,
		Relationships:  run.RelationshipCount,
		EmptyArtifacts: empty,
		SkippedRecords: run.SkippedRecords,
		FinishedAt:     run.FinishedAt,
	})
}

func (s *Server) quotes(c *gin.Context) {
	limit, err := intParam(c, "limit", defaultLimit)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	minSig, err := intParam(c, "min_significance", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_significance must be an integer"})
		return
	}

	run, ok := s.loadRun(c)
	if !ok {
		return
	}

	rows, err := s.store.ListQuotes(c.Request.Context(), db.ListQuotesParams{
		RunID:           run.ID,
		CharacterID:     c.Query("character"),
		Theme:           c.Query("theme"),
		MinSignificance: int64(minSig),
		Limit:           int64(min(limit, maxLimit)),
	})
	if err != nil {
		s.fail(c, "list quotes", err)
		return
	}

	quotes := make([]model.Quote, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, row.Model())
	}
	c.JSON(http.StatusOK, gin.H{"run_id": run.ID, "quotes": quotes})
}

func (s *Server) explorer(c *gin.Context) {
	body, ok := s.loadArtifact(c, pipeline.ArtifactQuotes)
	if !ok {
		return
	}

	var doc model.QuoteDocument
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		s.fail(c, "decode quotes artifact", err)
		return
	}
	c.JSON(http.StatusOK, doc.Explorer)
}

// artifact serves a stored artifact body as is.
func (s *Server) artifact(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := s.loadArtifact(c, name)
		if !ok {
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(body))
	}
}

func (s *Server) loadRun(c *gin.Context) (db.Run, bool) {
	run, err := s.store.LatestRun(c.Request.Context())
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no runs stored"})
		return db.Run{}, false
	}
	if err != nil {
		s.fail(c, "latest run", err)
		return db.Run{}, false
	}
	return run, true
}

func (s *Server) loadArtifact(c *gin.Context, name string) (string, bool) {
	run, ok := s.loadRun(c)
	if !ok {
		return "", false
	}

	body, err := s.store.GetArtifact(c.Request.Context(), db.GetArtifactParams{RunID: run.ID, Name: name})
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found: " + name})
		return "", false
	}
	if err != nil {
		s.fail(c, "get artifact", err)
		return "", false
	}
	return body, true
}

func (s *Server) fail(c *gin.Context, op string, err error) {
	slog.Error("request failed", "op", op, "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func intParam(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
