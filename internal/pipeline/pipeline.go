// Package pipeline runs the full mining pass over one book and reports the
// outcome.
package pipeline

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/abdulachik/litminer/internal/annotation"
	"github.com/abdulachik/litminer/internal/characters"
	"github.com/abdulachik/litminer/internal/explorer"
	"github.com/abdulachik/litminer/internal/extractor"
	"github.com/abdulachik/litminer/internal/model"
	"github.com/abdulachik/litminer/internal/profile"
	"github.com/abdulachik/litminer/internal/relations"
	"github.com/abdulachik/litminer/internal/source"
	"github.com/abdulachik/litminer/internal/themes"
)

// Status is the reported result of a run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusEmpty     Status = "empty"
)

// Artifact names.
const (
	ArtifactQuotes        = "quotes"
	ArtifactCharacters    = "characters"
	ArtifactThemes        = "themes"
	ArtifactRelationships = "relationships"
)

// Settings tunes the run. Zero fields take their DefaultSettings value; a
// negative MinMentions or MaxCharacters disables that filter.
type Settings struct {
	MinQuoteLength     int
	MaxQuoteLength     int
	MostSignificantCap int
	MinMentions        int
	MaxCharacters      int
	Threshold          int
}

// DefaultSettings returns the standard tuning.
func DefaultSettings() Settings {
	return Settings{
		MinQuoteLength:     30,
		MaxQuoteLength:     500,
		MostSignificantCap: explorer.DefaultCap,
		MinMentions:        20,
		MaxCharacters:      20,
		Threshold:          relations.DefaultConfig().Threshold,
	}
}

// withDefaults fills every zero field from DefaultSettings.
func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	for _, f := range []struct {
		dst *int
		def int
	}{
		{&s.MinQuoteLength, def.MinQuoteLength},
		{&s.MaxQuoteLength, def.MaxQuoteLength},
		{&s.MostSignificantCap, def.MostSignificantCap},
		{&s.MinMentions, def.MinMentions},
		{&s.MaxCharacters, def.MaxCharacters},
		{&s.Threshold, def.Threshold},
	} {
		if *f.dst == 0 {
			*f.dst = f.def
		}
	}
	return s
}

// Inputs describes one run.
type Inputs struct {
	// TextPath is the converted book text (required).
	TextPath string
	// AnnotationsDir holds BookNLP output. When empty, annotations are
	// derived from the text with the profile's aliases.
	AnnotationsDir string
	// AnnotationID is the BookNLP book id used in file names.
	AnnotationID string

	BookID   int
	Profile  *profile.Profile
	Settings Settings
}

// Outcome summarises a run for callers deciding whether to fall back to
// canned data.
type Outcome struct {
	RunID          string   `json:"run_id"`
	BookID         int      `json:"book_id"`
	Status         Status   `json:"status"`
	Quotes         int      `json:"quotes"`
	Characters     int      `json:"characters"`
	Themes         int      `json:"themes"`
	Relationships  int      `json:"relationships"`
	EmptyArtifacts []string `json:"empty_artifacts"`
	// SkippedRecords counts malformed annotation lines ignored while loading.
	SkippedRecords int       `json:"skipped_records"`
	SourceHash     string    `json:"source_hash"`
	FinishedAt     time.Time `json:"finished_at"`
}

// Result carries every artifact of a run.
type Result struct {
	Outcome       Outcome
	Quotes        model.QuoteDocument
	Characters    []model.Character
	Themes        []model.Theme
	Relationships []model.Relationship
}

// NewRunID returns a new time-ordered run identifier.
func NewRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// Run executes the pipeline. A missing required input aborts the run with an
// error wrapping ErrMissingInput; an empty result is reported through the
// outcome status.
func Run(ctx context.Context, in Inputs) (*Result, error) {
	if in.Profile == nil {
		in.Profile = profile.Default()
	}
	in.Settings = in.Settings.withDefaults()
	if err := checkInputs(in); err != nil {
		return nil, err
	}

	runID := NewRunID()
	log := slog.With("run", runID)

	text, err := source.LoadFile(in.TextPath)
	if err != nil {
		return nil, fmt.Errorf("load text: %w", err)
	}
	sum := sha256.Sum256([]byte(text))

	pages := source.SplitPages(text)
	log.Info("loaded source", "path", in.TextPath, "pages", len(pages))

	classifier := themes.NewClassifier(in.Profile.Themes)

	quotes := extractor.NewFinder(extractionConfig(in)).Find(pages)
	for i := range quotes {
		quotes[i].Themes = classifier.Classify(quotes[i].Text)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	provider, skipped, err := openProvider(in, text)
	if err != nil {
		return nil, err
	}

	chars := characters.NewAggregator(characterConfig(in)).Aggregate(provider.Mentions(), provider.Quotes())

	engine := relations.NewEngine(relations.Config{Threshold: in.Settings.Threshold})
	coEdges := engine.CoOccurrence(provider.Mentions(), chars)
	mentionEdges := engine.CrossMentions(chars, provider.Quotes())
	characters.CountRelationships(chars, coEdges)

	rels := make([]model.Relationship, 0, len(coEdges)+len(mentionEdges))
	rels = append(rels, coEdges...)
	rels = append(rels, mentionEdges...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	units := provider.Units()
	if len(units) == 0 {
		units = pageUnits(pages)
	}
	themeStats := classifier.Stats(units)

	ex := explorer.Build(quotes, classifier, explorer.Config{
		Names:      in.Profile.Names(),
		Characters: in.Profile.CharacterNames(),
		Cap:        in.Settings.MostSignificantCap,
	})

	if quotes == nil {
		quotes = []model.Quote{}
	}

	res := &Result{
		Quotes:        model.QuoteDocument{Quotes: quotes, Explorer: ex},
		Characters:    chars,
		Themes:        themeStats,
		Relationships: rels,
	}
	res.Outcome = outcome(runID, res)
	res.Outcome.BookID = in.BookID
	res.Outcome.SkippedRecords = skipped
	res.Outcome.SourceHash = hex.EncodeToString(sum[:])

	log.Info("run finished",
		"status", res.Outcome.Status,
		"quotes", res.Outcome.Quotes,
		"characters", res.Outcome.Characters,
		"relationships", res.Outcome.Relationships,
		"skipped_records", skipped,
	)

	return res, nil
}

type input struct {
	artifact string
	path     string
}

func checkInputs(in Inputs) error {
	required := []input{{"source text", in.TextPath}}
	if in.AnnotationsDir != "" {
		required = append(required,
			input{"entities", annotation.EntitiesPath(in.AnnotationsDir, in.AnnotationID)},
			input{"quotes", annotation.QuotesPath(in.AnnotationsDir, in.AnnotationID)},
		)
	}

	for _, r := range required {
		if r.path == "" {
			return &MissingInputError{Artifact: r.artifact}
		}
		if _, err := os.Stat(r.path); err != nil {
			if os.IsNotExist(err) {
				return &MissingInputError{Artifact: r.artifact, Path: r.path}
			}
			return fmt.Errorf("stat %s: %w", r.artifact, err)
		}
	}
	return nil
}

// openProvider returns the annotation provider and the number of malformed
// records it skipped.
func openProvider(in Inputs, text string) (annotation.Provider, int, error) {
	if in.AnnotationsDir == "" {
		slog.Info("deriving annotations from text", "characters", len(in.Profile.Characters))
		return annotation.NewTextProvider(text, in.Profile), 0, nil
	}
	p, err := annotation.NewBookNLPProvider(in.AnnotationsDir, in.AnnotationID)
	if err != nil {
		return nil, 0, fmt.Errorf("open annotations: %w", err)
	}
	return p, p.Skipped(), nil
}

func extractionConfig(in Inputs) extractor.Config {
	cfg := extractor.ConfigFor(in.Profile)
	cfg.BookID = in.BookID
	if in.Settings.MinQuoteLength > 0 {
		cfg.MinLength = in.Settings.MinQuoteLength
	}
	if in.Settings.MaxQuoteLength > 0 {
		cfg.MaxLength = in.Settings.MaxQuoteLength
	}
	return cfg
}

func characterConfig(in Inputs) characters.Config {
	cfg := characters.DefaultConfig()
	cfg.MinMentions = in.Settings.MinMentions
	cfg.MaxCharacters = in.Settings.MaxCharacters
	cfg.Gender = in.Profile.GenderOf
	return cfg
}

// pageUnits splits pages into sentence units located as "page.sentence".
func pageUnits(pages []source.Page) []model.TextUnit {
	var units []model.TextUnit
	for _, p := range pages {
		n := 0
		for _, s := range strings.FieldsFunc(p.Text, isTerminal) {
			if s = strings.TrimSpace(s); s == "" {
				continue
			}
			units = append(units, model.TextUnit{
				Locator: strconv.Itoa(p.Number) + "." + strconv.Itoa(n),
				Text:    s,
			})
			n++
		}
	}
	return units
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func outcome(runID string, res *Result) Outcome {
	o := Outcome{
		RunID:          runID,
		Status:         StatusCompleted,
		Quotes:         len(res.Quotes.Quotes),
		Characters:     len(res.Characters),
		Themes:         len(res.Themes),
		Relationships:  len(res.Relationships),
		EmptyArtifacts: []string{},
		FinishedAt:     time.Now().UTC(),
	}

	for _, a := range []struct {
		name  string
		count int
	}{
		{ArtifactQuotes, o.Quotes},
		{ArtifactCharacters, o.Characters},
		{ArtifactThemes, o.Themes},
		{ArtifactRelationships, o.Relationships},
	} {
		if a.count == 0 {
			o.EmptyArtifacts = append(o.EmptyArtifacts, a.name)
		}
	}

	if o.Quotes == 0 && o.Characters == 0 {
		o.Status = StatusEmpty
	}
	return o
}
