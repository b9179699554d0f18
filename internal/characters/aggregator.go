// Package characters builds canonical character records from an annotation
// stream.
package characters

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/abdulachik/litminer/internal/annotation"
	"github.com/abdulachik/litminer/internal/model"
)

// Role labels.
const (
	RoleProtagonist = "protagonist"
	RoleMajor       = "major character"
	RoleSupporting  = "supporting character"
)

// Config controls aggregation.
type Config struct {
	// Category restricts mentions to one entity category. Empty keeps all.
	Category string
	// MinMentions drops characters with mention_count <= MinMentions when > 0.
	MinMentions int
	// MaxCharacters caps the result when > 0.
	MaxCharacters int
	// SampleQuotes bounds the sample quotes per character.
	SampleQuotes int
	// MeaningfulWords, when > 0, prefers quotes with more words than this as
	// samples. Zero keeps the first quotes in stream order.
	MeaningfulWords int
	// MajorMentions is the mention count above which a character is major.
	MajorMentions int
	// Gender looks up a gender for a canonical name. Nil means "unknown".
	Gender func(name string) string
}

// DefaultConfig returns the standard aggregation settings.
func DefaultConfig() Config {
	return Config{
		Category:      "PER",
		MinMentions:   20,
		MaxCharacters: 20,
		SampleQuotes:  10,
		MajorMentions: 100,
	}
}

// Aggregator builds character records.
type Aggregator struct {
	cfg Config
}

// NewAggregator creates an Aggregator.
func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

type tally struct {
	id       string
	mentions int
	names    map[string]int
	order    []string // distinct named surfaces, first seen first
	quotes   []string
}

// Aggregate returns one record per entity that has at least one proper or
// nominal mention, sorted by mention count (highest first, first-seen order
// among equals), then filtered and capped per the config.
func (a *Aggregator) Aggregate(mentions []annotation.Mention, quotes []annotation.AttributedQuote) []model.Character {
	byID := make(map[string]*tally)
	var seen []*tally

	for _, m := range mentions {
		if a.cfg.Category != "" && m.Category != a.cfg.Category {
			continue
		}
		t, ok := byID[m.EntityID]
		if !ok {
			t = &tally{id: m.EntityID, names: make(map[string]int)}
			byID[m.EntityID] = t
			seen = append(seen, t)
		}
		t.mentions++

		if !m.Type.Named() || m.Text == "" {
			continue
		}
		if t.names[m.Text] == 0 {
			t.order = append(t.order, m.Text)
		}
		t.names[m.Text]++
	}

	for _, q := range quotes {
		if t, ok := byID[q.SpeakerID]; ok {
			t.quotes = append(t.quotes, q.Text)
		}
	}

	var out []model.Character
	for _, t := range seen {
		if len(t.order) == 0 {
			continue
		}
		name := canonical(t)
		out = append(out, model.Character{
			ID:           t.id,
			Name:         name,
			Aliases:      append([]string(nil), t.order...),
			MentionCount: t.mentions,
			QuoteCount:   len(t.quotes),
			Gender:       a.gender(name),
			SampleQuotes: a.samples(t.quotes),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MentionCount > out[j].MentionCount
	})

	total := len(out)
	if a.cfg.MinMentions > 0 {
		kept := out[:0]
		for _, c := range out {
			if c.MentionCount > a.cfg.MinMentions {
				kept = append(kept, c)
			}
		}
		out = kept
	}
	if a.cfg.MaxCharacters > 0 && len(out) > a.cfg.MaxCharacters {
		out = out[:a.cfg.MaxCharacters]
	}

	a.assignRoles(out)

	slog.Info("aggregated characters", "entities", len(seen), "named", total, "kept", len(out))
	if out == nil {
		out = []model.Character{}
	}
	return out
}

// canonical picks the most frequent named surface; the earliest seen wins ties.
func canonical(t *tally) string {
	best := t.order[0]
	for _, name := range t.order[1:] {
		if t.names[name] > t.names[best] {
			best = name
		}
	}
	return best
}

func (a *Aggregator) samples(quotes []string) []string {
	limit := a.cfg.SampleQuotes
	pool := quotes
	if a.cfg.MeaningfulWords > 0 {
		var meaningful []string
		for _, q := range quotes {
			if len(strings.Fields(q)) > a.cfg.MeaningfulWords {
				meaningful = append(meaningful, q)
			}
		}
		if len(meaningful) > 0 {
			pool = meaningful
		}
	}
	if limit > 0 && len(pool) > limit {
		pool = pool[:limit]
	}
	return append([]string{}, pool...)
}

func (a *Aggregator) gender(name string) string {
	if a.cfg.Gender == nil {
		return "unknown"
	}
	if g := a.cfg.Gender(name); g != "" {
		return g
	}
	return "unknown"
}

func (a *Aggregator) assignRoles(chars []model.Character) {
	if len(chars) == 0 {
		return
	}
	top := chars[0].MentionCount
	for i := range chars {
		switch {
		case chars[i].MentionCount == top:
			chars[i].Role = RoleProtagonist
		case chars[i].MentionCount > a.cfg.MajorMentions:
			chars[i].Role = RoleMajor
		default:
			chars[i].Role = RoleSupporting
		}
	}
}

// CountRelationships sets RelationshipCount to the number of edges touching
// each character.
func CountRelationships(chars []model.Character, edges []model.Relationship) {
	counts := make(map[string]int)
	for _, e := range edges {
		counts[e.Source]++
		counts[e.Target]++
	}
	for i := range chars {
		chars[i].RelationshipCount = counts[chars[i].ID]
	}
}
