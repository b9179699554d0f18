// Package relations infers character relationships from paragraph
// co-occurrence and from characters naming each other in their quotes.
package relations

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/abdulachik/litminer/internal/annotation"
	"github.com/abdulachik/litminer/internal/model"
)

// Relationship type labels.
const (
	TypeInteracts = "interacts with"
	TypeMentions  = "mentions"
)

// Pair is an unordered pair of character ids with A < B.
type Pair struct {
	A, B string
}

// PairKey returns the canonical key for two ids.
func PairKey(x, y string) Pair {
	if x > y {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// Config controls edge emission.
type Config struct {
	// Threshold is the minimum co-occurrence count for an edge.
	Threshold int
}

// DefaultConfig returns the standard settings.
func DefaultConfig() Config {
	return Config{Threshold: 3}
}

// Engine computes relationship edges.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// CoOccurrence counts, per unit, every unordered pair of distinct known
// characters mentioned in it. Pairs reaching the threshold become edges
// ordered by strength, highest first, in order of first co-occurrence among
// equals.
func (e *Engine) CoOccurrence(mentions []annotation.Mention, universe []model.Character) []model.Relationship {
	names := nameIndex(universe)

	counts := make(map[Pair]int)
	var order []Pair

	var (
		unit    int
		started bool
		present []string
		inUnit  = make(map[string]bool)
	)

	flush := func() {
		for i := 0; i < len(present); i++ {
			for j := i + 1; j < len(present); j++ {
				key := PairKey(present[i], present[j])
				if counts[key] == 0 {
					order = append(order, key)
				}
				counts[key]++
			}
		}
		present = present[:0]
		clear(inUnit)
	}

	for _, m := range mentions {
		if started && m.Unit != unit {
			flush()
		}
		unit, started = m.Unit, true

		if _, ok := names[m.EntityID]; !ok || inUnit[m.EntityID] {
			continue
		}
		inUnit[m.EntityID] = true
		present = append(present, m.EntityID)
	}
	if started {
		flush()
	}

	var edges []model.Relationship
	for _, key := range order {
		n := counts[key]
		if n < e.cfg.Threshold {
			continue
		}
		edges = append(edges, model.Relationship{
			Source:     key.A,
			SourceName: names[key.A],
			Target:     key.B,
			TargetName: names[key.B],
			Type:       TypeInteracts,
			Strength:   n,
		})
	}
	sortByStrength(edges)

	slog.Info("computed co-occurrence", "pairs", len(order), "edges", len(edges), "threshold", e.cfg.Threshold)
	return edges
}

// CrossMentions counts, for every ordered pair (A, B) of characters, how
// many of A's quotes contain one of B's aliases (case-insensitive). Every
// non-zero count is an edge; no threshold applies.
func (e *Engine) CrossMentions(chars []model.Character, quotes []annotation.AttributedQuote) []model.Relationship {
	spoken := make(map[string][]string)
	for _, q := range quotes {
		spoken[q.SpeakerID] = append(spoken[q.SpeakerID], strings.ToLower(q.Text))
	}

	aliases := make(map[string][]string, len(chars))
	for _, c := range chars {
		for _, a := range append([]string{c.Name}, c.Aliases...) {
			if a = strings.ToLower(a); a != "" {
				aliases[c.ID] = append(aliases[c.ID], a)
			}
		}
	}

	var edges []model.Relationship
	for _, src := range chars {
		texts := spoken[src.ID]
		if len(texts) == 0 {
			continue
		}
		for _, dst := range chars {
			if dst.ID == src.ID {
				continue
			}
			n := 0
			for _, text := range texts {
				if containsAny(text, aliases[dst.ID]) {
					n++
				}
			}
			if n == 0 {
				continue
			}
			edges = append(edges, model.Relationship{
				Source:     src.ID,
				SourceName: src.Name,
				Target:     dst.ID,
				TargetName: dst.Name,
				Type:       TypeMentions,
				Strength:   n,
			})
		}
	}
	sortByStrength(edges)

	return edges
}

func nameIndex(chars []model.Character) map[string]string {
	names := make(map[string]string, len(chars))
	for _, c := range chars {
		names[c.ID] = c.Name
	}
	return names
}

func sortByStrength(edges []model.Relationship) {
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Strength > edges[j].Strength
	})
}

func containsAny(text string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
