// Package themes labels text with entries of a hand-authored theme catalog.
package themes

import (
	"sort"
	"strings"

	"github.com/abdulachik/litminer/internal/model"
)

// MaxEvidence bounds the evidence locators kept per theme.
const MaxEvidence = 10

type entry struct {
	name     string
	keywords []string // lowercase
	raw      []string
}

// Classifier matches text against theme keywords. A keyword matches as a
// case-insensitive substring with no word boundary check, so "war" also
// matches "warden".
type Classifier struct {
	catalog []entry
}

// NewClassifier builds a classifier. Catalog order is preserved in results.
func NewClassifier(catalog []model.ThemeDef) *Classifier {
	c := &Classifier{catalog: make([]entry, 0, len(catalog))}
	for _, def := range catalog {
		lower := make([]string, len(def.Keywords))
		for i, kw := range def.Keywords {
			lower[i] = strings.ToLower(kw)
		}
		c.catalog = append(c.catalog, entry{name: def.Name, keywords: lower, raw: def.Keywords})
	}
	return c
}

// Names returns the theme names in catalog order.
func (c *Classifier) Names() []string {
	names := make([]string, len(c.catalog))
	for i, e := range c.catalog {
		names[i] = e.name
	}
	return names
}

// Classify returns the themes whose keywords occur in text, in catalog
// order. The result is never nil.
func (c *Classifier) Classify(text string) []string {
	lower := strings.ToLower(text)
	labels := []string{}
	for _, e := range c.catalog {
		for _, kw := range e.keywords {
			if strings.Contains(lower, kw) {
				labels = append(labels, e.name)
				break
			}
		}
	}
	return labels
}

// Stats counts keyword hits over units. Each keyword found in a unit counts
// once; the first MaxEvidence distinct unit locators are kept as evidence.
// Themes are ordered by occurrence count, highest first, catalog order
// among equals.
func (c *Classifier) Stats(units []model.TextUnit) []model.Theme {
	out := make([]model.Theme, len(c.catalog))
	seen := make([]map[string]bool, len(c.catalog))
	for i, e := range c.catalog {
		out[i] = model.Theme{Name: e.name, Keywords: e.raw, Evidence: []string{}}
		seen[i] = make(map[string]bool)
	}

	for _, u := range units {
		lower := strings.ToLower(u.Text)
		for i, e := range c.catalog {
			hits := 0
			for _, kw := range e.keywords {
				if strings.Contains(lower, kw) {
					hits++
				}
			}
			if hits == 0 {
				continue
			}
			out[i].OccurrenceCount += hits
			if !seen[i][u.Locator] && len(out[i].Evidence) < MaxEvidence {
				seen[i][u.Locator] = true
				out[i].Evidence = append(out[i].Evidence, u.Locator)
			}
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].OccurrenceCount > out[b].OccurrenceCount
	})
	return out
}
