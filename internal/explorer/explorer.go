// Package explorer cross-indexes scored quotes by theme and by character.
package explorer

import (
	"sort"

	"github.com/abdulachik/litminer/internal/model"
	"github.com/abdulachik/litminer/internal/themes"
)

// Config controls index construction.
type Config struct {
	// Names maps character ids to display names.
	Names map[string]string
	// Characters lists display names that always get a key, even when empty.
	Characters []string
	// Cap bounds the most significant list.
	Cap int
	// MinSignificance is the score a quote needs to be most significant.
	MinSignificance int
}

// DefaultCap is the default size of the most significant list.
const DefaultCap = 50

// Build indexes quotes. Themes are recomputed from each quote's text; a
// quote without themes is left out of the theme index only.
func Build(quotes []model.Quote, classifier *themes.Classifier, cfg Config) model.Explorer {
	if cfg.MinSignificance == 0 {
		cfg.MinSignificance = 4
	}

	ex := model.Explorer{
		QuotesByTheme:         make(map[string][]model.ThemeQuote),
		QuotesByCharacter:     make(map[string][]model.CharacterQuote),
		MostSignificantQuotes: []model.SignificantQuote{},
	}
	for _, name := range classifier.Names() {
		ex.QuotesByTheme[name] = []model.ThemeQuote{}
	}
	for _, name := range cfg.Characters {
		ex.QuotesByCharacter[name] = []model.CharacterQuote{}
	}
	ex.QuotesByCharacter[model.NarratorLabel] = []model.CharacterQuote{}

	for _, q := range quotes {
		labels := classifier.Classify(q.Text)
		speaker := speakerName(q, cfg.Names)

		attributed := ""
		if speaker != model.NarratorLabel {
			attributed = speaker
		}

		for _, label := range labels {
			ex.QuotesByTheme[label] = append(ex.QuotesByTheme[label], model.ThemeQuote{
				ID:           q.ID,
				Text:         q.Text,
				Chapter:      q.ChapterID,
				Significance: q.Significance,
				Character:    attributed,
			})
		}

		ex.QuotesByCharacter[speaker] = append(ex.QuotesByCharacter[speaker], model.CharacterQuote{
			ID:           q.ID,
			Text:         q.Text,
			Themes:       labels,
			Chapter:      q.ChapterID,
			Significance: q.Significance,
		})

		if q.Significance >= cfg.MinSignificance {
			ex.MostSignificantQuotes = append(ex.MostSignificantQuotes, model.SignificantQuote{
				ID:           q.ID,
				Text:         q.Text,
				Themes:       labels,
				Chapter:      q.ChapterID,
				Significance: q.Significance,
				Character:    attributed,
			})
		}
	}

	sort.SliceStable(ex.MostSignificantQuotes, func(i, j int) bool {
		return ex.MostSignificantQuotes[i].Significance > ex.MostSignificantQuotes[j].Significance
	})
	if cfg.Cap > 0 && len(ex.MostSignificantQuotes) > cfg.Cap {
		ex.MostSignificantQuotes = ex.MostSignificantQuotes[:cfg.Cap]
	}

	return ex
}

// speakerName resolves a quote's character to a display name. Unattributed
// quotes and unknown ids fall back to the narrator.
func speakerName(q model.Quote, names map[string]string) string {
	if q.CharacterID == nil {
		return model.NarratorLabel
	}
	if name, ok := names[*q.CharacterID]; ok && name != "" {
		return name
	}
	return model.NarratorLabel
}
