package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/litminer/internal/model"
	"github.com/abdulachik/litminer/internal/profile"
	"github.com/abdulachik/litminer/internal/themes"
)

func id(s string) *string { return &s }

func defaultConfig() Config {
	p := profile.Default()
	return Config{Names: p.Names(), Characters: p.CharacterNames(), Cap: DefaultCap}
}

func TestBuild_Indexes(t *testing.T) {
	classifier := themes.NewClassifier(profile.Default().Themes)

	quotes := []model.Quote{
		{ID: 1, CharacterID: id("3"), ChapterID: 20, Significance: 5, Text: "The object of power is power"},
		{ID: 2, ChapterID: 2, Significance: 2, Text: "It was a bright cold day in April"},
		{ID: 3, CharacterID: id("99"), ChapterID: 4, Significance: 4, Text: "He loved Big Brother"},
	}

	ex := Build(quotes, classifier, defaultConfig())

	t.Run("theme keys are pre-populated", func(t *testing.T) {
		assert.Len(t, ex.QuotesByTheme, 6)
		assert.NotNil(t, ex.QuotesByTheme["Surveillance"])
		assert.Empty(t, ex.QuotesByTheme["Surveillance"])
	})

	t.Run("by theme", func(t *testing.T) {
		total := ex.QuotesByTheme["Totalitarianism"]
		require.Len(t, total, 2)
		assert.Equal(t, model.ThemeQuote{ID: 1, Text: "The object of power is power", Chapter: 20, Significance: 5, Character: "O'Brien"}, total[0])
		assert.Equal(t, 3, total[1].ID)
		assert.Empty(t, total[1].Character)
	})

	t.Run("quote without themes only leaves the theme index", func(t *testing.T) {
		for _, list := range ex.QuotesByTheme {
			for _, q := range list {
				assert.NotEqual(t, 2, q.ID)
			}
		}
		narrator := ex.QuotesByCharacter[model.NarratorLabel]
		require.Len(t, narrator, 2)
		assert.Equal(t, 2, narrator[0].ID)
		assert.Equal(t, []string{}, narrator[0].Themes)
		// Unknown ids fall back to the narrator.
		assert.Equal(t, 3, narrator[1].ID)
	})

	t.Run("by character keys", func(t *testing.T) {
		assert.Len(t, ex.QuotesByCharacter, 9)
		require.Len(t, ex.QuotesByCharacter["O'Brien"], 1)
		assert.Equal(t, []string{"Totalitarianism"}, ex.QuotesByCharacter["O'Brien"][0].Themes)
		assert.Empty(t, ex.QuotesByCharacter["Julia"])
	})

	t.Run("most significant", func(t *testing.T) {
		require.Len(t, ex.MostSignificantQuotes, 2)
		assert.Equal(t, 1, ex.MostSignificantQuotes[0].ID)
		assert.Equal(t, "O'Brien", ex.MostSignificantQuotes[0].Character)
		assert.Equal(t, 3, ex.MostSignificantQuotes[1].ID)
		assert.Empty(t, ex.MostSignificantQuotes[1].Character)
	})
}

func TestBuild_MostSignificantSortedAndCapped(t *testing.T) {
	classifier := themes.NewClassifier(profile.Default().Themes)

	var quotes []model.Quote
	for i := 1; i <= 150; i++ {
		quotes = append(quotes, model.Quote{ID: i, Text: "quote", Significance: 1 + i%5})
	}

	cfg := defaultConfig()
	ex := Build(quotes, classifier, cfg)

	list := ex.MostSignificantQuotes
	require.Len(t, list, DefaultCap)
	for i, q := range list {
		assert.GreaterOrEqual(t, q.Significance, 4)
		if i > 0 {
			assert.GreaterOrEqual(t, list[i-1].Significance, q.Significance)
		}
	}
	// 30 quotes score 5; ties keep input order.
	assert.Equal(t, 4, list[0].ID)
	assert.Equal(t, 9, list[1].ID)
	assert.Equal(t, 5, list[29].Significance)
	assert.Equal(t, 4, list[30].Significance)
}

func TestBuild_Empty(t *testing.T) {
	ex := Build(nil, themes.NewClassifier(nil), Config{})
	assert.Empty(t, ex.QuotesByTheme)
	assert.Equal(t, map[string][]model.CharacterQuote{model.NarratorLabel: {}}, ex.QuotesByCharacter)
	assert.NotNil(t, ex.MostSignificantQuotes)
}
