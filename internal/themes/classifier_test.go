package themes

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/litminer/internal/model"
	"github.com/abdulachik/litminer/internal/profile"
)

var testCatalog = []model.ThemeDef{
	{Name: "War", Keywords: []string{"war", "battle"}},
	{Name: "Memory", Keywords: []string{"remember", "Past"}},
	{Name: "Love", Keywords: []string{"love"}},
}

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(testCatalog)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"no match", "the sky was blue", []string{}},
		{"single theme", "They went to war", []string{"War"}},
		{"case insensitive", "I REMEMBER the PAST", []string{"Memory"}},
		{"substring without word boundary", "the warden came", []string{"War"}},
		{"multi label in catalog order", "love and battle and memories I remember", []string{"War", "Memory", "Love"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_DefaultCatalog(t *testing.T) {
	c := NewClassifier(profile.Default().Themes)

	got := c.Classify("Big Brother is watching you through the telescreen")
	assert.Equal(t, []string{"Totalitarianism", "Surveillance"}, got)
	assert.Len(t, c.Names(), 6)
}

func TestClassifier_Stats(t *testing.T) {
	c := NewClassifier(testCatalog)

	units := []model.TextUnit{
		{Locator: "s1", Text: "war and battle"},
		{Locator: "s2", Text: "I remember"},
		{Locator: "s3", Text: "another war"},
		{Locator: "s3", Text: "war again in the same sentence id"},
	}

	stats := c.Stats(units)
	require.Len(t, stats, 3)

	assert.Equal(t, "War", stats[0].Name)
	assert.Equal(t, 4, stats[0].OccurrenceCount)
	assert.Equal(t, []string{"s1", "s3"}, stats[0].Evidence)
	assert.Equal(t, []string{"war", "battle"}, stats[0].Keywords)

	assert.Equal(t, "Memory", stats[1].Name)
	assert.Equal(t, 1, stats[1].OccurrenceCount)

	assert.Equal(t, "Love", stats[2].Name)
	assert.Equal(t, 0, stats[2].OccurrenceCount)
	assert.Equal(t, []string{}, stats[2].Evidence)
}

func TestClassifier_StatsEvidenceBound(t *testing.T) {
	c := NewClassifier(testCatalog)

	var units []model.TextUnit
	for i := 0; i < 25; i++ {
		units = append(units, model.TextUnit{Locator: fmt.Sprint(i), Text: "love"})
	}

	stats := c.Stats(units)
	assert.Equal(t, "Love", stats[0].Name)
	assert.Equal(t, 25, stats[0].OccurrenceCount)
	assert.Len(t, stats[0].Evidence, MaxEvidence)
	assert.Equal(t, "0", stats[0].Evidence[0])
}

func TestClassifier_StatsTiesKeepCatalogOrder(t *testing.T) {
	c := NewClassifier(testCatalog)
	stats := c.Stats(nil)
	assert.Equal(t, []string{"War", "Memory", "Love"}, []string{stats[0].Name, stats[1].Name, stats[2].Name})
}
