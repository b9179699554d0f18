package profile

import (
	"github.com/abdulachik/litminer/internal/chapters"
	"github.com/abdulachik/litminer/internal/model"
)

// Default returns the built-in profile for Orwell's Nineteen Eighty-Four.
func Default() *Profile {
	return &Profile{
		Title: "1984",
		Parts: []chapters.Part{
			{Number: 1, First: 1, Last: 8},
			{Number: 2, First: 9, Last: 17},
			{Number: 3, First: 18, Last: 23},
		},
		InitialChapter:   1,
		HighSignificance: Range{First: 8, Last: 16},
		SignificantTerms: []string{
			"freedom", "war is peace", "ignorance is strength", "thought crime",
			"big brother", "ministry of truth", "ministry of love", "doublethink",
			"newspeak", "memory hole", "telescreen", "thought police", "room 101",
			"oceania", "eastasia", "eurasia", "proles", "brotherhood", "goldstein",
			"thoughtcrime", "crimethink", "facecrime", "unperson", "vaporized",
			"blackwhite", "bellyfeel", "oldspeak", "crimestop", "goodthink",
			"emmanuel", "smith", "julia",
		},
		Attribution: []Attribution{
			{Name: "Winston", CharacterID: "1"},
			{Name: "Smith", CharacterID: "1"},
			{Name: "Julia", CharacterID: "2"},
			{Name: "O'Brien", CharacterID: "3"},
			{Name: "Charrington", CharacterID: "4"},
			{Name: "Parsons", CharacterID: "5"},
			{Name: "Syme", CharacterID: "6"},
			{Name: "Ampleforth", CharacterID: "7"},
			{Name: "Big Brother", CharacterID: "8"},
		},
		Characters: []Character{
			{ID: "1", Name: "Winston Smith", Aliases: []string{"Winston Smith", "Winston", "Smith"}, Gender: "male"},
			{ID: "2", Name: "Julia", Aliases: []string{"Julia"}, Gender: "female"},
			{ID: "3", Name: "O'Brien", Aliases: []string{"O'Brien"}, Gender: "male"},
			{ID: "4", Name: "Mr. Charrington", Aliases: []string{"Mr. Charrington", "Charrington"}, Gender: "male"},
			{ID: "5", Name: "Parsons", Aliases: []string{"Parsons", "Tom Parsons"}, Gender: "male"},
			{ID: "6", Name: "Syme", Aliases: []string{"Syme"}, Gender: "male"},
			{ID: "7", Name: "Ampleforth", Aliases: []string{"Ampleforth"}, Gender: "male"},
			{ID: "8", Name: "Big Brother", Aliases: []string{"Big Brother"}, Gender: "male"},
		},
		Themes: []model.ThemeDef{
			{Name: "Totalitarianism", Keywords: []string{
				"big brother", "party", "control", "power", "surveillance",
				"telescreens", "thought police", "ministry", "victory",
			}},
			{Name: "Psychological Manipulation", Keywords: []string{
				"doublethink", "newspeak", "reality control", "memory hole",
				"vaporized", "unperson", "confession", "torture", "room 101", "pain",
			}},
			{Name: "Control of Information", Keywords: []string{
				"ministry of truth", "records", "memory hole", "newspeak",
				"dictionary", "alter", "rewrite", "history", "facts", "documents",
			}},
			{Name: "Individual vs. Collective", Keywords: []string{
				"proles", "brotherhood", "rebellion", "resist", "freedom",
				"individual", "humanity", "solidarity", "alone", "masses",
			}},
			{Name: "Surveillance", Keywords: []string{
				"telescreen", "watched", "spies", "thought police", "hidden",
				"microphone", "eyes", "ears", "patrol", "observe",
			}},
			{Name: "Identity and Existence", Keywords: []string{
				"exist", "existed", "memory", "proof", "photograph", "diary",
				"remember", "forget", "self", "identity", "persist",
			}},
		},
	}
}
