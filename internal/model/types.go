package model

// Extraction method tags carried by Quote.ExtractionMethod.
const (
	MethodQuoted  = "pdf_extract"
	MethodKeyword = "keyword_extract"
)

// NarratorLabel is used wherever a quote has no attributed character.
const NarratorLabel = "Narrator"

// Quote is a scored passage found in the source text.
type Quote struct {
	ID               int      `json:"id"`
	BookID           int      `json:"bookId"`
	CharacterID      *string  `json:"characterId"`
	ChapterID        int      `json:"chapterId"`
	Part             int      `json:"part"`
	Page             int      `json:"page"`
	Text             string   `json:"text"`
	Context          *string  `json:"context"`
	Significance     int      `json:"significance"`
	ExtractionMethod string   `json:"extractionMethod"`
	Themes           []string `json:"themes"`
}

// Character is the published record for one annotated entity.
type Character struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Aliases           []string `json:"aliases"`
	MentionCount      int      `json:"mention_count"`
	QuoteCount        int      `json:"quote_count"`
	Gender            string   `json:"gender"`
	Role              string   `json:"role"`
	RelationshipCount int      `json:"relationship_count"`
	SampleQuotes      []string `json:"sample_quotes"`
}

// ThemeDef is one hand-authored catalog entry.
type ThemeDef struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords" toml:"keywords"`
}

// Theme is a catalog entry with its occurrence statistics for one run.
type Theme struct {
	Name            string   `json:"name"`
	Keywords        []string `json:"keywords"`
	OccurrenceCount int      `json:"occurrence_count"`
	Evidence        []string `json:"evidence_sentence_ids"`
}

// Relationship is a directed edge between two characters.
type Relationship struct {
	Source     string `json:"source"`
	SourceName string `json:"source_name"`
	Target     string `json:"target"`
	TargetName string `json:"target_name"`
	Type       string `json:"type"`
	Strength   int    `json:"strength"`
}

// TextUnit is a locatable span of text (a sentence or paragraph) used for
// theme statistics.
type TextUnit struct {
	Locator string
	Text    string
}

// ThemeQuote is the compact summary stored under a theme.
type ThemeQuote struct {
	ID           int    `json:"id"`
	Text         string `json:"text"`
	Chapter      int    `json:"chapter"`
	Significance int    `json:"significance"`
	Character    string `json:"character,omitempty"`
}

// CharacterQuote is the compact summary stored under a character.
type CharacterQuote struct {
	ID           int      `json:"id"`
	Text         string   `json:"text"`
	Themes       []string `json:"themes"`
	Chapter      int      `json:"chapter"`
	Significance int      `json:"significance"`
}

// SignificantQuote is an entry of the most significant list.
type SignificantQuote struct {
	ID           int      `json:"id"`
	Text         string   `json:"text"`
	Themes       []string `json:"themes"`
	Chapter      int      `json:"chapter"`
	Significance int      `json:"significance"`
	Character    string   `json:"character,omitempty"`
}

// Explorer cross-indexes quotes for browsing.
type Explorer struct {
	QuotesByTheme         map[string][]ThemeQuote     `json:"quotesByTheme"`
	QuotesByCharacter     map[string][]CharacterQuote `json:"quotesByCharacter"`
	MostSignificantQuotes []SignificantQuote          `json:"mostSignificantQuotes"`
}

// QuoteDocument is the published quote artifact.
type QuoteDocument struct {
	Quotes   []Quote  `json:"quotes"`
	Explorer Explorer `json:"explorer"`
}
