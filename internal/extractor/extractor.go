// Package extractor finds quote candidates in page-segmented book text and
// scores their significance.
package extractor

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/abdulachik/litminer/internal/chapters"
	"github.com/abdulachik/litminer/internal/model"
	"github.com/abdulachik/litminer/internal/profile"
	"github.com/abdulachik/litminer/internal/source"
)

// Config holds the extraction settings for one book.
type Config struct {
	BookID int

	// Inclusive length bounds, in characters, for quotes and sentences.
	MinLength int
	MaxLength int

	// Context radius around quoted spans and keyword sentences.
	QuoteContext    int
	SentenceContext int

	// Pages shorter than this (trimmed) are skipped for candidates but
	// still move the chapter forward.
	MinPageLength int

	InitialChapter   int
	Parts            []chapters.Part
	HighSignificance profile.Range
	SignificantTerms []string
	Attribution      []profile.Attribution
}

// DefaultConfig returns the settings for the built-in profile.
func DefaultConfig() Config {
	return ConfigFor(profile.Default())
}

// ConfigFor derives extraction settings from a book profile.
func ConfigFor(p *profile.Profile) Config {
	return Config{
		BookID:           1,
		MinLength:        30,
		MaxLength:        500,
		QuoteContext:     100,
		SentenceContext:  50,
		MinPageLength:    100,
		InitialChapter:   p.InitialChapter,
		Parts:            p.Parts,
		HighSignificance: p.HighSignificance,
		SignificantTerms: p.SignificantTerms,
		Attribution:      p.Attribution,
	}
}

// quoteMarks are the delimiters scanned for quoted spans, in scan order.
var quoteMarks = []rune{'"', '\''}

// sentenceEnd splits page text into sentences.
var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// Finder scans pages for quoted spans and keyword-bearing sentences.
type Finder struct {
	cfg        Config
	mapper     *chapters.Mapper
	attributor *Attributor
	terms      []string
}

// NewFinder creates a Finder.
func NewFinder(cfg Config) *Finder {
	terms := make([]string, 0, len(cfg.SignificantTerms))
	for _, t := range cfg.SignificantTerms {
		terms = append(terms, strings.ToLower(t))
	}
	if cfg.InitialChapter == 0 {
		cfg.InitialChapter = 1
	}

	return &Finder{
		cfg:        cfg,
		mapper:     chapters.NewMapper(cfg.Parts),
		attributor: NewAttributor(cfg.Attribution),
		terms:      terms,
	}
}

// scan holds the state of one Find call.
type scan struct {
	quotes []model.Quote
	seen   map[string]bool
}

func (s *scan) add(q model.Quote) {
	q.ID = len(s.quotes) + 1
	s.seen[q.Text] = true
	s.quotes = append(s.quotes, q)
}

// Find returns the candidates of all pages, deduplicated by exact text and
// sorted by significance (highest first, discovery order among equals).
func (f *Finder) Find(pages []source.Page) []model.Quote {
	tracker := chapters.NewTracker(f.mapper, f.cfg.InitialChapter)
	s := &scan{seen: make(map[string]bool)}

	skipped := 0
	for _, page := range pages {
		if tracker.Observe(page.Lines()) {
			slog.Debug("chapter changed", "page", page.Number, "chapter", tracker.Current())
		}

		if utf8.RuneCountInString(strings.TrimSpace(page.Text)) < f.cfg.MinPageLength {
			skipped++
			continue
		}

		pos := f.mapper.Locate(tracker.Current())
		f.findQuoted(s, page, pos)
		f.findSentences(s, page, pos)
	}

	sort.SliceStable(s.quotes, func(i, j int) bool {
		return s.quotes[i].Significance > s.quotes[j].Significance
	})

	slog.Info("found quote candidates",
		"pages", len(pages),
		"short_pages", skipped,
		"candidates", len(s.quotes),
	)

	return s.quotes
}

// findQuoted emits spans between matching quote marks. A mark pairs with
// the next mark of the same kind; when the enclosed length is out of range
// the scan moves one character on, otherwise it resumes after the closing
// mark.
func (f *Finder) findQuoted(s *scan, page source.Page, pos chapters.Position) {
	runes := []rune(page.Text)

	for _, mark := range quoteMarks {
		for i := 0; i < len(runes); i++ {
			if runes[i] != mark {
				continue
			}
			j := nextRune(runes, i+1, mark)
			if j < 0 {
				break
			}
			inner := j - i - 1
			if inner < f.cfg.MinLength || inner > f.cfg.MaxLength {
				continue
			}

			f.emitQuoted(s, runes, i, j, pos, page.Number)
			i = j
		}
	}
}

func (f *Finder) emitQuoted(s *scan, runes []rune, open, shut int, pos chapters.Position, page int) {
	text := strings.TrimSpace(string(runes[open+1 : shut]))
	length := utf8.RuneCountInString(text)
	if length < f.cfg.MinLength || length > f.cfg.MaxLength || s.seen[text] {
		return
	}

	start := max(0, open-f.cfg.QuoteContext)
	end := min(len(runes), shut+1+f.cfg.QuoteContext)
	context := strings.TrimSpace(string(runes[start:end]))

	// Lead-in runs from the trimmed window start up to the opening mark.
	lead := strings.TrimLeft(string(runes[start:open]), " \t\r\n\v\f")

	score := ApplyChapterBonus(ScoreQuoted(length), pos.Chapter, f.cfg.HighSignificance)

	s.add(model.Quote{
		BookID:           f.cfg.BookID,
		CharacterID:      f.attributor.Attribute(lead),
		ChapterID:        pos.Chapter,
		Part:             pos.Part,
		Page:             page,
		Text:             text,
		Context:          &context,
		Significance:     score,
		ExtractionMethod: model.MethodQuoted,
	})
}

// findSentences emits sentences containing significant terms. They carry no
// attribution and no chapter bonus.
func (f *Finder) findSentences(s *scan, page source.Page, pos chapters.Position) {
	for _, raw := range sentenceEnd.Split(page.Text, -1) {
		sentence := strings.TrimSpace(raw)
		length := utf8.RuneCountInString(sentence)
		if length < f.cfg.MinLength || length > f.cfg.MaxLength || s.seen[sentence] {
			continue
		}

		matches := f.countTerms(sentence)
		if matches == 0 {
			continue
		}

		s.add(model.Quote{
			BookID:           f.cfg.BookID,
			ChapterID:        pos.Chapter,
			Part:             pos.Part,
			Page:             page.Number,
			Text:             sentence,
			Context:          window(page.Text, sentence, f.cfg.SentenceContext),
			Significance:     ScoreKeyword(matches),
			ExtractionMethod: model.MethodKeyword,
		})
	}
}

// countTerms returns how many distinct significant terms occur in text.
func (f *Finder) countTerms(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, term := range f.terms {
		if strings.Contains(lower, term) {
			n++
		}
	}
	return n
}

// window returns the trimmed text around the first occurrence of needle,
// or nil when needle cannot be found.
func window(text, needle string, radius int) *string {
	idx := strings.Index(text, needle)
	if idx < 0 {
		return nil
	}

	runes := []rune(text)
	start := utf8.RuneCountInString(text[:idx])
	end := start + utf8.RuneCountInString(needle)

	ctx := strings.TrimSpace(string(runes[max(0, start-radius):min(len(runes), end+radius)]))
	return &ctx
}

func nextRune(runes []rune, from int, r rune) int {
	for k := from; k < len(runes); k++ {
		if runes[k] == r {
			return k
		}
	}
	return -1
}
