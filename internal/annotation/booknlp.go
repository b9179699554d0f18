package annotation

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/abdulachik/litminer/internal/model"
)

// DefaultUnitTokenWindow sizes the pseudo-paragraphs used when no token
// table is available.
const DefaultUnitTokenWindow = 250

// EntitiesPath, QuotesPath and TokensPath name the BookNLP output files
// for one book id.
func EntitiesPath(dir, bookID string) string { return filepath.Join(dir, bookID+".entities") }
func QuotesPath(dir, bookID string) string   { return filepath.Join(dir, bookID+".quotes") }
func TokensPath(dir, bookID string) string   { return filepath.Join(dir, bookID+".tokens") }

// BookNLPProvider serves annotations read from BookNLP output files.
type BookNLPProvider struct {
	mentions []Mention
	quotes   []AttributedQuote
	units    []model.TextUnit
	skipped  int
}

// NewBookNLPProvider reads <bookID>.entities and <bookID>.quotes from dir,
// plus <bookID>.tokens when present.
func NewBookNLPProvider(dir, bookID string) (*BookNLPProvider, error) {
	mentions, entRes, err := readFile(EntitiesPath(dir, bookID), ReadEntities)
	if err != nil {
		return nil, fmt.Errorf("load entities: %w", err)
	}
	quotes, quoteRes, err := readFile(QuotesPath(dir, bookID), ReadQuotes)
	if err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}

	var tokens []Token
	var tokRes ReadResult
	if _, statErr := os.Stat(TokensPath(dir, bookID)); statErr == nil {
		tokens, tokRes, err = readFile(TokensPath(dir, bookID), ReadTokens)
		if err != nil {
			return nil, fmt.Errorf("load tokens: %w", err)
		}
	} else {
		slog.Info("no token table, using token windows as units", "window", DefaultUnitTokenWindow)
	}

	p := newBookNLPProvider(mentions, quotes, tokens)
	p.skipped = entRes.Skipped + quoteRes.Skipped + tokRes.Skipped

	slog.Info("loaded annotations",
		"book", bookID,
		"mentions", len(p.mentions),
		"quotes", len(p.quotes),
		"tokens", len(tokens),
		"skipped", p.skipped,
	)

	return p, nil
}

func newBookNLPProvider(mentions []Mention, quotes []AttributedQuote, tokens []Token) *BookNLPProvider {
	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].Index < tokens[j].Index
	})

	// unitOf maps a token position to the paragraph of the closest token at
	// or before it, or to a fixed-size window when there is no token table.
	unitOf := func(start int) int {
		if len(tokens) == 0 {
			return start / DefaultUnitTokenWindow
		}
		i := sort.Search(len(tokens), func(i int) bool { return tokens[i].Index > start })
		if i == 0 {
			return tokens[0].Paragraph
		}
		return tokens[i-1].Paragraph
	}

	sort.SliceStable(mentions, func(i, j int) bool {
		return mentions[i].Start < mentions[j].Start
	})
	for i := range mentions {
		mentions[i].Unit = unitOf(mentions[i].Start)
	}
	for i := range quotes {
		quotes[i].Unit = unitOf(quotes[i].Start)
	}

	return &BookNLPProvider{
		mentions: mentions,
		quotes:   quotes,
		units:    sentences(tokens),
	}
}

// sentences joins token words into one unit per sentence id.
func sentences(tokens []Token) []model.TextUnit {
	var units []model.TextUnit
	var buf strings.Builder
	current := -1

	flush := func() {
		if current >= 0 && buf.Len() > 0 {
			units = append(units, model.TextUnit{Locator: strconv.Itoa(current), Text: buf.String()})
		}
		buf.Reset()
	}

	for _, tok := range tokens {
		if tok.Sentence != current {
			flush()
			current = tok.Sentence
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(tok.Word)
	}
	flush()

	return units
}

func (p *BookNLPProvider) Mentions() []Mention       { return p.mentions }
func (p *BookNLPProvider) Quotes() []AttributedQuote { return p.quotes }
func (p *BookNLPProvider) Units() []model.TextUnit   { return p.units }

// Skipped returns the number of malformed lines ignored while loading.
func (p *BookNLPProvider) Skipped() int { return p.skipped }

func readFile[T any](path string, read func(io.Reader) ([]T, ReadResult, error)) ([]T, ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadResult{}, err
	}
	defer f.Close()
	return read(f)
}
