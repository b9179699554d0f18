package annotation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/abdulachik/litminer/internal/model"
	"github.com/abdulachik/litminer/internal/profile"
	"github.com/abdulachik/litminer/internal/source"
)

// Limits for dialogue picked up by the text provider.
const (
	minDialogueWords = 5
	maxDialogueChars = 500
)

var (
	dialogue    = regexp.MustCompile(`"([^"]+)"`)
	sentenceEnd = regexp.MustCompile(`[.!?]+`)
)

// TextProvider derives annotations from plain text using the profile's
// character aliases. Paragraphs (blank-line separated) are the units; every
// alias occurrence is a proper mention and each dialogue span goes to the
// first character mentioned in its paragraph.
type TextProvider struct {
	mentions []Mention
	quotes   []AttributedQuote
	units    []model.TextUnit
}

// NewTextProvider scans text with the aliases of p. Mention and quote
// positions are rune offsets into text.
func NewTextProvider(text string, p *profile.Profile) *TextProvider {
	matcher, ids := aliasMatcher(p)
	tp := &TextProvider{}

	// cursor is a byte index into text; offset is the rune index of the
	// current paragraph.
	cursor, offset := 0, 0
	for unit, para := range source.Paragraphs(text) {
		if i := strings.Index(text[cursor:], para); i >= 0 {
			offset += utf8.RuneCountInString(text[cursor : cursor+i])
			cursor += i
		}
		var first string
		if matcher != nil {
			for _, loc := range matcher.FindAllStringIndex(para, -1) {
				surface := para[loc[0]:loc[1]]
				id, ok := ids[strings.ToLower(surface)]
				if !ok {
					continue
				}
				if first == "" {
					first = id
				}
				tp.mentions = append(tp.mentions, Mention{
					EntityID: id,
					Start:    offset + utf8.RuneCountInString(para[:loc[0]]),
					End:      offset + utf8.RuneCountInString(para[:loc[1]]),
					Type:     Proper,
					Category: "PER",
					Text:     surface,
					Unit:     unit,
				})
			}
		}

		if first != "" {
			for _, loc := range dialogue.FindAllStringSubmatchIndex(para, -1) {
				quote := strings.TrimSpace(para[loc[2]:loc[3]])
				if len(strings.Fields(quote)) < minDialogueWords || utf8.RuneCountInString(quote) >= maxDialogueChars {
					continue
				}
				tp.quotes = append(tp.quotes, AttributedQuote{
					SpeakerID: first,
					Text:      quote,
					Start:     offset + utf8.RuneCountInString(para[:loc[0]]),
					End:       offset + utf8.RuneCountInString(para[:loc[1]]),
					Unit:      unit,
				})
			}
		}

		for i, s := range sentenceEnd.Split(para, -1) {
			if s = strings.TrimSpace(s); s != "" {
				tp.units = append(tp.units, model.TextUnit{Locator: fmt.Sprintf("%d.%d", unit, i), Text: s})
			}
		}

		offset += utf8.RuneCountInString(para)
		cursor += len(para)
	}

	return tp
}

// aliasMatcher compiles one case-insensitive alternation over all aliases,
// longest first so that "Winston Smith" wins over "Winston".
func aliasMatcher(p *profile.Profile) (*regexp.Regexp, map[string]string) {
	ids := make(map[string]string)
	var aliases []string
	for _, c := range p.Characters {
		names := append([]string{c.Name}, c.Aliases...)
		for _, name := range names {
			key := strings.ToLower(name)
			if name == "" {
				continue
			}
			if _, ok := ids[key]; ok {
				continue
			}
			ids[key] = c.ID
			aliases = append(aliases, name)
		}
	}
	if len(aliases) == 0 {
		return nil, ids
	}

	sort.SliceStable(aliases, func(i, j int) bool {
		return utf8.RuneCountInString(aliases[i]) > utf8.RuneCountInString(aliases[j])
	})
	quoted := make([]string, len(aliases))
	for i, a := range aliases {
		quoted[i] = regexp.QuoteMeta(a)
	}

	return regexp.MustCompile(`(?i)` + strings.Join(quoted, "|")), ids
}

func (p *TextProvider) Mentions() []Mention       { return p.mentions }
func (p *TextProvider) Quotes() []AttributedQuote { return p.quotes }
func (p *TextProvider) Units() []model.TextUnit   { return p.units }
