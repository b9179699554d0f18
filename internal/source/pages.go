// Package source turns a converted book into normalised, page-segmented text.
package source

import (
	"fmt"
	"regexp"
	"strings"
)

// pageMarker is the page boundary written by the upstream converter.
var pageMarker = regexp.MustCompile(`--- PAGE \d+ ---`)

// Page is one page of book text.
type Page struct {
	Number int
	Text   string
}

// Lines returns the trimmed page text split into lines.
func (p Page) Lines() []string {
	return strings.Split(strings.TrimSpace(p.Text), "\n")
}

// PageMarker renders the boundary line for page n.
func PageMarker(n int) string {
	return fmt.Sprintf("--- PAGE %d ---", n)
}

// SplitPages segments text on page markers. Text before the first marker is
// dropped and pages are numbered by their ordinal. Text without markers is a
// single page.
func SplitPages(text string) []Page {
	locs := pageMarker.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []Page{{Number: 1, Text: text}}
	}

	pages := make([]Page, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		pages = append(pages, Page{
			Number: i + 1,
			Text:   text[loc[1]:end],
		})
	}

	return pages
}

// Paragraphs splits text on blank lines, dropping empty paragraphs.
func Paragraphs(text string) []string {
	parts := paragraphBreak.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)
