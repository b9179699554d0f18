// Package chapters maps chapter headings to structural positions in a book.
package chapters

import (
	"fmt"
	"strings"
)

// Part is a contiguous, inclusive range of chapter numbers.
type Part struct {
	Number int `json:"number" yaml:"number" toml:"number"`
	First  int `json:"first" yaml:"first" toml:"first"`
	Last   int `json:"last" yaml:"last" toml:"last"`
}

// Contains reports whether the chapter falls inside the part.
func (p Part) Contains(chapter int) bool {
	return chapter >= p.First && chapter <= p.Last
}

// Position locates a chapter inside the book's part structure.
type Position struct {
	Part    int
	Chapter int
}

// Mapper resolves heading tokens such as "CHAPTER 12" or "Chapter12".
type Mapper struct {
	headings map[string]int
	parts    []Part
}

// headingFormats are the spellings produced for every chapter number.
var headingFormats = []string{
	"CHAPTER %d",
	"Chapter %d",
	"chapter %d",
	"CHAPTER%d",
	"Chapter%d",
	"chapter%d",
}

// NewMapper builds the heading table for every chapter covered by parts.
func NewMapper(parts []Part) *Mapper {
	m := &Mapper{
		headings: make(map[string]int),
		parts:    append([]Part(nil), parts...),
	}

	for _, p := range parts {
		for ch := p.First; ch <= p.Last; ch++ {
			for _, format := range headingFormats {
				m.headings[fmt.Sprintf(format, ch)] = ch
			}
		}
	}

	return m
}

// Resolve returns the chapter number for a heading token.
func (m *Mapper) Resolve(token string) (int, bool) {
	ch, ok := m.headings[strings.TrimSpace(token)]
	return ch, ok
}

// PartOf returns the part number containing the chapter, or 0 if none does.
func (m *Mapper) PartOf(chapter int) int {
	for _, p := range m.parts {
		if p.Contains(chapter) {
			return p.Number
		}
	}
	return 0
}

// Locate returns the full position of a chapter.
func (m *Mapper) Locate(chapter int) Position {
	return Position{Part: m.PartOf(chapter), Chapter: chapter}
}

// Tracker carries the chapter in effect across a forward scan of pages.
type Tracker struct {
	mapper  *Mapper
	current int
}

// NewTracker starts a scan with the given chapter in effect.
func NewTracker(mapper *Mapper, initial int) *Tracker {
	return &Tracker{mapper: mapper, current: initial}
}

// Observe checks the lines of one page. The first line that is a known
// heading becomes the current chapter; later headings on the same page are
// ignored. It reports whether the chapter changed.
func (t *Tracker) Observe(lines []string) bool {
	for _, line := range lines {
		if ch, ok := t.mapper.Resolve(line); ok {
			changed := ch != t.current
			t.current = ch
			return changed
		}
	}
	return false
}

// Current returns the chapter in effect.
func (t *Tracker) Current() int {
	return t.current
}
