package extractor

import (
	"strings"

	"github.com/abdulachik/litminer/internal/profile"
)

// Attributor guesses the speaker of a quoted span from the text leading up
// to it. Names are tried in table order and the first one present wins,
// regardless of how close it is to the quote. "Smith" listed before
// "Winston Smith" would shadow it; table order is the only tie-break.
type Attributor struct {
	table []profile.Attribution
}

// NewAttributor creates an Attributor over an ordered name table.
func NewAttributor(table []profile.Attribution) *Attributor {
	return &Attributor{table: append([]profile.Attribution(nil), table...)}
}

// Attribute returns the character id for the first table name contained in
// prefix (case-sensitive), or nil.
func (a *Attributor) Attribute(prefix string) *string {
	for _, entry := range a.table {
		if strings.Contains(prefix, entry.Name) {
			id := entry.CharacterID
			return &id
		}
	}
	return nil
}
