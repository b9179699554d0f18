// Package annotation models the entity and quote streams produced by an
// external NLP engine and the providers that supply them.
package annotation

import (
	"errors"

	"github.com/abdulachik/litminer/internal/model"
)

// ErrMalformedRecord marks an annotation line that could not be parsed.
var ErrMalformedRecord = errors.New("malformed annotation record")

// MentionType classifies how an entity is referred to.
type MentionType string

const (
	Proper  MentionType = "PROP"
	Nominal MentionType = "NOM"
	Pronoun MentionType = "PRON"
)

// Named reports whether the mention names the entity (proper or nominal).
func (t MentionType) Named() bool {
	return t == Proper || t == Nominal
}

// Mention is one reference to an entity.
type Mention struct {
	EntityID string
	Start    int
	End      int
	Type     MentionType
	Category string
	Text     string
	// Unit is the paragraph (or window) the mention falls in. Units are
	// non-decreasing in stream order.
	Unit int
}

// AttributedQuote is a quote assigned to a speaking entity.
type AttributedQuote struct {
	SpeakerID string
	Text      string
	Start     int
	End       int
	Unit      int
}

// Provider supplies the annotation streams the aggregators consume.
type Provider interface {
	// Mentions returns entity mentions in document order.
	Mentions() []Mention
	// Quotes returns speaker-attributed quotes in document order.
	Quotes() []AttributedQuote
	// Units returns the sentence-level text units used for theme statistics.
	Units() []model.TextUnit
}
