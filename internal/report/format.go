// Package report renders quotes and run summaries for the terminal.
package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abdulachik/litminer/internal/model"
)

// DefaultWidth is the quote length shown in listings.
const DefaultWidth = 280

// Attribution returns the attribution line of a quote. Narrator quotes are
// attributed to the book alone.
func Attribution(title, speaker string) string {
	if speaker != "" && speaker != model.NarratorLabel {
		return fmt.Sprintf("— %s, %s", speaker, title)
	}
	return fmt.Sprintf("— %s", title)
}

// FormatQuote renders a quote with its attribution.
func FormatQuote(text, title, speaker string) string {
	return fmt.Sprintf("\"%s\"\n\n%s", text, Attribution(title, speaker))
}

// TruncateQuote shortens quote so that the formatted quote fits in maxLen
// runes, cutting at a word boundary when one is close enough.
func TruncateQuote(quote string, maxLen int, attribution string) string {
	// Two quote marks, a blank line and the ellipsis.
	overhead := 2 + 2 + 3 + utf8.RuneCountInString(attribution)
	available := maxLen - overhead

	runes := []rune(quote)
	if len(runes) <= available+3 {
		return quote
	}
	if available <= 0 {
		return "..."
	}

	truncated := string(runes[:available])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimRight(truncated, " .,;:!?") + "..."
}

// Listing renders a quote for search output, truncated to width.
func Listing(q model.Quote, title, speaker string, width int) string {
	attribution := Attribution(title, speaker)
	text := TruncateQuote(q.Text, width, attribution)

	meta := fmt.Sprintf("#%d  ch.%d  p.%d  significance %d", q.ID, q.ChapterID, q.Page, q.Significance)
	if len(q.Themes) > 0 {
		meta += "  [" + strings.Join(q.Themes, ", ") + "]"
	}
	return meta + "\n" + FormatQuote(text, title, speaker)
}
