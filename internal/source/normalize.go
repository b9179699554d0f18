package source

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// quoteFolder maps typographic quotation marks onto their ASCII forms so the
// quoted-span scanner only needs to know about straight quotes.
var quoteFolder = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"‘", "'",
	"’", "'",
	"‚", "'",
	"\r\n", "\n",
	"\r", "\n",
)

// Normalize composes text to NFC, folds curly quotes and unifies line endings.
func Normalize(text string) string {
	return quoteFolder.Replace(norm.NFC.String(text))
}

// boilerplate markers wrap the licence text of Project Gutenberg files.
var (
	startMarkers = []string{
		"*** START OF",
		"***START OF",
		"*END*THE SMALL PRINT",
	}
	endMarkers = []string{
		"*** END OF",
		"***END OF",
		"End of Project Gutenberg",
		"End of the Project Gutenberg",
	}
)

// StripBoilerplate removes a Project Gutenberg header and footer when both
// can be located. Lines are returned unchanged otherwise.
func StripBoilerplate(lines []string) []string {
	start := 0
	for i, line := range lines {
		if containsAny(line, startMarkers) {
			start = i + 1
			break
		}
	}

	end := len(lines)
	for i := len(lines) - 1; i >= start; i-- {
		if containsAny(lines[i], endMarkers) {
			end = i
			break
		}
	}

	if start >= end {
		return lines
	}
	return lines[start:end]
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
