package extractor

import "github.com/abdulachik/litminer/internal/profile"

// Significance bounds.
const (
	MinSignificance = 1
	MaxSignificance = 5
)

// ScoreQuoted scores a quoted span by its length in characters.
func ScoreQuoted(length int) int {
	return clamp(length/100 + 2)
}

// ScoreKeyword scores a keyword sentence by the number of distinct
// significant terms it contains.
func ScoreKeyword(matches int) int {
	return clamp(matches/2 + 2)
}

// ApplyChapterBonus adds one point when chapter falls inside the
// high-significance range. The result never exceeds MaxSignificance.
func ApplyChapterBonus(score, chapter int, high profile.Range) int {
	if high.Contains(chapter) {
		score++
	}
	return clamp(score)
}

func clamp(score int) int {
	return min(MaxSignificance, max(MinSignificance, score))
}
