package match

import (
	"strings"

	indexx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/index"
)

// BestFAQ ranks FAQ entries against a query by keyword overlap: every query
// token longer than two characters scores 2 when it appears in the entry's
// question text and 1 when it appears in the answer text. The strictly highest
// cumulative score wins; ties keep the first-seen entry. A zero top score
// reports no match so the caller can render a generic fallback instead of an
// arbitrary entry.
func BestFAQ(entries []indexx.FAQEntry, query string) (indexx.FAQEntry, int, bool) {
	tokens := strings.Fields(strings.ToLower(query))

	var best indexx.FAQEntry
	bestScore := 0
	for _, entry := range entries {
		question := strings.ToLower(entry.Question)
		answer := strings.ToLower(entry.Answer)

		score := 0
		for _, token := range tokens {
			if len(token) <= 2 {
				continue
			}
			if strings.Contains(question, token) {
				score += 2
			}
			if strings.Contains(answer, token) {
				score += 1
			}
		}
		if score > bestScore {
			bestScore = score
			best = entry
		}
	}
	return best, bestScore, bestScore > 0
}
