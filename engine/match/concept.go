package match

import "strings"

// stopWords are never treated as key concepts.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "be": true,
	"to": true, "and": true, "or": true, "in": true, "on": true, "at": true,
	"by": true, "for": true, "of": true, "with": true, "you": true,
	"can": true, "so": true, "if": true, "that": true, "it": true, "as": true,
}

const maxKeyConcepts = 5

// Tier classifies a scored explanation.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierNeedsWork Tier = "needs_work"
)

// maxMissingMentions is how many missing concepts each tier names back to the
// learner.
func (t Tier) maxMissingMentions() int {
	switch t {
	case TierExcellent:
		return 1
	case TierGood:
		return 2
	default:
		return 3
	}
}

// Score is the outcome of grading one explanation against one summary.
type Score struct {
	Percent   float64
	Tier      Tier
	Mentioned []string
	Missing   []string
}

// MissingToMention returns the missing concepts the feedback should name,
// capped per tier.
func (s Score) MissingToMention() []string {
	n := s.Tier.maxMissingMentions()
	if len(s.Missing) < n {
		n = len(s.Missing)
	}
	return s.Missing[:n]
}

// KeyConcepts extracts up to five key concepts from a reference summary:
// lower-case, whitespace-tokenize, trim surrounding punctuation, drop tokens
// of length <= 3 and stop words, then deduplicate preserving first occurrence.
func KeyConcepts(summary string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, token := range strings.Fields(strings.ToLower(summary)) {
		token = strings.Trim(token, ".,!?")
		if len(token) <= 3 || stopWords[token] || seen[token] {
			continue
		}
		seen[token] = true
		keys = append(keys, token)
		if len(keys) == maxKeyConcepts {
			break
		}
	}
	return keys
}

// ScoreExplanation grades an explanation by how many of the summary's key
// concepts appear as substrings of the lower-cased explanation. Identical
// input always yields the identical score and tier.
func ScoreExplanation(summary, explanation string) Score {
	keys := KeyConcepts(summary)
	lowered := strings.ToLower(explanation)

	var mentioned, missing []string
	for _, key := range keys {
		if strings.Contains(lowered, key) {
			mentioned = append(mentioned, key)
		} else {
			missing = append(missing, key)
		}
	}

	var percent float64
	if len(keys) > 0 {
		percent = float64(len(mentioned)) / float64(len(keys)) * 100
	}

	tier := TierNeedsWork
	switch {
	case percent >= 80:
		tier = TierExcellent
	case percent >= 50:
		tier = TierGood
	}

	return Score{
		Percent:   percent,
		Tier:      tier,
		Mentioned: mentioned,
		Missing:   missing,
	}
}
