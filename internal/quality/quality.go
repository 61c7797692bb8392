// Package quality scores generated tasks with a cheap acceptability heuristic.
package quality

import "strings"

const (
	scoreShort      = 0.2
	scoreRepetitive = 0.3
	scoreDefault    = 0.8

	minDescriptionChars = 20
	minTokensForRepeat  = 10
	repeatFraction      = 0.3
)

// Score rates a task description in [0,1]. Rules apply in order, first
// match wins: very short descriptions score 0.2; long descriptions whose
// repeated-token fraction exceeds 30% score 0.3; everything else scores 0.8.
func Score(description string) float64 {
	trimmed := strings.TrimSpace(description)
	if len(trimmed) < minDescriptionChars {
		return scoreShort
	}

	tokens := strings.Fields(trimmed)
	if len(tokens) > minTokensForRepeat {
		unique := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			unique[tok] = struct{}{}
		}
		repeated := float64(len(tokens)-len(unique)) / float64(len(tokens))
		if repeated > repeatFraction {
			return scoreRepetitive
		}
	}

	return scoreDefault
}
