package util

import "github.com/sahilm/fuzzy"

// ScoreCompletions returns the top N matches for the input string from the candidates list.
func ScoreCompletions(input string, candidates []string, n int) []string {
	if input == "" {
		return candidates
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return nil
	}

	limit := n
	if n <= 0 || len(matches) < limit {
		limit = len(matches)
	}

	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = matches[i].Str
	}
	return out
}

// BestMatch returns the index of the candidate that best matches input.
// Ties keep the earlier candidate.
func BestMatch(input string, candidates []string) (int, bool) {
	if input == "" {
		return -1, false
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return -1, false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Score == best.Score && m.Index < best.Index {
			best = m
		}
	}
	return best.Index, true
}
