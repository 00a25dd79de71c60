package util

import "github.com/sahilm/fuzzy"

// FuzzyFilter returns candidate indices matching input, best match first.
// An empty input keeps every candidate in its original order.
func FuzzyFilter(input string, candidates []string) []int {
	if input == "" {
		out := make([]int, len(candidates))
		for i := range candidates {
			out[i] = i
		}
		return out
	}
	matches := fuzzy.Find(input, candidates)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}

// ScoreCompletions returns the top n matching candidates; n <= 0 means all.
func ScoreCompletions(input string, candidates []string, n int) []string {
	idx := FuzzyFilter(input, candidates)
	if n > 0 && len(idx) > n {
		idx = idx[:n]
	}
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = candidates[j]
	}
	return out
}
