package partition

import "github.com/robalobadob/wordle/apps/ranker/internal/classify"

// Example lists words that produce one response to a guess.
type Example struct {
	Response classify.Response `json:"pattern"`
	Words    []string          `json:"words"`
}

// Examples walks every possible response for guess (classify.AllResponses
// order) and collects up to limit words from words producing each one.
// Responses nothing produces are kept with an empty list. limit <= 0 means
// no limit.
func Examples(fn classify.Func, guess string, words []string, limit int) []Example {
	all := classify.AllResponses(len(guess))
	index := make(map[classify.Response]int, len(all))
	out := make([]Example, len(all))
	for i, r := range all {
		index[r] = i
		out[i] = Example{Response: r, Words: []string{}}
	}
	for _, w := range words {
		i, ok := index[fn(guess, w)]
		if !ok {
			continue
		}
		if limit > 0 && len(out[i].Words) >= limit {
			continue
		}
		out[i].Words = append(out[i].Words, w)
	}
	return out
}
