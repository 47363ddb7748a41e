// Package cover implements the two-word opener heuristic: pick two guesses
// that together spell exactly the most common letters of the answer corpus.
// It shares only the corpus with the ranker.
package cover

import (
	"sort"

	"golang.org/x/exp/slices"
)

// LetterCount is one letter's frequency over a corpus.
type LetterCount struct {
	Letter byte `json:"-"`
	Count  int  `json:"count"`
}

// Pair is two guesses covering the target letters between them.
type Pair struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// Result reports a cover search.
type Result struct {
	Letters    string `json:"letters"`    // target letters, most common first
	SubsetSize int    `json:"subsetSize"` // guesses built only from target letters
	Guesses    int    `json:"guesses"`    // guesses considered
	Pairs      []Pair `json:"pairs"`
}

// LetterCounts counts every letter occurrence in words, ordered by count
// descending, ties broken alphabetically.
func LetterCounts(words []string) []LetterCount {
	var counts [256]int
	for _, w := range words {
		for i := 0; i < len(w); i++ {
			counts[w[i]]++
		}
	}
	var out []LetterCount
	for c, n := range counts {
		if n > 0 {
			out = append(out, LetterCount{Letter: byte(c), Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Pairs finds unordered guess pairs whose combined letters are exactly the
// 2·len(word) most common letters of answers. Pairs are reported once, the
// earlier guess (in guesses order) first. A guess is never paired with itself.
func Pairs(answers, guesses []string) Result {
	if len(answers) == 0 {
		return Result{Pairs: []Pair{}, Guesses: len(guesses)}
	}
	want := 2 * len(answers[0])
	counts := LetterCounts(answers)
	if len(counts) > want {
		counts = counts[:want]
	}
	target := make([]byte, len(counts))
	allowed := make(map[byte]bool, len(counts))
	for i, lc := range counts {
		target[i] = lc.Letter
		allowed[lc.Letter] = true
	}
	res := Result{Letters: string(target), Guesses: len(guesses), Pairs: []Pair{}}

	// Only guesses made entirely of target letters can take part; this keeps
	// the quadratic pass below small.
	var subset []string
	for _, g := range guesses {
		if onlyFrom(g, allowed) {
			subset = append(subset, g)
		}
	}
	res.SubsetSize = len(subset)

	sortedTarget := sortedBytes(string(target))
	for i := 0; i < len(subset); i++ {
		for j := i + 1; j < len(subset); j++ {
			if slices.Equal(sortedBytes(subset[i]+subset[j]), sortedTarget) {
				res.Pairs = append(res.Pairs, Pair{First: subset[i], Second: subset[j]})
			}
		}
	}
	return res
}

func onlyFrom(w string, allowed map[byte]bool) bool {
	for i := 0; i < len(w); i++ {
		if !allowed[w[i]] {
			return false
		}
	}
	return true
}

func sortedBytes(s string) []byte {
	b := []byte(s)
	slices.Sort(b)
	return b
}
