// internal/partition/partition.go
//
// Corpus partitioning for a single guess.
// Responsibilities:
//   - Classify every corpus word against a fixed guess.
//   - Count words per distinct response (the partition histogram).
//   - Verify the histogram accounts for every word exactly once.
//
// A Histogram is built fresh per call and owned by the caller.

package partition

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/robalobadob/wordle/apps/ranker/internal/classify"
)

// ErrConservation reports a histogram whose counts do not sum to the corpus
// size. It can only come from a classifier bug.
var ErrConservation = errors.New("partition: histogram does not cover corpus")

// Histogram maps each observed response to the number of corpus words producing it.
type Histogram map[classify.Response]int

// Bucket is one histogram entry, for reporting.
type Bucket struct {
	Response classify.Response `json:"pattern"`
	Count    int               `json:"count"`
}

// Partition splits corpus by the response each word gives to guess, using
// the default classifier.
func Partition(guess string, corpus []string) (Histogram, error) {
	return PartitionWith(classify.Classify, guess, corpus)
}

// PartitionWith is Partition with an explicit classifier.
func PartitionWith(fn classify.Func, guess string, corpus []string) (Histogram, error) {
	h := make(Histogram)
	for _, word := range corpus {
		r := fn(guess, word)
		// unfinished or wrong-length responses are never counted; the
		// total check below turns them into ErrConservation
		if r.Len() != len(guess) || !r.Finished() {
			continue
		}
		h[r]++
	}
	if total := h.Total(); total != len(corpus) {
		return nil, fmt.Errorf("%w: guess %q: %d counted, %d words", ErrConservation, guess, total, len(corpus))
	}
	return h, nil
}

// Total returns the number of words classified.
func (h Histogram) Total() int {
	return sum(h)
}

// Buckets returns the entries ordered by count descending, then by response.
func (h Histogram) Buckets() []Bucket {
	out := make([]Bucket, 0, len(h))
	for r, n := range h {
		out = append(out, Bucket{Response: r, Count: n})
	}
	slices.SortFunc(out, func(a, b Bucket) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		as, bs := a.Response.String(), b.Response.String()
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		}
		return 0
	})
	return out
}
