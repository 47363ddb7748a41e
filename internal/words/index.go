package words

import (
	"sort"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Index is a prefix index over a word list. Each word maps to its position
// in the list, so prefix queries come back in list order.
type Index struct {
	trie *patricia.Trie
	n    int
}

// NewIndex indexes words; later duplicates keep the first position.
func NewIndex(words []string) *Index {
	t := patricia.NewTrie()
	n := 0
	for i, w := range words {
		if t.Insert(patricia.Prefix(w), i) {
			n++
		}
	}
	return &Index{trie: t, n: n}
}

// Len is the number of distinct words indexed.
func (ix *Index) Len() int { return ix.n }

// Contains reports whether w was indexed.
func (ix *Index) Contains(w string) bool {
	return ix.trie.Get(patricia.Prefix(w)) != nil
}

// WithPrefix returns every indexed word starting with prefix, in the order
// they were indexed. An empty prefix returns everything.
func (ix *Index) WithPrefix(prefix string) []string {
	type hit struct {
		word string
		pos  int
	}
	var hits []hit
	visit := func(p patricia.Prefix, item patricia.Item) error {
		hits = append(hits, hit{word: string(p), pos: item.(int)})
		return nil
	}
	if prefix == "" {
		_ = ix.trie.Visit(visit)
	} else {
		_ = ix.trie.VisitSubtree(patricia.Prefix(prefix), visit)
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.word
	}
	return out
}
