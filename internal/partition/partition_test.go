package partition

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/ranker/internal/classify"
)

var sampleCorpus = []string{
	"crane", "react", "trace", "cater", "caret", "moist", "speed", "abide",
	"radar", "spine", "apple", "pints", "there", "hello", "llama", "eerie",
}

func response(t *testing.T, s string) classify.Response {
	t.Helper()
	r, err := classify.ParseResponse(s)
	require.NoError(t, err)
	return r
}

func TestPartitionConservation(t *testing.T) {
	for _, guess := range sampleCorpus {
		for _, fn := range []classify.Func{classify.Classify, classify.ClassifyStrict} {
			h, err := PartitionWith(fn, guess, sampleCorpus)
			require.NoError(t, err)
			assert.Equal(t, len(sampleCorpus), h.Total(), "guess %q", guess)
			for r, n := range h {
				assert.Positive(t, n)
				assert.True(t, r.Finished())
			}
		}
	}
}

func TestPartitionSingleWord(t *testing.T) {
	h, err := Partition("abcde", []string{"abcde"})
	require.NoError(t, err)
	assert.Equal(t, Histogram{response(t, "CCCCC"): 1}, h)
	assert.Equal(t, 1.0, h.Cost())
}

func TestPartitionToyWords(t *testing.T) {
	h, err := Partition("aabb", []string{"aabb", "bbaa"})
	require.NoError(t, err)
	assert.Equal(t, Histogram{
		response(t, "CCCC"): 1,
		response(t, "PPPP"): 1,
	}, h)
	assert.Equal(t, int64(2), h.SumSquares())
	assert.Equal(t, 0.5, h.Cost())
}

func TestPartitionDetectsBrokenClassifier(t *testing.T) {
	broken := func(guess, candidate string) classify.Response {
		if candidate == "moist" {
			return classify.NewResponse(classify.Correct, classify.Unknown)
		}
		return classify.Classify(guess, candidate)
	}
	_, err := PartitionWith(broken, "crane", sampleCorpus)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConservation))
}

func TestPartitionEmptyCorpus(t *testing.T) {
	h, err := Partition("crane", nil)
	require.NoError(t, err)
	assert.Empty(t, h)
	assert.Panics(t, func() { h.Cost() })
}

func TestCostBounds(t *testing.T) {
	for _, guess := range sampleCorpus {
		h, err := Partition(guess, sampleCorpus)
		require.NoError(t, err)
		c := h.Cost()
		assert.Greater(t, c, 0.0)
		assert.LessOrEqual(t, c, 1.0)
		if len(h) == 1 {
			assert.Equal(t, 1.0, c)
		} else {
			assert.Less(t, c, 1.0)
		}
	}

	// a guess sharing no letter with any word puts everything in one bucket
	h, err := Partition("zzzzz", sampleCorpus[:6])
	require.NoError(t, err)
	assert.Len(t, h, 1)
	assert.Equal(t, 1.0, h.Cost())
}

func TestCostEvenSplit(t *testing.T) {
	for _, p := range []int{1, 2, 3, 4, 6} {
		h := Histogram{}
		all := classify.AllResponses(2)
		for i := 0; i < p; i++ {
			h[all[i]] = 12 / p
		}
		assert.InDelta(t, 1/float64(p), h.Cost(), 1e-12, "p=%d", p)
	}

	// a real corpus engineered to split evenly: guess "ab" against
	// ab / ba / ax / xb / xx lands one word in each of five buckets
	h, err := Partition("ab", []string{"ab", "ba", "ax", "xb", "xx"})
	require.NoError(t, err)
	require.Len(t, h, 5)
	assert.InDelta(t, 0.2, h.Cost(), 1e-12)
}

func TestCostPrefersEvenSplits(t *testing.T) {
	even := Histogram{response(t, "CC"): 5, response(t, "AA"): 5}
	skew := Histogram{response(t, "CC"): 9, response(t, "AA"): 1}
	assert.Less(t, even.Cost(), skew.Cost())
	assert.False(t, math.IsNaN(skew.Cost()))
}

func TestBucketsOrdering(t *testing.T) {
	h := Histogram{
		response(t, "AP"): 2,
		response(t, "CC"): 5,
		response(t, "AA"): 2,
	}
	b := h.Buckets()
	require.Len(t, b, 3)
	got := make([]string, len(b))
	for i, x := range b {
		got[i] = fmt.Sprintf("%s:%d", x.Response, x.Count)
	}
	assert.Equal(t, []string{"CC:5", "AA:2", "AP:2"}, got)

	raw, err := json.Marshal(b[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"pattern":"CC","count":5}`, string(raw))
}

func TestExamples(t *testing.T) {
	ex := Examples(classify.Classify, "ab", []string{"ab", "ba", "ax", "xb", "xx", "yy"}, 1)
	require.Len(t, ex, 9)
	byPattern := map[string][]string{}
	for _, e := range ex {
		byPattern[e.Response.String()] = e.Words
	}
	assert.Equal(t, []string{"ab"}, byPattern["CC"])
	assert.Equal(t, []string{"ba"}, byPattern["PP"])
	assert.Equal(t, []string{"ax"}, byPattern["CA"])
	assert.Equal(t, []string{"xb"}, byPattern["AC"])
	// xx and yy both give AA; limit keeps the first
	assert.Equal(t, []string{"xx"}, byPattern["AA"])
	assert.Empty(t, byPattern["PC"])

	unlimited := Examples(classify.Classify, "ab", []string{"xx", "yy"}, 0)
	assert.Equal(t, []string{"xx", "yy"}, unlimited[0].Words)
}
