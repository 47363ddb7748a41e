package rank

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/ranker/internal/classify"
)

var answers = []string{
	"crane", "react", "trace", "cater", "caret", "moist", "speed", "abide",
	"radar", "spine", "apple", "pints", "there", "hello", "llama", "eerie",
	"stare", "tears", "rates", "aster", "ghost", "blimp", "fjord", "vouch",
}

var guesses = append([]string{"zzzzz", "qqqqq", "salet", "xylyl"}, answers...)

func TestRankDeterministic(t *testing.T) {
	first, err := New(Options{Workers: 1}).Rank(context.Background(), guesses, answers, 5)
	require.NoError(t, err)
	for _, workers := range []int{1, 2, 8, 0} {
		got, err := New(Options{Workers: workers}).Rank(context.Background(), guesses, answers, 5)
		require.NoError(t, err)
		assert.Equal(t, first, got, "workers=%d", workers)
	}
	assert.Equal(t, len(guesses), first.Evaluated)
	require.Len(t, first.Best, 5)
	require.Len(t, first.Worst, 5)
}

func TestRankOrdering(t *testing.T) {
	got, err := New(Options{}).Rank(context.Background(), guesses, answers, 3)
	require.NoError(t, err)

	for i := 1; i < len(got.Best); i++ {
		assert.LessOrEqual(t, got.Best[i-1].Cost, got.Best[i].Cost)
	}
	for i := 1; i < len(got.Worst); i++ {
		assert.GreaterOrEqual(t, got.Worst[i-1].Cost, got.Worst[i].Cost)
	}
	// zzzzz and qqqqq share no letter with any answer: both cost exactly 1,
	// and they keep input order
	assert.Equal(t, []Result{{Cost: 1, Guess: "zzzzz"}, {Cost: 1, Guess: "qqqqq"}}, got.Worst[:2])
	assert.Less(t, got.Best[0].Cost, 1.0)
}

func TestRankMatchesEvaluate(t *testing.T) {
	results, err := New(Options{Workers: 4}).EvaluateAll(context.Background(), guesses, answers)
	require.NoError(t, err)
	require.Len(t, results, len(guesses))
	for i, g := range guesses {
		want, err := Evaluate(classify.Classify, g, answers)
		require.NoError(t, err)
		assert.Equal(t, want, results[i])
	}
}

func TestRankScenarioToyWords(t *testing.T) {
	got, err := New(Options{}).Rank(context.Background(), []string{"aabb"}, []string{"aabb", "bbaa"}, 1)
	require.NoError(t, err)
	assert.Equal(t, []Result{{Cost: 0.5, Guess: "aabb"}}, got.Best)
	assert.Equal(t, got.Best, got.Worst)
}

func TestRankScoringVariants(t *testing.T) {
	corpus := []string{"abide", "speed", "there", "eerie"}
	faithful, err := Evaluate(classify.Classify, "speed", corpus)
	require.NoError(t, err)

	rk := New(Options{Scoring: classify.Strict})
	assert.Equal(t, classify.Strict, rk.Scoring())
	results, err := rk.EvaluateAll(context.Background(), []string{"speed"}, corpus)
	require.NoError(t, err)
	strict, err := Evaluate(classify.ClassifyStrict, "speed", corpus)
	require.NoError(t, err)
	assert.Equal(t, strict, results[0])
	assert.Equal(t, "speed", faithful.Guess)
}

func TestRankProgress(t *testing.T) {
	var calls atomic.Int64
	_, err := New(Options{Workers: 3, Progress: func() { calls.Add(1) }}).
		Rank(context.Background(), guesses, answers, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(len(guesses)), calls.Load())
}

func TestRankCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{}).Rank(ctx, guesses, answers, 2)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRankValidation(t *testing.T) {
	_, err := New(Options{}).Rank(context.Background(), guesses, nil, 2)
	assert.True(t, errors.Is(err, ErrEmptyCorpus))

	_, err = New(Options{}).Rank(context.Background(), []string{"crane", "cranes"}, answers, 2)
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = New(Options{}).Rank(context.Background(), guesses, []string{"crane", "abc"}, 2)
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = Evaluate(classify.Classify, "crane", nil)
	assert.True(t, errors.Is(err, ErrEmptyCorpus))
}

func TestSelect(t *testing.T) {
	in := []Result{
		{0.5, "b"}, {0.25, "a"}, {0.5, "c"}, {1, "d"}, {0.25, "e"}, {1, "f"},
	}
	got := Select(in, 3)
	assert.Equal(t, []Result{{0.25, "a"}, {0.25, "e"}, {0.5, "b"}}, got.Best)
	assert.Equal(t, []Result{{1, "d"}, {1, "f"}, {0.5, "b"}}, got.Worst)
	assert.Equal(t, 6, got.Evaluated)

	// input is untouched
	assert.Equal(t, "b", in[0].Guess)

	all := Select(in, 100)
	assert.Len(t, all.Best, 6)
	assert.Len(t, all.Worst, 6)

	none := Select(in, 0)
	assert.Empty(t, none.Best)
	assert.Empty(t, none.Worst)
	assert.NotNil(t, none.Best)
}
