package runs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/ranker/internal/rank"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "data", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func sampleRanking() rank.Ranking {
	return rank.Ranking{
		Best:      []rank.Result{{Cost: 0.125, Guess: "salet"}, {Cost: 0.25, Guess: "crane"}},
		Worst:     []rank.Result{{Cost: 1, Guess: "zzzzz"}},
		Evaluated: 3,
	}
}

func TestInsertGet(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	in, err := st.Insert(ctx, Run{K: 2, Scoring: "faithful", CorpusSize: 90, GuessCount: 3, RequestedBy: "ci", Ranking: sampleRanking()})
	require.NoError(t, err)
	assert.NotEmpty(t, in.ID)
	assert.False(t, in.CreatedAt.IsZero())

	out, err := st.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, sampleRanking(), out.Ranking)
	assert.Equal(t, "ci", out.RequestedBy)
	assert.Equal(t, 90, out.CorpusSize)

	_, err = st.Get(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRecentAndDelete(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2", "r3"} {
		_, err := st.Insert(ctx, Run{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour), K: 1, Scoring: "faithful", Ranking: sampleRanking()})
		require.NoError(t, err)
	}

	list, err := st.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r3", list[0].ID)
	assert.Equal(t, "r2", list[1].ID)

	require.NoError(t, st.Delete(ctx, "r3"))
	assert.True(t, errors.Is(st.Delete(ctx, "r3"), ErrNotFound))

	list, err = st.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	st, err := Open(path)
	require.NoError(t, err)
	_, err = st.Insert(context.Background(), Run{K: 1, Scoring: "strict", Ranking: sampleRanking()})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()
	list, err := st.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
