package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/ranker/internal/config"
	"github.com/robalobadob/wordle/apps/ranker/internal/words"
)

func testCorpus(t *testing.T) *words.Corpus {
	t.Helper()
	c, err := words.New([]string{"crane", "react", "trace"}, []string{"zzzzz"}, "test")
	require.NoError(t, err)
	return c
}

func TestClassifyCmd(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, classifyCmd(&out, []string{"crane", "react"}, config.Default()))
	assert.Equal(t, "PPCAP\n", out.String())

	out.Reset()
	require.NoError(t, classifyCmd(&out, []string{"-scoring", "strict", "speed", "abide"}, config.Default()))
	assert.Equal(t, "AAPAP\n", out.String())

	err := classifyCmd(&out, []string{"crane"}, config.Default())
	assert.True(t, errors.Is(err, errUsage))
}

func TestRankCmd(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, rankCmd(&out, []string{"-k", "1", "-quiet"}, config.Default(), testCorpus(t)))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "evaluated 4 guesses against 3 answers (faithful)", lines[0])
	assert.Equal(t, "  (1.000000, zzzzz)", lines[4])
}

func TestPartitionCmd(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, partitionCmd(&out, []string{"zzzzz"}, config.Default(), testCorpus(t)))
	assert.Equal(t, "zzzzz: 3 answers, 1 responses, cost 1.000000\n  AAAAA 3\n", out.String())

	assert.Error(t, partitionCmd(&out, nil, config.Default(), testCorpus(t)))
}

func TestExamplesCmd(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, examplesCmd(&out, []string{"crane", "-limit", "0"}, config.Default(), testCorpus(t)))
	assert.Contains(t, out.String(), "CCCCC crane\n")
}

func TestTokenCmd(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, tokenCmd(&out, []string{"-sub", "ci"}, config.Default()))
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out.String()), "."))

	assert.Error(t, tokenCmd(&out, nil, config.Default()))
}

func TestUnknownCommand(t *testing.T) {
	err := run("frobnicate", nil, config.Default(), testCorpus(t))
	assert.True(t, errors.Is(err, errUsage))
}
