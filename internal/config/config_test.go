package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/ranker/internal/classify"
)

func TestDefaultValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.Rank.TopK)
	assert.Equal(t, classify.Faithful, cfg.Scoring())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranker.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = "9000"
timeout = "5s"

[rank]
top_k = 10
scoring = "strict"

[db]
path = "runs.db"
`), 0o644))

	t.Setenv("PORT", "")
	t.Setenv("RANK_TOP_K", "3")
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout.Duration)
	assert.Equal(t, 3, cfg.Rank.TopK)
	assert.Equal(t, classify.Strict, cfg.Scoring())
	assert.Equal(t, "runs.db", cfg.DB.Path)
	assert.True(t, cfg.Auth.Require)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
}

func TestApplyEnvErrors(t *testing.T) {
	env := func(m map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) { v, ok := m[k]; return v, ok }
	}
	assert.Error(t, Default().applyEnv(env(map[string]string{"RANK_TOP_K": "many"})))
	assert.Error(t, Default().applyEnv(env(map[string]string{"REQUIRE_AUTH": "maybe"})))
	assert.Error(t, Default().applyEnv(env(map[string]string{"SERVER_TIMEOUT": "soon"})))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Rank.Scoring = "wordle"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Rank.TopK = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Auth.Require = true
	cfg.Auth.JWTSecret = " "
	assert.Error(t, cfg.Validate())
}

func TestBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[rank\ntop_k = "), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
