/*
Package config manages runtime configuration for the ranker.

Values come from three layers, later ones winning:

 1. built-in defaults (Default);
 2. an optional TOML file;
 3. environment variables (usually populated from .env by main).

Example file:

	[server]
	port = "5175"
	timeout = "30s"
	client_origin = "http://localhost:5173"

	[words]
	answers_file = "data/answers.txt"
	allowed_file = "data/allowed.txt"

	[rank]
	top_k = 5
	workers = 0
	scoring = "faithful"

	[db]
	path = "data/runs.db"

	[auth]
	require = false
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/robalobadob/wordle/apps/ranker/internal/classify"
)

// Config holds the entire config structure.
type Config struct {
	Server ServerConfig `toml:"server"`
	Words  WordsConfig  `toml:"words"`
	Rank   RankConfig   `toml:"rank"`
	DB     DBConfig     `toml:"db"`
	Auth   AuthConfig   `toml:"auth"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig has HTTP server options.
type ServerConfig struct {
	Port         string   `toml:"port"`
	Timeout      Duration `toml:"timeout"`
	ClientOrigin string   `toml:"client_origin"`
}

// WordsConfig points at word list files; empty means embedded lists.
type WordsConfig struct {
	AnswersFile string `toml:"answers_file"`
	AllowedFile string `toml:"allowed_file"`
}

// RankConfig holds ranking defaults.
type RankConfig struct {
	TopK    int    `toml:"top_k"`
	Workers int    `toml:"workers"`
	Scoring string `toml:"scoring"`
}

// DBConfig locates the run store; an empty path disables persistence.
type DBConfig struct {
	Path string `toml:"path"`
}

// AuthConfig controls bearer-token checks.
type AuthConfig struct {
	Require   bool   `toml:"require"`
	JWTSecret string `toml:"jwt_secret"`
	TokenDays int    `toml:"token_days"`
}

// LogConfig selects log level and output format.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Duration is a time.Duration that decodes from TOML strings like "30s".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "5175",
			Timeout:      Duration{30 * time.Second},
			ClientOrigin: "http://localhost:5173",
		},
		Rank: RankConfig{
			TopK:    5,
			Scoring: "faithful",
		},
		Auth: AuthConfig{
			JWTSecret: "dev_secret_change_me",
			TokenDays: 14,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds a Config from defaults, the TOML file at path (skipped when
// path is empty or the file does not exist) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto cfg.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Server.Port)
	str("CLIENT_ORIGIN", &c.Server.ClientOrigin)
	str("WORDS_ANSWERS_FILE", &c.Words.AnswersFile)
	str("WORDS_ALLOWED_FILE", &c.Words.AllowedFile)
	str("RANK_SCORING", &c.Rank.Scoring)
	str("DB_PATH", &c.DB.Path)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	for key, dst := range map[string]*int{
		"RANK_TOP_K":       &c.Rank.TopK,
		"RANK_WORKERS":     &c.Rank.Workers,
		"JWT_EXPIRES_DAYS": &c.Auth.TokenDays,
	} {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config: %s: %w", key, err)
			}
			*dst = n
		}
	}
	if v, ok := lookup("REQUIRE_AUTH"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: REQUIRE_AUTH: %w", err)
		}
		c.Auth.Require = b
	}
	if v, ok := lookup("SERVER_TIMEOUT"); ok && v != "" {
		if err := c.Server.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("config: SERVER_TIMEOUT: %w", err)
		}
	}
	return nil
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	if c.Rank.TopK <= 0 {
		return fmt.Errorf("config: rank.top_k must be positive, got %d", c.Rank.TopK)
	}
	if c.Rank.Workers < 0 {
		return fmt.Errorf("config: rank.workers must not be negative, got %d", c.Rank.Workers)
	}
	if _, err := classify.ParseScoring(c.Rank.Scoring); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Auth.Require && strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("config: auth.require needs a jwt secret")
	}
	if c.Server.Timeout.Duration <= 0 {
		return errors.New("config: server.timeout must be positive")
	}
	return nil
}

// Scoring returns the parsed rank.scoring value.
func (c *Config) Scoring() classify.Scoring {
	s, _ := classify.ParseScoring(c.Rank.Scoring)
	return s
}
