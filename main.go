// main.go
//
// Entry point for the Wordle guess ranker.
// Responsibilities:
//   - Load `.env`, the optional TOML config and environment overrides.
//   - Configure zerolog (level + json/console output).
//   - Load the word corpus (files or embedded lists).
//   - Dispatch to a subcommand; `serve` is the default (see cli.go).

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/ranker/internal/config"
	"github.com/robalobadob/wordle/apps/ranker/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(getEnv("RANKER_CONFIG", "ranker.toml"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg.Log)

	corpus, err := words.Load(words.Source{
		AnswersFile: cfg.Words.AnswersFile,
		AllowedFile: cfg.Words.AllowedFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	answers, allowed := corpus.Stats()
	log.Debug().Int("answers", answers).Int("allowed", allowed).Str("origin", corpus.Origin).Msg("words loaded")

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	if err := run(cmd, args, cfg, corpus); err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("command failed")
	}
}

// setupLogging applies the log level and output format globally.
func setupLogging(lc config.LogConfig) {
	if lvl, err := zerolog.ParseLevel(lc.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if lc.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
