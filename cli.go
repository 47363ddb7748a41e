package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/robalobadob/wordle/apps/ranker/internal/classify"
	"github.com/robalobadob/wordle/apps/ranker/internal/config"
	"github.com/robalobadob/wordle/apps/ranker/internal/cover"
	"github.com/robalobadob/wordle/apps/ranker/internal/httpserver"
	"github.com/robalobadob/wordle/apps/ranker/internal/partition"
	"github.com/robalobadob/wordle/apps/ranker/internal/rank"
	"github.com/robalobadob/wordle/apps/ranker/internal/runs"
	"github.com/robalobadob/wordle/apps/ranker/internal/store"
	"github.com/robalobadob/wordle/apps/ranker/internal/words"
)

const usage = `usage: ranker <command> [flags]

commands:
  serve                        run the HTTP API (default)
  rank [-k N] [-workers N] [-scoring s] [-prefix p] [-quiet]
  classify GUESS CANDIDATE
  partition GUESS [-scoring s]
  examples GUESS [-limit N] [-scoring s]
  cover
  token -sub NAME [-days N]`

var errUsage = errors.New("bad usage")

// run dispatches one subcommand, writing results to stdout.
func run(cmd string, args []string, cfg *config.Config, corpus *words.Corpus) error {
	out := os.Stdout
	switch cmd {
	case "serve":
		return serve(cfg, corpus)
	case "rank":
		return rankCmd(out, args, cfg, corpus)
	case "classify":
		return classifyCmd(out, args, cfg)
	case "partition":
		return partitionCmd(out, args, cfg, corpus)
	case "examples":
		return examplesCmd(out, args, cfg, corpus)
	case "cover":
		return coverCmd(out, corpus)
	case "token":
		return tokenCmd(out, args, cfg)
	case "help", "-h", "--help":
		fmt.Fprintln(out, usage)
		return nil
	}
	fmt.Fprintln(os.Stderr, usage)
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func serve(cfg *config.Config, corpus *words.Corpus) error {
	var rs *runs.Store
	if cfg.DB.Path != "" {
		var err error
		if rs, err = runs.Open(cfg.DB.Path); err != nil {
			return err
		}
		defer rs.Close()
	}

	srv := httpserver.New(cfg, corpus, store.NewMemoryStore(256), rs)
	log.Info().
		Str("port", cfg.Server.Port).
		Bool("runs", rs != nil).
		Bool("requireAuth", cfg.Auth.Require).
		Msg("starting ranker")
	return srv.Start(":" + cfg.Server.Port)
}

func rankCmd(out io.Writer, args []string, cfg *config.Config, corpus *words.Corpus) error {
	fs := flag.NewFlagSet("rank", flag.ContinueOnError)
	k := fs.Int("k", cfg.Rank.TopK, "number of best and worst guesses to report")
	workers := fs.Int("workers", cfg.Rank.Workers, "concurrent evaluations (0 = GOMAXPROCS)")
	scoringFlag := fs.String("scoring", cfg.Rank.Scoring, "faithful or strict")
	prefix := fs.String("prefix", "", "only rank allowed guesses with this prefix")
	quiet := fs.Bool("quiet", false, "hide the progress bar")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sc, err := classify.ParseScoring(*scoringFlag)
	if err != nil {
		return err
	}

	guesses := corpus.Allowed
	if *prefix != "" {
		if guesses = corpus.WithPrefix(strings.ToLower(*prefix)); len(guesses) == 0 {
			return fmt.Errorf("no allowed guesses start with %q", *prefix)
		}
	}

	opts := rank.Options{Workers: *workers, Scoring: sc}
	var bar *progressbar.ProgressBar
	if !*quiet {
		bar = progressbar.Default(int64(len(guesses)), "ranking")
		opts.Progress = func() { _ = bar.Add(1) }
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ranking, err := rank.New(opts).Rank(ctx, guesses, corpus.Answers, *k)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "evaluated %d guesses against %d answers (%s)\n", ranking.Evaluated, len(corpus.Answers), sc)
	fmt.Fprintln(out, "best:")
	for _, r := range ranking.Best {
		fmt.Fprintf(out, "  %s\n", r)
	}
	fmt.Fprintln(out, "worst:")
	for _, r := range ranking.Worst {
		fmt.Fprintf(out, "  %s\n", r)
	}
	return nil
}

func classifyCmd(out io.Writer, args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	scoringFlag := fs.String("scoring", cfg.Rank.Scoring, "faithful or strict")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: classify GUESS CANDIDATE", errUsage)
	}
	sc, err := classify.ParseScoring(*scoringFlag)
	if err != nil {
		return err
	}
	guess, cand := strings.ToLower(fs.Arg(0)), strings.ToLower(fs.Arg(1))
	if len(guess) != len(cand) || len(guess) > classify.MaxWordLen {
		return fmt.Errorf("%w: words must share a length of at most %d", errUsage, classify.MaxWordLen)
	}
	fmt.Fprintln(out, sc.Func()(guess, cand))
	return nil
}

func partitionCmd(out io.Writer, args []string, cfg *config.Config, corpus *words.Corpus) error {
	guess, rest := splitWord(args)
	fs := flag.NewFlagSet("partition", flag.ContinueOnError)
	scoringFlag := fs.String("scoring", cfg.Rank.Scoring, "faithful or strict")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	sc, err := classify.ParseScoring(*scoringFlag)
	if err != nil {
		return err
	}
	if !words.Valid(guess) {
		return fmt.Errorf("%w: partition GUESS", errUsage)
	}
	h, err := partition.PartitionWith(sc.Func(), guess, corpus.Answers)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d answers, %d responses, cost %.6f\n", guess, h.Total(), len(h), h.Cost())
	for _, b := range h.Buckets() {
		fmt.Fprintf(out, "  %s %d\n", b.Response, b.Count)
	}
	return nil
}

func examplesCmd(out io.Writer, args []string, cfg *config.Config, corpus *words.Corpus) error {
	guess, rest := splitWord(args)
	fs := flag.NewFlagSet("examples", flag.ContinueOnError)
	limit := fs.Int("limit", 5, "words listed per response (0 = all)")
	scoringFlag := fs.String("scoring", cfg.Rank.Scoring, "faithful or strict")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	sc, err := classify.ParseScoring(*scoringFlag)
	if err != nil {
		return err
	}
	if !words.Valid(guess) {
		return fmt.Errorf("%w: examples GUESS", errUsage)
	}
	for _, e := range partition.Examples(sc.Func(), guess, corpus.Answers, *limit) {
		if len(e.Words) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s %s\n", e.Response, strings.Join(e.Words, " "))
	}
	return nil
}

func coverCmd(out io.Writer, corpus *words.Corpus) error {
	res := cover.Pairs(corpus.Answers, corpus.Allowed)
	fmt.Fprintf(out, "letters %s\n", res.Letters)
	fmt.Fprintf(out, "%d of %d guesses use only those letters\n", res.SubsetSize, res.Guesses)
	for _, p := range res.Pairs {
		fmt.Fprintf(out, "  %s %s\n", p.First, p.Second)
	}
	return nil
}

func tokenCmd(out io.Writer, args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	sub := fs.String("sub", "", "token subject")
	days := fs.Int("days", cfg.Auth.TokenDays, "days until expiry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tok, exp, err := httpserver.SignToken(cfg.Auth.JWTSecret, *sub, *days)
	if err != nil {
		return err
	}
	log.Debug().Str("sub", *sub).Time("expires", exp).Msg("token minted")
	fmt.Fprintln(out, tok)
	return nil
}

// splitWord peels a leading positional word off args so flags may follow it.
func splitWord(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	return strings.ToLower(args[0]), args[1:]
}
