// internal/rank/rank.go
//
// Ranks allowed guesses by partition cost against the answer corpus.
// Responsibilities:
//   - Evaluate one guess (partition + cost).
//   - Evaluate every guess, optionally in parallel, reporting progress per guess.
//   - Select the k best (lowest cost) and k worst (highest cost) guesses.
//
// Notes:
//   - Evaluations share only read-only inputs; each worker writes its own
//     slot of the result slice, so no locking is needed.
//   - Output depends only on the inputs and their order, never on the
//     number of workers.

package rank

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/ranker/internal/classify"
	"github.com/robalobadob/wordle/apps/ranker/internal/partition"
)

var (
	// ErrEmptyCorpus is returned when there are no answers to partition.
	ErrEmptyCorpus = errors.New("rank: empty corpus")
	// ErrLengthMismatch is returned when a guess or answer differs in length
	// from the first answer.
	ErrLengthMismatch = errors.New("rank: word length mismatch")
)

// Result is the cost of one guess.
type Result struct {
	Cost  float64 `json:"cost" msgpack:"c"`
	Guess string  `json:"guess" msgpack:"g"`
}

func (r Result) String() string {
	return fmt.Sprintf("(%.6f, %s)", r.Cost, r.Guess)
}

// Ranking holds the extremes of one ranking run.
type Ranking struct {
	Best      []Result `json:"best" msgpack:"b"`
	Worst     []Result `json:"worst" msgpack:"w"`
	Evaluated int      `json:"evaluated" msgpack:"n"`
}

// Options configures a Ranker.
type Options struct {
	// Workers bounds concurrent evaluations; <= 0 means GOMAXPROCS.
	Workers int
	// Scoring picks the classifier.
	Scoring classify.Scoring
	// Progress, if set, is called once per evaluated guess. It may be called
	// from several goroutines at once.
	Progress func()
}

// Ranker evaluates guess lists.
type Ranker struct {
	workers  int
	classify classify.Func
	scoring  classify.Scoring
	progress func()
}

// New constructs a Ranker.
func New(opts Options) *Ranker {
	w := opts.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return &Ranker{
		workers:  w,
		classify: opts.Scoring.Func(),
		scoring:  opts.Scoring,
		progress: opts.Progress,
	}
}

// Scoring reports the classifier variant in use.
func (rk *Ranker) Scoring() classify.Scoring { return rk.scoring }

// Workers reports the concurrency bound.
func (rk *Ranker) Workers() int { return rk.workers }

// Evaluate partitions corpus by guess and returns the guess's cost.
func Evaluate(fn classify.Func, guess string, corpus []string) (Result, error) {
	h, err := partition.PartitionWith(fn, guess, corpus)
	if err != nil {
		return Result{}, err
	}
	if len(h) == 0 {
		return Result{}, ErrEmptyCorpus
	}
	return Result{Cost: h.Cost(), Guess: guess}, nil
}

// Rank evaluates every guess against corpus and selects the k best and k
// worst. Any evaluation error aborts the run.
func (rk *Ranker) Rank(ctx context.Context, guesses, corpus []string, k int) (Ranking, error) {
	results, err := rk.EvaluateAll(ctx, guesses, corpus)
	if err != nil {
		return Ranking{}, err
	}
	return Select(results, k), nil
}

// EvaluateAll returns one Result per guess, in guess order.
func (rk *Ranker) EvaluateAll(ctx context.Context, guesses, corpus []string) ([]Result, error) {
	if err := Validate(guesses, corpus); err != nil {
		return nil, err
	}
	start := time.Now()

	results := make([]Result, len(guesses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rk.workers)
	for i, guess := range guesses {
		if gctx.Err() != nil {
			break
		}
		i, guess := i, guess // per-iteration copies (go 1.21 loop semantics)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := Evaluate(rk.classify, guess, corpus)
			if err != nil {
				return err
			}
			results[i] = r
			if rk.progress != nil {
				rk.progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// cancellation can stop the loop before any goroutine sees it
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug().
		Int("guesses", len(guesses)).
		Int("corpus", len(corpus)).
		Int("workers", rk.workers).
		Str("scoring", rk.scoring.String()).
		Dur("took", time.Since(start)).
		Msg("evaluated guesses")
	return results, nil
}

// Validate checks the preconditions the core leaves to callers: a non-empty
// corpus and a single word length across corpus and guesses.
func Validate(guesses, corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}
	n := len(corpus[0])
	if n == 0 || n > classify.MaxWordLen {
		return fmt.Errorf("%w: answer %q", ErrLengthMismatch, corpus[0])
	}
	for _, w := range corpus {
		if len(w) != n {
			return fmt.Errorf("%w: answer %q is not %d letters", ErrLengthMismatch, w, n)
		}
	}
	for _, w := range guesses {
		if len(w) != n {
			return fmt.Errorf("%w: guess %q is not %d letters", ErrLengthMismatch, w, n)
		}
	}
	return nil
}
