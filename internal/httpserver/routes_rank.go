// internal/httpserver/routes_rank.go
//
// HTTP routes for ranking runs.
//   - POST   /rank       → rank a guess list against the answer corpus
//   - GET    /runs       → recent persisted runs (summaries)
//   - GET    /runs/{id}  → one persisted run
//   - DELETE /runs/{id}  → remove a persisted run
//
// Rankings are cached in memory by (scoring, k, guesses, corpus) and, when a
// run store is configured, every computed ranking is persisted as a run.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/ranker/internal/rank"
	"github.com/robalobadob/wordle/apps/ranker/internal/runs"
	"github.com/robalobadob/wordle/apps/ranker/internal/store"
	"github.com/robalobadob/wordle/apps/ranker/internal/words"
)

// maxK bounds the k a client may request.
const maxK = 100

// mountRank registers the ranking routes.
func (s *Server) mountRank(r chi.Router) {
	r.With(s.requireAuthIfEnabled()).Post("/rank", s.handleRank)
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.handleRecentRuns)
		r.Get("/{id}", s.handleGetRun)
		r.With(s.requireAuthIfEnabled()).Delete("/{id}", s.handleDeleteRun)
	})
}

// rankReq is the request payload for POST /rank.
type rankReq struct {
	K       int      `json:"k"`       // default from config
	Prefix  string   `json:"prefix"`  // restrict allowed guesses to a prefix
	Guesses []string `json:"guesses"` // explicit guess list (overrides prefix)
	Scoring string   `json:"scoring"` // "faithful" (default) | "strict"
}

// rankRes is the response payload for POST /rank.
type rankRes struct {
	RunID   string       `json:"runId,omitempty"`
	Cached  bool         `json:"cached"`
	Scoring string       `json:"scoring"`
	K       int          `json:"k"`
	Corpus  int          `json:"corpus"`
	Ranking rank.Ranking `json:"ranking"`
}

// handleRank ranks the requested guesses, serving repeats from the cache.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req rankReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
			return
		}
	}
	sc, ok := s.scoring(w, req.Scoring)
	if !ok {
		return
	}
	k := req.K
	if k == 0 {
		k = s.cfg.Rank.TopK
	}
	if k < 0 || k > maxK {
		http.Error(w, `{"error":"bad_k"}`, http.StatusBadRequest)
		return
	}

	guesses, ok := s.guessList(w, req)
	if !ok {
		return
	}
	corpus := s.corpus.Answers
	res := rankRes{Scoring: sc.String(), K: k, Corpus: len(corpus)}

	key := store.Key(sc, k, guesses, corpus)
	if cached, err := s.cache.Get(r.Context(), key); err == nil {
		res.Cached, res.Ranking = true, cached
		_ = json.NewEncoder(w).Encode(res)
		return
	}

	ranker := rank.New(rank.Options{Workers: s.cfg.Rank.Workers, Scoring: sc})
	ranking, err := ranker.Rank(r.Context(), guesses, corpus, k)
	switch {
	case errors.Is(err, rank.ErrLengthMismatch), errors.Is(err, rank.ErrEmptyCorpus):
		http.Error(w, `{"error":"invalid_words"}`, http.StatusBadRequest)
		return
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		http.Error(w, `{"error":"timeout"}`, http.StatusServiceUnavailable)
		return
	case err != nil:
		log.Error().Err(err).Msg("rank")
		http.Error(w, `{"error":"rank_failed"}`, http.StatusInternalServerError)
		return
	}
	res.Ranking = ranking

	if err := s.cache.Save(r.Context(), key, ranking); err != nil {
		log.Warn().Err(err).Msg("cache ranking")
	}

	// Persist run (best effort, non-fatal if it fails)
	if s.runs != nil {
		run, err := s.runs.Insert(r.Context(), runs.Run{
			K:           k,
			Scoring:     sc.String(),
			CorpusSize:  len(corpus),
			GuessCount:  len(guesses),
			RequestedBy: subjectFrom(r.Context()),
			Ranking:     ranking,
		})
		if err != nil {
			log.Warn().Err(err).Msg("persist run")
		} else {
			res.RunID = run.ID
		}
	}

	log.Info().
		Int("guesses", len(guesses)).
		Int("corpus", len(corpus)).
		Int("k", k).
		Str("scoring", sc.String()).
		Str("runId", res.RunID).
		Msg("ranked")
	_ = json.NewEncoder(w).Encode(res)
}

// guessList resolves the guesses a rank request covers.
func (s *Server) guessList(w http.ResponseWriter, req rankReq) ([]string, bool) {
	if len(req.Guesses) > 0 {
		out := make([]string, len(req.Guesses))
		for i, g := range req.Guesses {
			g = normalizeWord(g)
			if !words.Valid(g) {
				http.Error(w, `{"error":"invalid_word"}`, http.StatusBadRequest)
				return nil, false
			}
			out[i] = g
		}
		return out, true
	}
	prefix := normalizeWord(req.Prefix)
	if !words.IsAlpha(prefix) {
		http.Error(w, `{"error":"bad_prefix"}`, http.StatusBadRequest)
		return nil, false
	}
	if prefix == "" {
		return s.corpus.Allowed, true
	}
	list := s.corpus.WithPrefix(prefix)
	if len(list) == 0 {
		http.Error(w, `{"error":"no_guesses"}`, http.StatusBadRequest)
		return nil, false
	}
	return list, true
}

// handleRecentRuns lists recent runs (?limit=, default 20).
func (s *Server) handleRecentRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		http.Error(w, `{"error":"runs_disabled"}`, http.StatusNotFound)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
			return
		}
		limit = n
	}
	list, err := s.runs.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list runs")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(list)
}

// handleGetRun returns one run with its ranking.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		http.Error(w, `{"error":"runs_disabled"}`, http.StatusNotFound)
		return
	}
	run, err := s.runs.Get(r.Context(), strings.TrimSpace(chi.URLParam(r, "id")))
	if errors.Is(err, runs.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("get run")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(run)
}

// handleDeleteRun removes one run.
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		http.Error(w, `{"error":"runs_disabled"}`, http.StatusNotFound)
		return
	}
	err := s.runs.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, runs.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("delete run")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
