// internal/httpserver/server.go
//
// HTTP server wiring for the guess ranker.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Word list endpoints: /words, /words/stats.
//   - Analysis endpoints: POST /classify, POST /partition, GET /examples, GET /cover.
//   - Ranking endpoints: POST /rank, /runs (see routes_rank.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled.
//   - Optional auth decorates requests with the token subject when a valid token is
//     present; POST /rank and DELETE /runs/{id} require a token when auth is enabled.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/ranker/internal/classify"
	"github.com/robalobadob/wordle/apps/ranker/internal/config"
	"github.com/robalobadob/wordle/apps/ranker/internal/cover"
	"github.com/robalobadob/wordle/apps/ranker/internal/partition"
	"github.com/robalobadob/wordle/apps/ranker/internal/runs"
	"github.com/robalobadob/wordle/apps/ranker/internal/store"
	"github.com/robalobadob/wordle/apps/ranker/internal/words"
)

// Server bundles router, corpus, result cache and optional run store.
type Server struct {
	r      *chi.Mux
	cfg    *config.Config
	corpus *words.Corpus
	cache  store.Store
	runs   *runs.Store // nil when persistence is disabled
}

// New constructs a Server, installs middleware, and registers routes.
// rs may be nil.
func New(cfg *config.Config, corpus *words.Corpus, cache store.Store, rs *runs.Store) *Server {
	s := &Server{r: chi.NewRouter(), cfg: cfg, corpus: corpus, cache: cache, runs: rs}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                            // add X-Request-ID
	s.r.Use(chimw.RealIP)                               // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                                  // one log line per request
	s.r.Use(chimw.Recoverer)                            // recover from panics
	s.r.Use(chimw.Timeout(cfg.Server.Timeout.Duration)) // bound handler time
	s.r.Use(jsonContentType)                            // default JSON responses
	s.r.Use(cors(cfg.Server.ClientOrigin))              // credentials-friendly CORS
	s.r.Use(s.withOptionalAuth())                       // token subject, if any

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordle-ranker","endpoints":["/health","/words","POST /classify","POST /partition","/examples","/cover","POST /rank","/runs"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// --- words ---
	s.r.Get("/words/stats", func(w http.ResponseWriter, r *http.Request) {
		a, g := s.corpus.Stats()
		_ = json.NewEncoder(w).Encode(map[string]any{"answers": a, "allowed": g, "origin": s.corpus.Origin})
	})
	s.r.Get("/words", s.handleWords)

	// --- analysis ---
	s.r.Post("/classify", s.handleClassify)
	s.r.Post("/partition", s.handlePartition)
	s.r.Get("/examples", s.handleExamples)
	s.r.Get("/cover", s.handleCover)

	// --- ranking ---
	s.mountRank(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one structured line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("took", time.Since(start)).
				Str("reqId", chimw.GetReqID(r.Context())).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ------------------------------ WORDS --------------------------------------

// handleWords lists allowed guesses, optionally filtered by ?prefix=.
func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	prefix := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("prefix")))
	if !words.IsAlpha(prefix) {
		http.Error(w, `{"error":"bad_prefix"}`, http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"prefix": prefix, "words": s.corpus.WithPrefix(prefix)})
}

// ---------------------------- ANALYSIS -------------------------------------

// classifyReq/Res payloads for POST /classify.
type classifyReq struct {
	Guess     string `json:"guess"`
	Candidate string `json:"candidate"`
	Scoring   string `json:"scoring"` // "faithful" (default) | "strict"
}
type classifyRes struct {
	Pattern classify.Response      `json:"pattern"`
	States  []classify.LetterState `json:"states"`
}

// handleClassify classifies one guess against one candidate.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	fn, ok := s.scoringFunc(w, req.Scoring)
	if !ok {
		return
	}
	guess, cand := normalizeWord(req.Guess), normalizeWord(req.Candidate)
	if !words.Valid(guess) || !words.Valid(cand) {
		http.Error(w, `{"error":"invalid_word"}`, http.StatusBadRequest)
		return
	}
	resp := fn(guess, cand)
	_ = json.NewEncoder(w).Encode(classifyRes{Pattern: resp, States: resp.States()})
}

// partitionReq/Res payloads for POST /partition.
type partitionReq struct {
	Guess   string `json:"guess"`
	Scoring string `json:"scoring"`
}
type partitionRes struct {
	Guess   string             `json:"guess"`
	Total   int                `json:"total"`
	Cost    float64            `json:"cost"`
	Buckets []partition.Bucket `json:"buckets"`
}

// handlePartition partitions the answer corpus by one guess.
func (s *Server) handlePartition(w http.ResponseWriter, r *http.Request) {
	var req partitionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	fn, ok := s.scoringFunc(w, req.Scoring)
	if !ok {
		return
	}
	guess := normalizeWord(req.Guess)
	if !words.Valid(guess) {
		http.Error(w, `{"error":"invalid_word"}`, http.StatusBadRequest)
		return
	}
	h, err := partition.PartitionWith(fn, guess, s.corpus.Answers)
	if err != nil {
		log.Error().Err(err).Str("guess", guess).Msg("partition")
		http.Error(w, `{"error":"partition_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(partitionRes{
		Guess:   guess,
		Total:   h.Total(),
		Cost:    h.Cost(),
		Buckets: h.Buckets(),
	})
}

// handleExamples lists example answers for every response to ?guess=.
func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fn, ok := s.scoringFunc(w, q.Get("scoring"))
	if !ok {
		return
	}
	guess := normalizeWord(q.Get("guess"))
	if !words.Valid(guess) {
		http.Error(w, `{"error":"invalid_word"}`, http.StatusBadRequest)
		return
	}
	limit := 10
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
			return
		}
		limit = n
	}
	ex := partition.Examples(fn, guess, s.corpus.Answers, limit)
	if q.Get("nonempty") == "true" {
		kept := ex[:0]
		for _, e := range ex {
			if len(e.Words) > 0 {
				kept = append(kept, e)
			}
		}
		ex = kept
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"guess": guess, "examples": ex})
}

// handleCover reports two-word openers covering the most common letters.
func (s *Server) handleCover(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(cover.Pairs(s.corpus.Answers, s.corpus.Allowed))
}

// ------------------------------- util --------------------------------------

// scoringFunc resolves an optional scoring override, writing a 400 on bad input.
func (s *Server) scoringFunc(w http.ResponseWriter, v string) (classify.Func, bool) {
	sc, ok := s.scoring(w, v)
	if !ok {
		return nil, false
	}
	return sc.Func(), true
}

func (s *Server) scoring(w http.ResponseWriter, v string) (classify.Scoring, bool) {
	if strings.TrimSpace(v) == "" {
		return s.cfg.Scoring(), true
	}
	sc, err := classify.ParseScoring(v)
	if err != nil {
		http.Error(w, `{"error":"bad_scoring"}`, http.StatusBadRequest)
		return 0, false
	}
	return sc, true
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}
