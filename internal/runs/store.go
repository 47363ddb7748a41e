// internal/runs/store.go
//
// Persisted ranking runs.
// Each completed ranking can be stored with its parameters so results can be
// listed and fetched later without recomputing them. The ranking itself is
// kept as a msgpack blob; the columns carry what listing needs.

package runs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/robalobadob/wordle/apps/ranker/assets"
	"github.com/robalobadob/wordle/apps/ranker/internal/rank"
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned for unknown run ids.
var ErrNotFound = errors.New("runs: not found")

// Run is one stored ranking.
type Run struct {
	ID          string       `json:"id"`
	CreatedAt   time.Time    `json:"createdAt"`
	K           int          `json:"k"`
	Scoring     string       `json:"scoring"`
	CorpusSize  int          `json:"corpusSize"`
	GuessCount  int          `json:"guessCount"`
	RequestedBy string       `json:"requestedBy,omitempty"`
	Ranking     rank.Ranking `json:"ranking"`
}

// Summary is a Run without its ranking, for listings.
type Summary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	K           int       `json:"k"`
	Scoring     string    `json:"scoring"`
	CorpusSize  int       `json:"corpusSize"`
	GuessCount  int       `json:"guessCount"`
	RequestedBy string    `json:"requestedBy,omitempty"`
}

// Store reads and writes runs.
type Store struct{ db *sql.DB }

// Open opens the database at path and applies migrations.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("runs: open: %w", err)
	}
	if err := migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("runs: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Insert stores r, assigning an id and timestamp when missing, and returns
// the stored run.
func (s *Store) Insert(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC()
	payload, err := msgpack.Marshal(&r.Ranking)
	if err != nil {
		return Run{}, fmt.Errorf("runs: encode: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO runs (id, created_at, k, scoring, corpus_size, guess_count, requested_by, payload)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt.Format(timeLayout), r.K, r.Scoring, r.CorpusSize, r.GuessCount, r.RequestedBy, payload,
	)
	if err != nil {
		return Run{}, fmt.Errorf("runs: insert: %w", err)
	}
	return r, nil
}

// Get loads a run by id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	var (
		r       Run
		created string
		payload []byte
	)
	err := s.db.QueryRowContext(ctx, `
        SELECT id, created_at, k, scoring, corpus_size, guess_count, requested_by, payload
        FROM runs WHERE id=?`, id,
	).Scan(&r.ID, &created, &r.K, &r.Scoring, &r.CorpusSize, &r.GuessCount, &r.RequestedBy, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("runs: get: %w", err)
	}
	r.CreatedAt = parseTime(created)
	if err := msgpack.Unmarshal(payload, &r.Ranking); err != nil {
		return Run{}, fmt.Errorf("runs: decode %s: %w", id, err)
	}
	return r, nil
}

// Recent lists the newest runs first. limit <= 0 means 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, created_at, k, scoring, corpus_size, guess_count, requested_by
        FROM runs
        ORDER BY created_at DESC, id ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("runs: list: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0, limit)
	for rows.Next() {
		var (
			r       Summary
			created string
		)
		if err := rows.Scan(&r.ID, &created, &r.K, &r.Scoring, &r.CorpusSize, &r.GuessCount, &r.RequestedBy); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes a run. Deleting an unknown id returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("runs: delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// parseTime parses stored timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
