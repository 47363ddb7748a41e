// internal/store/memory.go
//
// In-memory cache of ranking results.
// Ranking the full guess list is the expensive operation of the service;
// identical requests (same scoring, k and guess list against the same
// corpus) are answered from here.
//
// Characteristics:
//   - Stores rank.Ranking values keyed by Key().
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Bounded: once full, the oldest entry is evicted.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"sync"

	"github.com/robalobadob/wordle/apps/ranker/internal/classify"
	"github.com/robalobadob/wordle/apps/ranker/internal/rank"
)

// ErrNotFound is returned by Get for unknown keys.
var ErrNotFound = errors.New("store: not found")

// Store defines the cache interface for ranking results.
type Store interface {
	// Save records a ranking under key, replacing any previous value.
	Save(ctx context.Context, key string, r rank.Ranking) error

	// Get retrieves a ranking by key.
	// Returns ErrNotFound if the key is unknown.
	Get(ctx context.Context, key string) (rank.Ranking, error)
}

// Key derives a cache key from everything a ranking depends on.
func Key(scoring classify.Scoring, k int, guesses, corpus []string) string {
	h := sha256.New()
	h.Write([]byte(scoring.String()))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(k)))
	for _, list := range [][]string{guesses, corpus} {
		h.Write([]byte{1})
		for _, w := range list {
			h.Write([]byte(w))
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex            // guards entries and order
	entries map[string]rank.Ranking // keyed by Key()
	order   []string                // insertion order for eviction
	max     int
}

// NewMemoryStore constructs an in-memory Store holding at most max entries
// (max <= 0 means 128).
func NewMemoryStore(max int) Store {
	if max <= 0 {
		max = 128
	}
	return &memory{entries: make(map[string]rank.Ranking), max: max}
}

// Save adds or updates the ranking in the map.
func (m *memory) Save(ctx context.Context, key string, r rank.Ranking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		m.order = append(m.order, key)
		if len(m.order) > m.max {
			delete(m.entries, m.order[0])
			m.order = m.order[1:]
		}
	}
	m.entries[key] = r
	return nil
}

// Get looks up a ranking by key.
func (m *memory) Get(ctx context.Context, key string) (rank.Ranking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.entries[key]; ok {
		return r, nil
	}
	return rank.Ranking{}, ErrNotFound
}
