package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/fuzzwell/fuzzwell/pkg/types"
)

// Entry is an evaluation together with the time it was stored.
type Entry struct {
	Evaluation *types.Evaluation
	StoredAt   time.Time
}

// Store is a thread-safe in-memory evaluation history.
// A background goroutine (Run) periodically evicts entries older than the TTL.
type Store struct {
	mu   sync.RWMutex
	data map[string]*Entry
	ttl  time.Duration
	now  func() time.Time
}

// New creates a Store with the given TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		data: make(map[string]*Entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Put records ev under ev.ID. Evaluations without an ID are ignored.
// Callers must not modify ev after calling Put.
func (s *Store) Put(ev *types.Evaluation) {
	if ev == nil || ev.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[ev.ID] = &Entry{Evaluation: ev, StoredAt: s.now()}
}

// Get returns the entry for id if it is still within the TTL.
func (s *Store) Get(id string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[id]
	if !ok || !s.fresh(e, s.now()) {
		return nil, false
	}
	return e, true
}

// List returns fresh entries, newest first, at most limit of them.
// limit <= 0 returns all.
func (s *Store) List(limit int) []*Entry {
	s.mu.RLock()
	now := s.now()
	out := make([]*Entry, 0, len(s.data))
	for _, e := range s.data {
		if s.fresh(e, now) {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StoredAt.Equal(out[j].StoredAt) {
			return out[i].Evaluation.ID < out[j].Evaluation.ID
		}
		return out[i].StoredAt.After(out[j].StoredAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Count returns the number of entries held, including stale ones not yet evicted.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Evict removes entries stored at or before now minus TTL and returns how
// many were removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.data {
		if !s.fresh(e, now) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Run evicts stale entries every half TTL (at least once a second) until ctx
// is cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: evicted stale evaluations", "count", n)
			}
		}
	}
}

func (s *Store) fresh(e *Entry, now time.Time) bool {
	return e.StoredAt.After(now.Add(-s.ttl))
}
