// Package rankingtest provides an in-memory ranking.Store for tests.
package rankingtest

import (
	"context"
	"sort"
	"sync"

	"github.com/arcrobot/admin_backend/internal/ranking"
)

// Store keeps ranks in memory, keyed by scope and row id. Its InScope
// restores the previous state when fn fails, mimicking a rollback.
type Store struct {
	mu    sync.Mutex
	ranks map[ranking.Scope]map[int64]int

	// FailShift, when set, is returned by ShiftRanks.
	FailShift error
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{ranks: make(map[ranking.Scope]map[int64]int)}
}

// Set writes the rank of one row.
func (s *Store) Set(scope ranking.Scope, id int64, rank int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope(scope)[id] = rank
}

// Delete removes a row without touching the others.
func (s *Store) Delete(scope ranking.Scope, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scope(scope), id)
}

// Rank returns the rank of one row.
func (s *Store) Rank(scope ranking.Scope, id int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rank, ok := s.scope(scope)[id]
	return rank, ok
}

// Snapshot copies the id→rank map of a scope.
func (s *Store) Snapshot(scope ranking.Scope) map[int64]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]int, len(s.scope(scope)))
	for id, rank := range s.scope(scope) {
		out[id] = rank
	}
	return out
}

func (s *Store) scope(scope ranking.Scope) map[int64]int {
	m, ok := s.ranks[scope]
	if !ok {
		m = make(map[int64]int)
		s.ranks[scope] = m
	}
	return m
}

// CurrentRank reports 0 for rows the store has never seen.
func (s *Store) CurrentRank(_ context.Context, scope ranking.Scope, id int64) (int, error) {
	rank, _ := s.Rank(scope, id)
	return rank, nil
}

func (s *Store) MaxRank(_ context.Context, scope ranking.Scope) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := 0
	for _, rank := range s.scope(scope) {
		if rank > last {
			last = rank
		}
	}
	return last, nil
}

func (s *Store) ShiftRanks(_ context.Context, scope ranking.Scope, span ranking.Span, delta int, exclude int64) error {
	if s.FailShift != nil {
		return s.FailShift
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.scope(scope)
	for id, rank := range m {
		if id != exclude && span.Contains(rank) {
			m[id] = rank + delta
		}
	}
	return nil
}

func (s *Store) DuplicateRanks(_ context.Context, scope ranking.Scope) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := make(map[int]int)
	for _, rank := range s.scope(scope) {
		count[rank]++
	}
	dups := []int{}
	for rank, n := range count {
		if n > 1 {
			dups = append(dups, rank)
		}
	}
	sort.Ints(dups)
	return dups, nil
}

func (s *Store) Ranks(_ context.Context, scope ranking.Scope) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ranks := make([]int, 0, len(s.scope(scope)))
	for _, rank := range s.scope(scope) {
		ranks = append(ranks, rank)
	}
	sort.Ints(ranks)
	return ranks, nil
}

// InScope implements ranking.Transactor.
func (s *Store) InScope(ctx context.Context, scope ranking.Scope, fn func(ctx context.Context) error) error {
	before := s.Snapshot(scope)
	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.ranks[scope] = before
		s.mu.Unlock()
		return err
	}
	return nil
}
