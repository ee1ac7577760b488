package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/tournament-desk/internal/domain/tournament"
)

// Store holds the team table in process memory. Reads and writes exchange deep
// copies, so callers never share slices with the store.
type Store struct {
	mu    sync.RWMutex
	table tournament.Table
	saves int
}

func NewStore(seed tournament.Table) *Store {
	return &Store{table: seed.Clone()}
}

func (s *Store) EnsureInitialized(_ context.Context) error {
	return nil
}

func (s *Store) LoadAll(_ context.Context) (tournament.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.table.Clone(), nil
}

func (s *Store) SaveAll(_ context.Context, table tournament.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table = table.Clone()
	s.saves++
	return nil
}

// Saves reports how many times SaveAll has been called.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saves
}
