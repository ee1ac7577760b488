package resilient

import (
	"context"

	"github.com/riskibarqy/tournament-desk/internal/domain/tournament"
	"github.com/riskibarqy/tournament-desk/internal/platform/resilience"
)

// Store guards a networked Store with a circuit breaker. While the breaker is
// open every call fails fast with resilience.ErrCircuitOpen.
type Store struct {
	next    tournament.Store
	breaker *resilience.CircuitBreaker
}

func NewStore(next tournament.Store, breaker *resilience.CircuitBreaker) *Store {
	return &Store{next: next, breaker: breaker}
}

func (s *Store) EnsureInitialized(ctx context.Context) error {
	return s.breaker.Execute(ctx, s.next.EnsureInitialized)
}

func (s *Store) LoadAll(ctx context.Context) (tournament.Table, error) {
	var table tournament.Table
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		table, err = s.next.LoadAll(ctx)
		return err
	})
	return table, err
}

func (s *Store) SaveAll(ctx context.Context, table tournament.Table) error {
	return s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.next.SaveAll(ctx, table)
	})
}
