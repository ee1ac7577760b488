package cache

import (
	"context"

	"github.com/riskibarqy/tournament-desk/internal/domain/tournament"
	basecache "github.com/riskibarqy/tournament-desk/internal/platform/cache"
)

const (
	keyPrefix = "tournament:"
	tableKey  = keyPrefix + "table"
)

// TeamTableStore is a read-through cache in front of another Store. Every save
// goes to the wrapped store first and then drops every cached tournament key.
type TeamTableStore struct {
	next  tournament.Store
	cache *basecache.Store
}

func NewTeamTableStore(next tournament.Store, cache *basecache.Store) *TeamTableStore {
	return &TeamTableStore{next: next, cache: cache}
}

func (s *TeamTableStore) EnsureInitialized(ctx context.Context) error {
	if err := s.next.EnsureInitialized(ctx); err != nil {
		return err
	}
	s.cache.Delete(ctx, tableKey)
	return nil
}

func (s *TeamTableStore) LoadAll(ctx context.Context) (tournament.Table, error) {
	v, err := s.cache.GetOrLoad(ctx, tableKey, func(ctx context.Context) (any, error) {
		table, err := s.next.LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		return table.Clone(), nil
	})
	if err != nil {
		return tournament.Table{}, err
	}

	table, _ := v.(tournament.Table)
	return table.Clone(), nil
}

func (s *TeamTableStore) SaveAll(ctx context.Context, table tournament.Table) error {
	err := s.next.SaveAll(ctx, table)
	s.cache.DeletePrefix(ctx, keyPrefix)
	return err
}
