package tournament

import "context"

// Store persists the whole team table. Every save is a full rewrite.
type Store interface {
	EnsureInitialized(ctx context.Context) error
	LoadAll(ctx context.Context) (Table, error)
	SaveAll(ctx context.Context, table Table) error
}
