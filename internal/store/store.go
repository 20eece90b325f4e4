package store

import "context"

// Store is a local mirror of the remote entity catalogs.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	UpsertEntity(ctx context.Context, e EntityInput) error
	RemoveStaleEntities(ctx context.Context, currentSourceFiles []string) (int64, error)
	GetSourceHashes(ctx context.Context) (map[string]string, error)

	GetEntity(ctx context.Context, name, universe, entityType string) (*Entity, error)
	ListEntities(ctx context.Context, universe, entityType string) ([]EntitySummary, error)

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
