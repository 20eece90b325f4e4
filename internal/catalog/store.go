package catalog

import (
	"context"
	"fmt"

	"catalogcalc/internal/store"
)

// EntityGetter is the part of the catalog mirror store a StoreFetcher needs.
type EntityGetter interface {
	GetEntity(ctx context.Context, name, universe, entityType string) (*store.Entity, error)
}

// StoreFetcher serves attribute bags from a local catalog mirror.
type StoreFetcher struct {
	db EntityGetter
}

func NewStoreFetcher(db EntityGetter) *StoreFetcher {
	return &StoreFetcher{db: db}
}

func (f *StoreFetcher) Fetch(ctx context.Context, ref EntityRef) (map[string]any, error) {
	ref = ref.Canonical()
	entity, err := f.db.GetEntity(ctx, ref.Name, ref.Universe, ref.Type)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, ref.Name)
	}
	if entity.Attributes == nil {
		return map[string]any{}, nil
	}
	return entity.Attributes, nil
}
