package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"catalogcalc/internal/calc"
	"catalogcalc/internal/problem"
)

var ErrEntityNotFound = errors.New("entity not found in catalog")

// EntityRef identifies an entity within a catalog universe.
type EntityRef struct {
	Name     string
	Universe string
	Type     string
}

// Canonical folds universe and type aliases so that equivalent references
// compare equal. Creature entities carry no subtype.
func (r EntityRef) Canonical() EntityRef {
	universe := calc.ParseUniverse(r.Universe)
	ref := EntityRef{Name: strings.TrimSpace(r.Name), Universe: string(universe), Type: calc.NormalizeType(r.Type)}
	switch universe {
	case calc.UniverseCreature:
		ref.Type = string(calc.UniverseCreature)
	case "":
		ref.Universe = strings.ToLower(strings.TrimSpace(r.Universe))
	}
	return ref
}

// Fetcher returns the raw attribute bag of an entity.
type Fetcher interface {
	Fetch(ctx context.Context, ref EntityRef) (map[string]any, error)
}

// Resolve fetches and projects the attributes of every named entity in
// specs. Fetches run concurrently, limited by concurrency when it is
// positive; entities with inline attributes are not fetched. The result keeps
// the order of specs and omits entries without a name. Any fetch failure
// fails the whole call.
func Resolve(ctx context.Context, fetcher Fetcher, specs []problem.EntitySpec, concurrency int) ([]calc.Entity, error) {
	resolved := make([]calc.Entity, len(specs))
	present := make([]bool, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, spec := range specs {
		if strings.TrimSpace(spec.Name) == "" {
			continue
		}
		g.Go(func() error {
			raw := spec.Attributes
			if raw == nil {
				if fetcher == nil {
					return fmt.Errorf("fetching %s: no catalog configured", spec.Name)
				}
				bag, err := fetcher.Fetch(gctx, EntityRef{Name: spec.Name, Universe: spec.Universe, Type: spec.Type})
				if err != nil {
					return fmt.Errorf("fetching %s: %w", spec.Name, err)
				}
				raw = bag
			}
			resolved[i] = calc.Entity{
				Name:       spec.Name,
				Universe:   calc.ParseUniverse(spec.Universe),
				Type:       calc.NormalizeType(spec.Type),
				Attributes: calc.Project(raw, spec.Universe, spec.Type),
			}
			present[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	entities := make([]calc.Entity, 0, len(specs))
	for i, entity := range resolved {
		if present[i] {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}
