package calc

import (
	"strings"

	"golang.org/x/text/cases"
)

// Entity is a named catalog entity with its projected numeric attributes.
type Entity struct {
	Name       string
	Universe   Universe
	Type       string
	Attributes map[string]float64
}

// Attribute returns the named attribute, compared case-insensitively.
func (e Entity) Attribute(name string) (float64, bool) {
	value, ok := e.Attributes[normalizeAttribute(name)]
	return value, ok
}

// Registry is a read-only lookup from case-folded entity name to Entity.
// It owns copies of the entities it was built from.
type Registry struct {
	entities map[string]Entity
}

// NewRegistry indexes entities by folded name. Entities without a name are
// skipped; when two names fold to the same key the later entity wins.
func NewRegistry(entities []Entity) *Registry {
	r := &Registry{entities: make(map[string]Entity, len(entities))}
	for _, entity := range entities {
		key := NormalizeName(entity.Name)
		if key == "" {
			continue
		}
		attrs := make(map[string]float64, len(entity.Attributes))
		for name, value := range entity.Attributes {
			attrs[normalizeAttribute(name)] = value
		}
		entity.Attributes = attrs
		r.entities[key] = entity
	}
	return r
}

func (r *Registry) Lookup(name string) (Entity, bool) {
	if r == nil {
		return Entity{}, false
	}
	entity, ok := r.entities[NormalizeName(name)]
	return entity, ok
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entities)
}

// NormalizeName returns the registry key for an entity name.
func NormalizeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func normalizeAttribute(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
