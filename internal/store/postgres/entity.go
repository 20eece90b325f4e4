package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"catalogcalc/internal/calc"
	"catalogcalc/internal/store"
)

func (c *Client) UpsertEntity(ctx context.Context, e store.EntityInput) error {
	attrs := e.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	attrsJSON, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("marshaling attributes: %w", err)
	}

	query := `
INSERT INTO catalog_entities (name, name_normalized, universe, entity_type, source_file, source_hash, attributes, last_ingested)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (name_normalized, universe, entity_type) DO UPDATE SET
    name = EXCLUDED.name,
    source_file = EXCLUDED.source_file,
    source_hash = EXCLUDED.source_hash,
    attributes = EXCLUDED.attributes,
    last_ingested = now()
`

	_, err = c.pool.Exec(ctx, query,
		e.Name,
		calc.NormalizeName(e.Name),
		e.Universe,
		e.EntityType,
		e.SourceFile,
		e.SourceHash,
		attrsJSON,
	)
	if err != nil {
		return fmt.Errorf("upserting entity: %w", err)
	}
	return nil
}

func (c *Client) GetEntity(ctx context.Context, name, universe, entityType string) (*store.Entity, error) {
	query := `
SELECT name, universe, entity_type, COALESCE(source_file, ''), COALESCE(source_hash, ''), attributes
FROM catalog_entities
WHERE name_normalized = $1
  AND ($2::text = '' OR universe = $2)
  AND ($3::text = '' OR entity_type = $3)
`

	rows, err := c.pool.Query(ctx, query, calc.NormalizeName(name), universe, entityType)
	if err != nil {
		return nil, fmt.Errorf("getting entity: %w", err)
	}
	defer rows.Close()

	var entities []store.Entity
	for rows.Next() {
		var e store.Entity
		var attrs []byte
		if err := rows.Scan(&e.Name, &e.Universe, &e.EntityType, &e.SourceFile, &e.SourceHash, &attrs); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &e.Attributes); err != nil {
				return nil, fmt.Errorf("unmarshaling attributes: %w", err)
			}
		}
		if e.Attributes == nil {
			e.Attributes = map[string]any{}
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity rows: %w", err)
	}

	switch len(entities) {
	case 0:
		return nil, nil
	case 1:
		return &entities[0], nil
	}
	return nil, fmt.Errorf("ambiguous entity %q: %d matches, narrow by universe or type", name, len(entities))
}

func (c *Client) ListEntities(ctx context.Context, universe, entityType string) ([]store.EntitySummary, error) {
	query := `
SELECT name, universe, entity_type
FROM catalog_entities
WHERE ($1::text = '' OR universe = $1)
  AND ($2::text = '' OR entity_type = $2)
ORDER BY universe, entity_type, name_normalized
`

	rows, err := c.pool.Query(ctx, query, universe, entityType)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	summaries := []store.EntitySummary{}
	for rows.Next() {
		var s store.EntitySummary
		if err := rows.Scan(&s.Name, &s.Universe, &s.EntityType); err != nil {
			return nil, fmt.Errorf("scanning entity summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity summaries: %w", err)
	}
	return summaries, nil
}
