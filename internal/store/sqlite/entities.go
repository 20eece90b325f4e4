package sqlite

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
	VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))
	ON CONFLICT (name_normalized, universe, entity_type) DO UPDATE SET
		name = excluded.name,
		source_file = excluded.source_file,
		source_hash = excluded.source_hash,
		attributes = excluded.attributes,
		last_ingested = datetime('now')
	`

	_, err = c.db.ExecContext(ctx, query,
		e.Name,
		calc.NormalizeName(e.Name),
		e.Universe,
		e.EntityType,
		e.SourceFile,
		e.SourceHash,
		string(attrsJSON),
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
	WHERE name_normalized = ?
	  AND (? = '' OR universe = ?)
	  AND (? = '' OR entity_type = ?)
	`

	rows, err := c.db.QueryContext(ctx, query,
		calc.NormalizeName(name), universe, universe, entityType, entityType)
	if err != nil {
		return nil, fmt.Errorf("getting entity: %w", err)
	}
	defer rows.Close()

	var entities []store.Entity
	for rows.Next() {
		var e store.Entity
		var attrs string
		if err := rows.Scan(&e.Name, &e.Universe, &e.EntityType, &e.SourceFile, &e.SourceHash, &attrs); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		if attrs != "" {
			if err := json.Unmarshal([]byte(attrs), &e.Attributes); err != nil {
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
	WHERE (? = '' OR universe = ?)
	  AND (? = '' OR entity_type = ?)
	ORDER BY universe, entity_type, name_normalized
	`

	rows, err := c.db.QueryContext(ctx, query, universe, universe, entityType, entityType)
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
