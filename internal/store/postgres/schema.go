package postgres

import (
	"context"
	"fmt"
)

// The statements run as one implicit transaction.
const ddl = `
CREATE TABLE IF NOT EXISTS catalog_entities (
    id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name            TEXT NOT NULL,
    name_normalized TEXT NOT NULL,
    universe        TEXT NOT NULL,
    entity_type     TEXT NOT NULL,
    source_file     TEXT,
    source_hash     TEXT,
    attributes      JSONB DEFAULT '{}',
    last_ingested   TIMESTAMPTZ DEFAULT now(),
    CONSTRAINT uq_catalog_entity UNIQUE (name_normalized, universe, entity_type)
);

CREATE INDEX IF NOT EXISTS idx_catalog_entities_universe ON catalog_entities (universe);
CREATE INDEX IF NOT EXISTS idx_catalog_entities_universe_type ON catalog_entities (universe, entity_type);
CREATE INDEX IF NOT EXISTS idx_catalog_entities_source_file ON catalog_entities (source_file);
CREATE INDEX IF NOT EXISTS idx_catalog_entities_name_norm ON catalog_entities (name_normalized);
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
