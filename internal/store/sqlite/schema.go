package sqlite

import (
	"context"
	"fmt"
	"strings"
)

const ddl = `
CREATE TABLE IF NOT EXISTS catalog_entities (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	name            TEXT NOT NULL,
	name_normalized TEXT NOT NULL,
	universe        TEXT NOT NULL,
	entity_type     TEXT NOT NULL,
	source_file     TEXT,
	source_hash     TEXT,
	attributes      TEXT DEFAULT '{}',
	last_ingested   TEXT DEFAULT (datetime('now')),
	CONSTRAINT uq_catalog_entity UNIQUE (name_normalized, universe, entity_type)
);

CREATE INDEX IF NOT EXISTS idx_catalog_entities_universe ON catalog_entities (universe);
CREATE INDEX IF NOT EXISTS idx_catalog_entities_universe_type ON catalog_entities (universe, entity_type);
CREATE INDEX IF NOT EXISTS idx_catalog_entities_source_file ON catalog_entities (source_file);
CREATE INDEX IF NOT EXISTS idx_catalog_entities_name_norm ON catalog_entities (name_normalized);
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}

func splitStatements(script string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(script, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}
	return statements
}
