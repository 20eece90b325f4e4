package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
)

// RemoveStaleEntities deletes file-backed entities whose source file is not
// in currentSourceFiles. Entities without a source file are kept.
func (c *Client) RemoveStaleEntities(ctx context.Context, currentSourceFiles []string) (int64, error) {
	if len(currentSourceFiles) == 0 {
		return 0, nil
	}
	files, err := json.Marshal(currentSourceFiles)
	if err != nil {
		return 0, fmt.Errorf("encoding source files: %w", err)
	}

	result, err := c.db.ExecContext(ctx, `
	DELETE FROM catalog_entities
	WHERE COALESCE(source_file, '') <> ''
	  AND source_file NOT IN (SELECT value FROM json_each(?))
	`, string(files))
	if err != nil {
		return 0, fmt.Errorf("removing stale entities: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting removed entities: %w", err)
	}
	return removed, nil
}

func (c *Client) GetSourceHashes(ctx context.Context) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT source_file, MAX(COALESCE(source_hash, ''))
	FROM catalog_entities
	WHERE COALESCE(source_file, '') <> ''
	GROUP BY source_file
	`)
	if err != nil {
		return nil, fmt.Errorf("loading source hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var file, hash string
		if err := rows.Scan(&file, &hash); err != nil {
			return nil, fmt.Errorf("scanning source hash: %w", err)
		}
		hashes[file] = hash
	}
	return hashes, rows.Err()
}
