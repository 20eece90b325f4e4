package postgres

import (
	"context"
	"fmt"
)

// RemoveStaleEntities deletes file-backed entities whose source file is not
// in currentSourceFiles. Entities without a source file are kept.
func (c *Client) RemoveStaleEntities(ctx context.Context, currentSourceFiles []string) (int64, error) {
	if len(currentSourceFiles) == 0 {
		return 0, nil
	}

	tag, err := c.pool.Exec(ctx, `
DELETE FROM catalog_entities
WHERE COALESCE(source_file, '') <> ''
  AND NOT (source_file = ANY($1::text[]))
`, currentSourceFiles)
	if err != nil {
		return 0, fmt.Errorf("removing stale entities: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (c *Client) GetSourceHashes(ctx context.Context) (map[string]string, error) {
	rows, err := c.pool.Query(ctx, `
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
