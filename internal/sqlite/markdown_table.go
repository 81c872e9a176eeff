// This file implements the type-data store for markdown objects.
package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/binder/internal/composite"
	"github.com/mesh-intelligence/binder/pkg/types"
)

// markdownStore implements the type-data store for markdown objects.
type markdownStore struct {
	q dbtx
}

var _ composite.DataStore = (*markdownStore)(nil)

// Add inserts the markdown payload for a newly created object.
func (s *markdownStore) Add(ctx context.Context, id int64, data types.ObjectData) error {
	md, err := asMarkdownData(data)
	if err != nil {
		return err
	}
	if _, err := s.q.ExecContext(ctx,
		"INSERT INTO markdown (object_id, raw_text) VALUES (?, ?)", id, md.RawText,
	); err != nil {
		return fmt.Errorf("inserting markdown data for %d: %w", id, err)
	}
	return nil
}

// Update replaces the markdown payload of an existing object.
func (s *markdownStore) Update(ctx context.Context, id int64, data types.ObjectData) error {
	md, err := asMarkdownData(data)
	if err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx,
		"UPDATE markdown SET raw_text = ? WHERE object_id = ?", md.RawText, id,
	)
	if err != nil {
		return fmt.Errorf("updating markdown data for %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking markdown update for %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// View returns the markdown payloads for the given ids.
func (s *markdownStore) View(ctx context.Context, ids []int64) (map[int64]types.ObjectData, error) {
	result := make(map[int64]types.ObjectData, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := "SELECT object_id, raw_text FROM markdown WHERE object_id IN (" + inPlaceholders(len(ids)) + ")"
	rows, err := s.q.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("querying markdown data: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning markdown data: %w", err)
		}
		result[id] = &types.MarkdownData{RawText: raw}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating markdown data: %w", err)
	}
	return result, nil
}

// asMarkdownData narrows an ObjectData to *types.MarkdownData.
func asMarkdownData(data types.ObjectData) (*types.MarkdownData, error) {
	md, ok := data.(*types.MarkdownData)
	if !ok {
		return nil, types.ErrInvalidData
	}
	return md, nil
}
