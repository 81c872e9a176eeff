// This file implements the type-data store for link objects.
package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/binder/internal/composite"
	"github.com/mesh-intelligence/binder/pkg/types"
)

var _ composite.DataStore = (*linkDataStore)(nil)

type linkDataStore struct {
	q dbtx
}

// Add inserts the link payload for a newly created object.
func (s *linkDataStore) Add(ctx context.Context, id int64, data types.ObjectData) error {
	link, err := asLinkData(data)
	if err != nil {
		return err
	}
	if _, err := s.q.ExecContext(ctx,
		"INSERT INTO links (object_id, link) VALUES (?, ?)", id, link.URL,
	); err != nil {
		return fmt.Errorf("inserting link data for %d: %w", id, err)
	}
	return nil
}

// Update replaces the link payload of an existing object.
func (s *linkDataStore) Update(ctx context.Context, id int64, data types.ObjectData) error {
	link, err := asLinkData(data)
	if err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx,
		"UPDATE links SET link = ? WHERE object_id = ?", link.URL, id,
	)
	if err != nil {
		return fmt.Errorf("updating link data for %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking link update for %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// View returns the link payloads for the given ids.
func (s *linkDataStore) View(ctx context.Context, ids []int64) (map[int64]types.ObjectData, error) {
	result := make(map[int64]types.ObjectData, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := "SELECT object_id, link FROM links WHERE object_id IN (" + inPlaceholders(len(ids)) + ")"
	rows, err := s.q.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("querying link data: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var url string
		if err := rows.Scan(&id, &url); err != nil {
			return nil, fmt.Errorf("scanning link data: %w", err)
		}
		result[id] = &types.LinkData{URL: url}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating link data: %w", err)
	}
	return result, nil
}

// asLinkData narrows an ObjectData to *types.LinkData.
func asLinkData(data types.ObjectData) (*types.LinkData, error) {
	link, ok := data.(*types.LinkData)
	if !ok {
		return nil, types.ErrInvalidData
	}
	return link, nil
}
