// This file implements the composite linkage store: the edge rows that
// place children inside composite parents. Edge sets are only ever replaced
// whole, per parent.
package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/binder/internal/composite"
	"github.com/mesh-intelligence/binder/pkg/types"
)

var _ composite.EdgeStore = (*compositeStore)(nil)

type compositeStore struct {
	q dbtx
}

// ReplaceForParent deletes every edge of the given parent and inserts the
// new set.
func (s *compositeStore) ReplaceForParent(ctx context.Context, parentID int64, items []types.CompositeItem) error {
	if _, err := s.q.ExecContext(ctx,
		"DELETE FROM composite WHERE object_id = ?", parentID,
	); err != nil {
		return fmt.Errorf("clearing edges for parent %d: %w", parentID, err)
	}

	for _, item := range items {
		if _, err := s.q.ExecContext(ctx,
			`INSERT INTO composite (object_id, subobject_id, "row", "column",
                selected_tab, is_expanded, show_description_composite,
                show_description_as_link_composite)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			parentID, item.SubobjectID, item.Row, item.Column,
			item.SelectedTab, item.IsExpanded,
			item.ShowDescriptionComposite, item.ShowDescriptionAsLinkComposite,
		); err != nil {
			return fmt.Errorf("inserting edge %d -> %d: %w", parentID, item.SubobjectID, err)
		}
	}
	return nil
}

// ForParents returns every edge whose parent is in parentIDs, ordered by
// parent then grid position.
func (s *compositeStore) ForParents(ctx context.Context, parentIDs []int64) ([]types.CompositeItem, error) {
	if len(parentIDs) == 0 {
		return []types.CompositeItem{}, nil
	}

	query := `SELECT object_id, subobject_id, "row", "column", selected_tab, is_expanded,
            show_description_composite, show_description_as_link_composite
        FROM composite WHERE object_id IN (` + inPlaceholders(len(parentIDs)) + `)
        ORDER BY object_id, "row", "column"`
	rows, err := s.q.QueryContext(ctx, query, int64Args(parentIDs)...)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}
	defer rows.Close()

	results := []types.CompositeItem{}
	for rows.Next() {
		var item types.CompositeItem
		if err := rows.Scan(
			&item.ObjectID, &item.SubobjectID, &item.Row, &item.Column,
			&item.SelectedTab, &item.IsExpanded,
			&item.ShowDescriptionComposite, &item.ShowDescriptionAsLinkComposite,
		); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating edges: %w", err)
	}
	return results, nil
}

// ParentsOf returns the ids of every parent linking the given child.
func (s *compositeStore) ParentsOf(ctx context.Context, childID int64) ([]int64, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT DISTINCT object_id FROM composite WHERE subobject_id = ?", childID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying parents of %d: %w", childID, err)
	}
	defer rows.Close()

	var parents []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning parent id: %w", err)
		}
		parents = append(parents, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating parent ids: %w", err)
	}
	return parents, nil
}
