// This file implements the type-data store for to-do list objects. A list
// is one to_do_lists row plus zero or more to_do_items rows; the item set
// is always fully replaced on update.
package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/binder/internal/composite"
	"github.com/mesh-intelligence/binder/pkg/types"
)

var _ composite.DataStore = (*toDoStore)(nil)

type toDoStore struct {
	q dbtx
}

// Add inserts the list row and its items for a newly created object.
func (s *toDoStore) Add(ctx context.Context, id int64, data types.ObjectData) error {
	list, err := asToDoListData(data)
	if err != nil {
		return err
	}
	if _, err := s.q.ExecContext(ctx,
		"INSERT INTO to_do_lists (object_id, sort_type) VALUES (?, ?)", id, list.SortType,
	); err != nil {
		return fmt.Errorf("inserting to-do list for %d: %w", id, err)
	}
	return s.insertItems(ctx, id, list.Items)
}

// Update replaces the list row and the whole item set of an existing object.
func (s *toDoStore) Update(ctx context.Context, id int64, data types.ObjectData) error {
	list, err := asToDoListData(data)
	if err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx,
		"UPDATE to_do_lists SET sort_type = ? WHERE object_id = ?", list.SortType, id,
	)
	if err != nil {
		return fmt.Errorf("updating to-do list for %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking to-do list update for %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	if _, err := s.q.ExecContext(ctx,
		"DELETE FROM to_do_items WHERE object_id = ?", id,
	); err != nil {
		return fmt.Errorf("clearing to-do items for %d: %w", id, err)
	}
	return s.insertItems(ctx, id, list.Items)
}

// View returns the list payloads for the given ids, items ordered by item
// number.
func (s *toDoStore) View(ctx context.Context, ids []int64) (map[int64]types.ObjectData, error) {
	result := make(map[int64]types.ObjectData, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := "SELECT object_id, sort_type FROM to_do_lists WHERE object_id IN (" + inPlaceholders(len(ids)) + ")"
	rows, err := s.q.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("querying to-do lists: %w", err)
	}
	lists := make(map[int64]*types.ToDoListData)
	for rows.Next() {
		var id int64
		var sortType string
		if err := rows.Scan(&id, &sortType); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning to-do list: %w", err)
		}
		lists[id] = &types.ToDoListData{SortType: sortType}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating to-do lists: %w", err)
	}
	rows.Close()

	itemQuery := `SELECT object_id, item_number, item_state, item_text, commentary, indent, is_expanded
        FROM to_do_items WHERE object_id IN (` + inPlaceholders(len(ids)) + `)
        ORDER BY object_id, item_number`
	itemRows, err := s.q.QueryContext(ctx, itemQuery, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("querying to-do items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var id int64
		var item types.ToDoItem
		if err := itemRows.Scan(
			&id, &item.ItemNumber, &item.ItemState, &item.ItemText,
			&item.Commentary, &item.Indent, &item.IsExpanded,
		); err != nil {
			return nil, fmt.Errorf("scanning to-do item: %w", err)
		}
		if list, ok := lists[id]; ok {
			list.Items = append(list.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating to-do items: %w", err)
	}

	for id, list := range lists {
		result[id] = list
	}
	return result, nil
}

// insertItems writes the item rows for one list.
func (s *toDoStore) insertItems(ctx context.Context, id int64, items []types.ToDoItem) error {
	for _, item := range items {
		if _, err := s.q.ExecContext(ctx,
			`INSERT INTO to_do_items (object_id, item_number, item_state, item_text,
                commentary, indent, is_expanded)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, item.ItemNumber, item.ItemState, item.ItemText,
			item.Commentary, item.Indent, item.IsExpanded,
		); err != nil {
			return fmt.Errorf("inserting to-do item %d for %d: %w", item.ItemNumber, id, err)
		}
	}
	return nil
}

// asToDoListData narrows an ObjectData to *types.ToDoListData.
func asToDoListData(data types.ObjectData) (*types.ToDoListData, error) {
	list, ok := data.(*types.ToDoListData)
	if !ok {
		return nil, types.ErrInvalidData
	}
	return list, nil
}
