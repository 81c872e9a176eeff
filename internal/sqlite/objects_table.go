// This file implements the objects store: the generic per-object attribute
// records every other table hangs off.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/binder/internal/composite"
	"github.com/mesh-intelligence/binder/pkg/types"
)

var _ composite.ObjectStore = (*objectsStore)(nil)

type objectsStore struct {
	q dbtx
}

// Add inserts a new object and returns its assigned id.
func (s *objectsStore) Add(ctx context.Context, attrs types.ObjectAttrs) (int64, error) {
	if err := attrs.Validate(); err != nil {
		return 0, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO objects (owner_id, object_type, is_published, display_in_feed,
            feed_timestamp, show_description, object_name, object_description,
            created_at, modified_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attrs.OwnerID, attrs.ObjectType, attrs.IsPublished, attrs.DisplayInFeed,
		feedTimestampString(attrs.FeedTimestamp), attrs.ShowDescription,
		attrs.Name, attrs.Description, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting object: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted object id: %w", err)
	}
	return id, nil
}

// AddBatch inserts the given objects one row at a time and returns their
// assigned ids in insertion order. Single-row inserts make the id order a
// guarantee rather than an assumption about batch autoincrement behavior.
func (s *objectsStore) AddBatch(ctx context.Context, attrs []types.ObjectAttrs) ([]int64, error) {
	ids := make([]int64, 0, len(attrs))
	for _, a := range attrs {
		id, err := s.Add(ctx, a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Update rewrites the attributes of an existing object. The object type is
// immutable; an update naming a different type is rejected.
func (s *objectsStore) Update(ctx context.Context, id int64, attrs types.ObjectAttrs) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	if err := attrs.Validate(); err != nil {
		return err
	}

	var existingType string
	err := s.q.QueryRowContext(ctx,
		"SELECT object_type FROM objects WHERE object_id = ?", id,
	).Scan(&existingType)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking object %d: %w", id, err)
	}
	if existingType != attrs.ObjectType {
		return types.ErrTypeImmutable
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.q.ExecContext(ctx,
		`UPDATE objects SET owner_id = ?, is_published = ?, display_in_feed = ?,
            feed_timestamp = ?, show_description = ?, object_name = ?,
            object_description = ?, modified_at = ?
         WHERE object_id = ?`,
		attrs.OwnerID, attrs.IsPublished, attrs.DisplayInFeed,
		feedTimestampString(attrs.FeedTimestamp), attrs.ShowDescription,
		attrs.Name, attrs.Description, now, id,
	)
	if err != nil {
		return fmt.Errorf("updating object %d: %w", id, err)
	}
	return nil
}

// Delete removes the given objects, returning the ids actually removed.
// Foreign-key cascade takes the type data and every edge referencing them.
func (s *objectsStore) Delete(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	existing, err := s.Exists(ctx, ids)
	if err != nil {
		return nil, err
	}
	var deletable []int64
	for _, id := range ids {
		if existing[id] {
			deletable = append(deletable, id)
		}
	}
	if len(deletable) == 0 {
		return nil, nil
	}

	query := "DELETE FROM objects WHERE object_id IN (" + inPlaceholders(len(deletable)) + ")"
	if _, err := s.q.ExecContext(ctx, query, int64Args(deletable)...); err != nil {
		return nil, fmt.Errorf("deleting objects: %w", err)
	}
	return deletable, nil
}

// Exists reports which of the given ids exist.
func (s *objectsStore) Exists(ctx context.Context, ids []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := "SELECT object_id FROM objects WHERE object_id IN (" + inPlaceholders(len(ids)) + ")"
	rows, err := s.q.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("checking object existence: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning object id: %w", err)
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating object ids: %w", err)
	}
	return result, nil
}

// Types returns the object type of each existing id.
func (s *objectsStore) Types(ctx context.Context, ids []int64) (map[int64]string, error) {
	result := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := "SELECT object_id, object_type FROM objects WHERE object_id IN (" + inPlaceholders(len(ids)) + ")"
	rows, err := s.q.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("querying object types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var objectType string
		if err := rows.Scan(&id, &objectType); err != nil {
			return nil, fmt.Errorf("scanning object type: %w", err)
		}
		result[id] = objectType
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating object types: %w", err)
	}
	return result, nil
}

// Fetch returns the full objects for the given ids, ordered by id. Missing
// ids are omitted.
func (s *objectsStore) Fetch(ctx context.Context, ids []int64) ([]types.Object, error) {
	if len(ids) == 0 {
		return []types.Object{}, nil
	}

	query := `SELECT object_id, owner_id, object_type, is_published, display_in_feed,
            feed_timestamp, show_description, object_name, object_description,
            created_at, modified_at
        FROM objects WHERE object_id IN (` + inPlaceholders(len(ids)) + `) ORDER BY object_id`
	rows, err := s.q.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("fetching objects: %w", err)
	}
	defer rows.Close()

	results := []types.Object{}
	for rows.Next() {
		obj, err := hydrateObject(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating object: %w", err)
		}
		results = append(results, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating objects: %w", err)
	}
	return results, nil
}

// List returns all objects, newest first, optionally filtered by type.
// Used by the CLI listing, not by the engine.
func (s *objectsStore) List(ctx context.Context, objectType string) ([]types.Object, error) {
	query := `SELECT object_id, owner_id, object_type, is_published, display_in_feed,
            feed_timestamp, show_description, object_name, object_description,
            created_at, modified_at
        FROM objects`
	var args []any
	if objectType != "" {
		query += " WHERE object_type = ?"
		args = append(args, objectType)
	}
	query += " ORDER BY created_at DESC, object_id DESC"

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing objects: %w", err)
	}
	defer rows.Close()

	results := []types.Object{}
	for rows.Next() {
		obj, err := hydrateObject(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating object: %w", err)
		}
		results = append(results, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating objects: %w", err)
	}
	return results, nil
}

// hydrateObject converts a row from sql.Rows into a types.Object.
func hydrateObject(rows *sql.Rows) (types.Object, error) {
	var o types.Object
	var feedTS sql.NullString
	var createdAt, modifiedAt string
	if err := rows.Scan(
		&o.ObjectID, &o.OwnerID, &o.ObjectType, &o.IsPublished, &o.DisplayInFeed,
		&feedTS, &o.ShowDescription, &o.Name, &o.Description,
		&createdAt, &modifiedAt,
	); err != nil {
		return types.Object{}, err
	}

	var err error
	o.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return types.Object{}, fmt.Errorf("parsing created_at: %w", err)
	}
	o.ModifiedAt, err = time.Parse(time.RFC3339, modifiedAt)
	if err != nil {
		return types.Object{}, fmt.Errorf("parsing modified_at: %w", err)
	}
	if feedTS.Valid {
		ts, err := time.Parse(time.RFC3339, feedTS.String)
		if err != nil {
			return types.Object{}, fmt.Errorf("parsing feed_timestamp: %w", err)
		}
		o.FeedTimestamp = &ts
	}
	return o, nil
}

// feedTimestampString converts the nullable feed timestamp for storage.
func feedTimestampString(ts *time.Time) any {
	if ts == nil {
		return nil
	}
	return ts.UTC().Format(time.RFC3339)
}

// inPlaceholders returns n comma-separated SQL placeholders.
func inPlaceholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// int64Args widens ids into the []any form Exec and Query take.
func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
