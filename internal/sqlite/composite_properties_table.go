// This file implements the composite display-properties store. The row is
// 1:1 with a composite object and is always fully replaced, never patched.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/binder/internal/composite"
	"github.com/mesh-intelligence/binder/pkg/types"
)

var _ composite.PropertiesStore = (*compositePropertiesStore)(nil)

type compositePropertiesStore struct {
	q dbtx
}

// Replace deletes any existing properties row for the object and inserts
// the new one.
func (s *compositePropertiesStore) Replace(ctx context.Context, id int64, props types.CompositeProperties) error {
	if err := props.Validate(); err != nil {
		return err
	}

	if _, err := s.q.ExecContext(ctx,
		"DELETE FROM composite_properties WHERE object_id = ?", id,
	); err != nil {
		return fmt.Errorf("clearing composite properties for %d: %w", id, err)
	}
	if _, err := s.q.ExecContext(ctx,
		"INSERT INTO composite_properties (object_id, display_mode, numerate_chapters) VALUES (?, ?, ?)",
		id, props.DisplayMode, props.NumerateChapters,
	); err != nil {
		return fmt.Errorf("inserting composite properties for %d: %w", id, err)
	}
	return nil
}

// Get returns the properties of the given composite.
func (s *compositePropertiesStore) Get(ctx context.Context, id int64) (types.CompositeProperties, error) {
	var props types.CompositeProperties
	err := s.q.QueryRowContext(ctx,
		"SELECT display_mode, numerate_chapters FROM composite_properties WHERE object_id = ?", id,
	).Scan(&props.DisplayMode, &props.NumerateChapters)
	if err == sql.ErrNoRows {
		return types.CompositeProperties{}, types.ErrNotFound
	}
	if err != nil {
		return types.CompositeProperties{}, fmt.Errorf("getting composite properties for %d: %w", id, err)
	}
	return props, nil
}
