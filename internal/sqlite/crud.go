// This file implements backend-level CRUD for single objects: the plumbing
// the CLI uses for non-composite create/read/list. Composite rewrites go
// through the hierarchy engine instead.
package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/binder/pkg/types"
)

// AddObject creates one object with its type data in a single transaction
// and returns the assigned id. A composite object carries no data payload
// and gets a default properties row.
func (b *Backend) AddObject(ctx context.Context, attrs types.ObjectAttrs, data types.ObjectData) (int64, error) {
	if err := attrs.Validate(); err != nil {
		return 0, err
	}
	if attrs.ObjectType == types.ObjectTypeComposite {
		if data != nil {
			return 0, fmt.Errorf("%w: composite objects carry no data payload", types.ErrInvalidData)
		}
	} else {
		if data == nil {
			return 0, fmt.Errorf("%w: missing data payload", types.ErrInvalidData)
		}
		if data.Type() != attrs.ObjectType {
			return 0, fmt.Errorf("%w: data payload is for type %q, not %q",
				types.ErrInvalidData, data.Type(), attrs.ObjectType)
		}
		if err := data.Validate(); err != nil {
			return 0, err
		}
	}

	st, err := b.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer st.Rollback()

	id, err := st.Objects().Add(ctx, attrs)
	if err != nil {
		return 0, err
	}

	if attrs.ObjectType == types.ObjectTypeComposite {
		props := types.CompositeProperties{DisplayMode: types.DisplayModeBasic}
		if err := st.Properties().Replace(ctx, id, props); err != nil {
			return 0, err
		}
	} else {
		store, ok := st.Data(attrs.ObjectType)
		if !ok {
			return 0, types.ErrInvalidObjectType
		}
		if err := store.Add(ctx, id, data); err != nil {
			return 0, err
		}
	}

	if err := st.Search().MarkPending(ctx, []int64{id}); err != nil {
		return 0, err
	}

	if err := st.Commit(); err != nil {
		return 0, fmt.Errorf("committing object: %w", err)
	}
	return id, nil
}

// GetObject returns one object with its type data. Composite objects
// return nil data; their display settings come from CompositeProps.
func (b *Backend) GetObject(ctx context.Context, id int64) (types.Object, types.ObjectData, error) {
	s, err := b.Stores()
	if err != nil {
		return types.Object{}, nil, err
	}

	objects, err := s.Objects().Fetch(ctx, []int64{id})
	if err != nil {
		return types.Object{}, nil, err
	}
	if len(objects) == 0 {
		return types.Object{}, nil, types.ErrNotFound
	}
	obj := objects[0]

	store, ok := s.Data(obj.ObjectType)
	if !ok {
		return obj, nil, nil
	}
	payloads, err := store.View(ctx, []int64{id})
	if err != nil {
		return types.Object{}, nil, err
	}
	return obj, payloads[id], nil
}

// CompositeProps returns the display settings of a composite object.
func (b *Backend) CompositeProps(ctx context.Context, id int64) (types.CompositeProperties, error) {
	s, err := b.Stores()
	if err != nil {
		return types.CompositeProperties{}, err
	}
	return s.Properties().Get(ctx, id)
}

// ListObjects returns all objects, newest first, optionally filtered by
// object type.
func (b *Backend) ListObjects(ctx context.Context, objectType string) ([]types.Object, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	if objectType != "" && !types.ValidObjectType(objectType) {
		return nil, types.ErrInvalidObjectType
	}
	store := &objectsStore{q: b.db}
	return store.List(ctx, objectType)
}

// DrainSearchPending returns and clears the pending search-index marks, for
// the boundary process that refreshes the external index after commits.
func (b *Backend) DrainSearchPending(ctx context.Context) ([]int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	store := &searchPendingStore{q: b.db}
	return store.Drain(ctx)
}
