// This file implements the hierarchy engine's upsert orchestration:
// validation, placeholder id resolution, and the multi-table write order
// that keeps objects, type data, composite properties, and edges consistent
// inside one transaction.
package composite

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/binder/pkg/types"
)

// Engine orchestrates composite upserts, deletion garbage collection, and
// hierarchy traversal. All dependencies are injected; the engine holds no
// global state.
type Engine struct {
	stores   StoreProvider
	auth     Authorizer
	maxDepth int
	log      zerolog.Logger
}

// NewEngine creates an engine over the given store provider and authorizer.
// maxDepth bounds hierarchy traversal; values below one fall back to
// types.DefaultMaxDepth.
func NewEngine(stores StoreProvider, auth Authorizer, maxDepth int, log zerolog.Logger) *Engine {
	if maxDepth < 1 {
		maxDepth = types.DefaultMaxDepth
	}
	return &Engine{stores: stores, auth: auth, maxDepth: maxDepth, log: log}
}

// Upsert applies one or more composite parent rewrites as a single atomic
// unit. For every negative placeholder id in the request it creates a new
// object and reports the assigned real id in the returned mapping. Any
// validation failure, missing reference, or authorization denial aborts the
// whole call with no mutation.
func (e *Engine) Upsert(ctx context.Context, parents []types.ParentUpsert) (types.IDRemapping, error) {
	callID := newCallID()
	log := e.log.With().Str("call_id", callID).Logger()

	// Validate every parent before any write.
	for i := range parents {
		if err := validateParent(&parents[i]); err != nil {
			return nil, err
		}
	}

	st, err := e.stores.Begin(ctx)
	if err != nil {
		return nil, &types.StorageError{Op: "upsert begin", Err: err}
	}
	defer st.Rollback()

	if err := e.checkParents(ctx, st, parents); err != nil {
		return nil, err
	}

	remap, createdIDs, err := e.createNewSubobjects(ctx, st, parents)
	if err != nil {
		return nil, err
	}

	updatedIDs, err := e.updateExistingSubobjects(ctx, st, parents)
	if err != nil {
		return nil, err
	}

	parentIDs := make([]int64, 0, len(parents))
	for _, p := range parents {
		parentIDs = append(parentIDs, p.ParentID)

		if err := st.Properties().Replace(ctx, p.ParentID, p.Properties); err != nil {
			return nil, &types.StorageError{Op: "replace composite properties", Err: err}
		}
	}

	if err := e.replaceEdges(ctx, st, parents, remap); err != nil {
		return nil, err
	}

	if err := e.processDeletions(ctx, st, parents); err != nil {
		return nil, err
	}

	// Touched objects and their parents need a search-index refresh. The
	// mark rides the same transaction; failures are logged, not fatal.
	touched := append(append(createdIDs, updatedIDs...), parentIDs...)
	if err := st.Search().MarkPending(ctx, touched); err != nil {
		log.Warn().Err(err).Msg("marking search-index updates failed")
	}

	if err := st.Commit(); err != nil {
		return nil, &types.StorageError{Op: "upsert commit", Err: err}
	}

	log.Debug().
		Int("parents", len(parents)).
		Int("created", len(createdIDs)).
		Int("updated", len(updatedIDs)).
		Msg("composite upsert committed")
	return remap, nil
}

// checkParents verifies that every parent exists and is a composite.
func (e *Engine) checkParents(ctx context.Context, st Stores, parents []types.ParentUpsert) error {
	ids := make([]int64, 0, len(parents))
	for _, p := range parents {
		ids = append(ids, p.ParentID)
	}

	typesByID, err := st.Objects().Types(ctx, ids)
	if err != nil {
		return &types.StorageError{Op: "check parents", Err: err}
	}

	var missing []int64
	for _, id := range ids {
		t, ok := typesByID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if t != types.ObjectTypeComposite {
			return &types.ValidationError{
				ParentID: id,
				Field:    "object_type",
				Reason:   fmt.Sprintf("parent is of type %q, not composite", t),
			}
		}
	}
	if len(missing) > 0 {
		return &types.NotFoundError{IDs: missing}
	}
	return nil
}

// createNewSubobjects creates an object for every negative placeholder id
// in the call and returns the placeholder-to-real mapping. Placeholders are
// created in descending placeholder order, so the mapping is deterministic
// regardless of descriptor ordering in the request. A placeholder that
// appears under several parents names one shared new object; the first
// occurrence supplies its payload.
func (e *Engine) createNewSubobjects(ctx context.Context, st Stores, parents []types.ParentUpsert) (types.IDRemapping, []int64, error) {
	byPlaceholder := make(map[int64]*types.SubobjectDescriptor)
	for pi := range parents {
		for si := range parents[pi].Subobjects {
			desc := &parents[pi].Subobjects[si]
			if !desc.IsNew() {
				continue
			}
			if _, ok := byPlaceholder[desc.ObjectID]; !ok {
				byPlaceholder[desc.ObjectID] = desc
			}
		}
	}

	remap := make(types.IDRemapping, len(byPlaceholder))
	if len(byPlaceholder) == 0 {
		return remap, nil, nil
	}

	placeholders := make([]int64, 0, len(byPlaceholder))
	for id := range byPlaceholder {
		placeholders = append(placeholders, id)
	}
	sort.Slice(placeholders, func(i, j int) bool { return placeholders[i] > placeholders[j] })

	attrs := make([]types.ObjectAttrs, 0, len(placeholders))
	for _, ph := range placeholders {
		attrs = append(attrs, *byPlaceholder[ph].Attrs)
	}

	ids, err := st.Objects().AddBatch(ctx, attrs)
	if err != nil {
		return nil, nil, &types.StorageError{Op: "create subobjects", Err: err}
	}

	for i, ph := range placeholders {
		remap[ph] = ids[i]
	}

	for _, ph := range placeholders {
		desc := byPlaceholder[ph]
		store, ok := st.Data(desc.ObjectType)
		if !ok {
			// Unreachable after validation; composite creation is rejected there.
			return nil, nil, &types.ValidationError{
				ParentID: 0,
				Field:    "object_type",
				Reason:   fmt.Sprintf("no data store for type %q", desc.ObjectType),
			}
		}
		if err := store.Add(ctx, remap[ph], desc.Data); err != nil {
			return nil, nil, &types.StorageError{Op: "add subobject data", Err: err}
		}
	}

	return remap, ids, nil
}

// updateExistingSubobjects rewrites attributes and type data for every
// descriptor that references a real id and carries an update payload.
// Position-only references are left untouched.
func (e *Engine) updateExistingSubobjects(ctx context.Context, st Stores, parents []types.ParentUpsert) ([]int64, error) {
	var updated []int64
	seen := make(map[int64]bool)

	for pi := range parents {
		for si := range parents[pi].Subobjects {
			desc := &parents[pi].Subobjects[si]
			if desc.IsNew() || !desc.HasUpdate() || seen[desc.ObjectID] {
				continue
			}
			seen[desc.ObjectID] = true

			if err := st.Objects().Update(ctx, desc.ObjectID, *desc.Attrs); err != nil {
				if err == types.ErrNotFound {
					return nil, &types.NotFoundError{IDs: []int64{desc.ObjectID}}
				}
				return nil, &types.StorageError{Op: "update subobject", Err: err}
			}

			if desc.Data != nil {
				store, ok := st.Data(desc.ObjectType)
				if !ok {
					return nil, &types.ValidationError{
						ParentID: parents[pi].ParentID,
						Field:    "object_type",
						Reason:   fmt.Sprintf("no data store for type %q", desc.ObjectType),
					}
				}
				if err := store.Update(ctx, desc.ObjectID, desc.Data); err != nil {
					if err == types.ErrNotFound {
						return nil, &types.NotFoundError{IDs: []int64{desc.ObjectID}}
					}
					return nil, &types.StorageError{Op: "update subobject data", Err: err}
				}
			}

			updated = append(updated, desc.ObjectID)
		}
	}
	return updated, nil
}

// replaceEdges verifies every resolved child id exists, then replaces each
// parent's edge set whole. The existence check runs after subobject
// creation because a descriptor may reference a sibling created in the same
// call.
func (e *Engine) replaceEdges(ctx context.Context, st Stores, parents []types.ParentUpsert, remap types.IDRemapping) error {
	childSet := make(map[int64]bool)
	for _, p := range parents {
		for _, desc := range p.Subobjects {
			childSet[remap.Resolve(desc.ObjectID)] = true
		}
	}

	childIDs := make([]int64, 0, len(childSet))
	for id := range childSet {
		childIDs = append(childIDs, id)
	}
	existing, err := st.Objects().Exists(ctx, childIDs)
	if err != nil {
		return &types.StorageError{Op: "check subobjects", Err: err}
	}

	var missing []int64
	for _, id := range childIDs {
		if !existing[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return &types.NotFoundError{IDs: missing}
	}

	for _, p := range parents {
		items := make([]types.CompositeItem, 0, len(p.Subobjects))
		for _, desc := range p.Subobjects {
			items = append(items, desc.Item(p.ParentID, remap.Resolve(desc.ObjectID)))
		}
		if err := st.Edges().ReplaceForParent(ctx, p.ParentID, items); err != nil {
			return &types.StorageError{Op: "replace edges", Err: err}
		}
	}
	return nil
}

// newCallID returns a UUID v7 identifying one engine call in logs.
func newCallID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
