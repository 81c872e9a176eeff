// This file implements deletion garbage collection: unlink-only removals,
// reference-counted full deletion of children, and the direct delete
// operation with optional exclusive-subobject cleanup.
package composite

import (
	"context"
	"sort"

	"github.com/mesh-intelligence/binder/pkg/types"
)

// processDeletions handles the deleted_subobjects accumulated across all
// parents of one upsert call. Unlink-only entries need no work here: the
// edge-replace step already dropped them from their parent's edge set.
// Full-delete candidates are removed only when no parent outside this call
// still links them.
func (e *Engine) processDeletions(ctx context.Context, st Stores, parents []types.ParentUpsert) error {
	inCall := make(map[int64]bool, len(parents))
	for _, p := range parents {
		inCall[p.ParentID] = true
	}

	candidateSet := make(map[int64]bool)
	for _, p := range parents {
		for _, del := range p.DeletedSubobjects {
			if del.FullDelete {
				candidateSet[del.ObjectID] = true
			}
		}
	}
	if len(candidateSet) == 0 {
		return nil
	}

	deletable, err := e.exclusiveCandidates(ctx, st, candidateSet, inCall)
	if err != nil {
		return err
	}
	if len(deletable) == 0 {
		return nil
	}

	if err := e.auth.AuthorizeModification(ctx, st, deletable); err != nil {
		return err
	}

	if _, err := st.Objects().Delete(ctx, deletable); err != nil {
		return &types.StorageError{Op: "delete subobjects", Err: err}
	}
	return nil
}

// exclusiveCandidates filters the candidate set down to the ids with no
// remaining referrer outside the excluded parent set. This is a
// reachability check, not a row count: a candidate still linked from any
// other parent stays, because its edges there are still valid.
func (e *Engine) exclusiveCandidates(ctx context.Context, st Stores, candidates map[int64]bool, excludedParents map[int64]bool) ([]int64, error) {
	var deletable []int64
	for id := range candidates {
		referrers, err := st.Edges().ParentsOf(ctx, id)
		if err != nil {
			return nil, &types.StorageError{Op: "check referrers", Err: err}
		}
		exclusive := true
		for _, parent := range referrers {
			if !excludedParents[parent] {
				exclusive = false
				break
			}
		}
		if exclusive {
			deletable = append(deletable, id)
		}
	}
	sort.Slice(deletable, func(i, j int) bool { return deletable[i] < deletable[j] })
	return deletable, nil
}

// Delete removes the named objects. With deleteSubobjects set, children of
// the named composites that no parent outside the deletion set still links
// are removed too. Authorization covers the full candidate set, exclusive
// children included, before any row is removed. Deletion is deliberately
// not recursive: a removed composite's own now-orphaned children survive
// unless named (or covered by deleteSubobjects) themselves.
func (e *Engine) Delete(ctx context.Context, ids []int64, deleteSubobjects bool) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	st, err := e.stores.Begin(ctx)
	if err != nil {
		return nil, &types.StorageError{Op: "delete begin", Err: err}
	}
	defer st.Rollback()

	existing, err := st.Objects().Exists(ctx, ids)
	if err != nil {
		return nil, &types.StorageError{Op: "check objects", Err: err}
	}
	var missing []int64
	for _, id := range ids {
		if !existing[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &types.NotFoundError{IDs: missing}
	}

	toDelete := make(map[int64]bool, len(ids))
	for _, id := range ids {
		toDelete[id] = true
	}

	if deleteSubobjects {
		children, err := e.exclusiveChildren(ctx, st, toDelete)
		if err != nil {
			return nil, err
		}
		for _, id := range children {
			toDelete[id] = true
		}
	}

	all := make([]int64, 0, len(toDelete))
	for id := range toDelete {
		all = append(all, id)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

	if err := e.auth.AuthorizeModification(ctx, st, all); err != nil {
		return nil, err
	}

	deleted, err := st.Objects().Delete(ctx, all)
	if err != nil {
		return nil, &types.StorageError{Op: "delete objects", Err: err}
	}

	if err := st.Commit(); err != nil {
		return nil, &types.StorageError{Op: "delete commit", Err: err}
	}

	e.log.Debug().Ints64("deleted", deleted).Msg("objects deleted")
	return deleted, nil
}

// exclusiveChildren returns the children of the composites in the deletion
// set whose every referrer is itself in the deletion set.
func (e *Engine) exclusiveChildren(ctx context.Context, st Stores, deletionSet map[int64]bool) ([]int64, error) {
	parentIDs := make([]int64, 0, len(deletionSet))
	for id := range deletionSet {
		parentIDs = append(parentIDs, id)
	}

	edges, err := st.Edges().ForParents(ctx, parentIDs)
	if err != nil {
		return nil, &types.StorageError{Op: "fetch edges", Err: err}
	}

	childSet := make(map[int64]bool)
	for _, edge := range edges {
		if !deletionSet[edge.SubobjectID] {
			childSet[edge.SubobjectID] = true
		}
	}

	return e.exclusiveCandidates(ctx, st, childSet, deletionSet)
}
