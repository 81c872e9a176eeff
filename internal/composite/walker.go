// This file implements the hierarchy walker: bounded breadth-first
// traversal of a composite's subtree. Composite graphs are not guaranteed
// acyclic, so the walk keeps a visited set and a depth bound.
package composite

import (
	"context"
	"sort"

	"github.com/mesh-intelligence/binder/pkg/types"
)

// Subtree returns every object reachable from the given composite root,
// partitioned into composite and non-composite ids. Each object appears at
// most once; the root itself is not included. Traversal stops at the
// configured maximum depth. Authorization is consulted on the root before
// results are returned; per-object visibility filtering is the caller's
// concern.
func (e *Engine) Subtree(ctx context.Context, rootID int64) (types.SubtreeResult, error) {
	st, err := e.stores.Begin(ctx)
	if err != nil {
		return types.SubtreeResult{}, &types.StorageError{Op: "subtree begin", Err: err}
	}
	defer st.Rollback()

	rootTypes, err := st.Objects().Types(ctx, []int64{rootID})
	if err != nil {
		return types.SubtreeResult{}, &types.StorageError{Op: "check root", Err: err}
	}
	rootType, ok := rootTypes[rootID]
	if !ok {
		return types.SubtreeResult{}, &types.NotFoundError{IDs: []int64{rootID}}
	}
	if rootType != types.ObjectTypeComposite {
		return types.SubtreeResult{}, types.ErrNotComposite
	}

	if err := e.auth.AuthorizeModification(ctx, st, []int64{rootID}); err != nil {
		return types.SubtreeResult{}, err
	}

	visited := map[int64]bool{rootID: true}
	compositeSet := make(map[int64]bool)
	nonCompositeSet := make(map[int64]bool)

	frontier := []int64{rootID}
	for depth := 0; depth < e.maxDepth && len(frontier) > 0; depth++ {
		edges, err := st.Edges().ForParents(ctx, frontier)
		if err != nil {
			return types.SubtreeResult{}, &types.StorageError{Op: "fetch subtree edges", Err: err}
		}

		childSet := make(map[int64]bool)
		for _, edge := range edges {
			childSet[edge.SubobjectID] = true
		}
		childIDs := make([]int64, 0, len(childSet))
		for id := range childSet {
			childIDs = append(childIDs, id)
		}

		typesByID, err := st.Objects().Types(ctx, childIDs)
		if err != nil {
			return types.SubtreeResult{}, &types.StorageError{Op: "fetch subtree types", Err: err}
		}

		var next []int64
		for _, id := range childIDs {
			if typesByID[id] == types.ObjectTypeComposite {
				compositeSet[id] = true
				// Revisiting a composite would loop on cyclic graphs.
				if !visited[id] {
					visited[id] = true
					next = append(next, id)
				}
			} else {
				nonCompositeSet[id] = true
			}
		}
		frontier = next
	}

	return types.SubtreeResult{
		CompositeIDs:    sortedIDs(compositeSet),
		NonCompositeIDs: sortedIDs(nonCompositeSet),
	}, nil
}

// sortedIDs flattens an id set into an ascending slice.
func sortedIDs(set map[int64]bool) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
