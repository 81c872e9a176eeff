// Package composite implements the composite object hierarchy engine: the
// validation, id resolution, multi-table write ordering, and deletion
// garbage collection behind composite upserts, plus the bounded hierarchy
// walker. The engine depends only on the store interfaces declared here;
// concrete implementations are injected by the caller.
package composite

import (
	"context"

	"github.com/mesh-intelligence/binder/pkg/types"
)

// ObjectStore persists the generic per-object attribute records.
type ObjectStore interface {
	// Add inserts a new object and returns its assigned id.
	Add(ctx context.Context, attrs types.ObjectAttrs) (int64, error)

	// AddBatch inserts the given objects and returns their assigned ids in
	// insertion order. Ids ascend with insertion order.
	AddBatch(ctx context.Context, attrs []types.ObjectAttrs) ([]int64, error)

	// Update rewrites the attributes of an existing object. Returns
	// types.ErrNotFound if the object does not exist and
	// types.ErrTypeImmutable if the update would change the object type.
	Update(ctx context.Context, id int64, attrs types.ObjectAttrs) error

	// Delete removes the given objects, returning the ids actually removed.
	// Type data and edges go with them via foreign-key cascade.
	Delete(ctx context.Context, ids []int64) ([]int64, error)

	// Exists reports which of the given ids exist.
	Exists(ctx context.Context, ids []int64) (map[int64]bool, error)

	// Types returns the object type of each existing id.
	Types(ctx context.Context, ids []int64) (map[int64]string, error)

	// Fetch returns the full objects for the given ids. Missing ids are
	// omitted, not an error.
	Fetch(ctx context.Context, ids []int64) ([]types.Object, error)
}

// DataStore persists the type-specific payload of one object type.
type DataStore interface {
	// Add inserts the payload for a newly created object.
	Add(ctx context.Context, id int64, data types.ObjectData) error

	// Update replaces the payload of an existing object. Returns
	// types.ErrNotFound if no payload row exists.
	Update(ctx context.Context, id int64, data types.ObjectData) error

	// View returns the payloads for the given ids. Missing ids are omitted.
	View(ctx context.Context, ids []int64) (map[int64]types.ObjectData, error)
}

// EdgeStore persists the composite linkage table.
type EdgeStore interface {
	// ReplaceForParent deletes every edge of the given parent and inserts
	// the new set.
	ReplaceForParent(ctx context.Context, parentID int64, items []types.CompositeItem) error

	// ForParents returns every edge whose parent is in parentIDs.
	ForParents(ctx context.Context, parentIDs []int64) ([]types.CompositeItem, error)

	// ParentsOf returns the ids of every parent linking the given child.
	ParentsOf(ctx context.Context, childID int64) ([]int64, error)
}

// PropertiesStore persists per-composite display settings.
type PropertiesStore interface {
	// Replace deletes any existing properties row for the object and
	// inserts the new one.
	Replace(ctx context.Context, id int64, props types.CompositeProperties) error

	// Get returns the properties of the given composite. Returns
	// types.ErrNotFound if no row exists.
	Get(ctx context.Context, id int64) (types.CompositeProperties, error)
}

// SearchStore tracks objects whose search-index entries are stale. Marks
// become visible to the boundary consumer when the surrounding transaction
// commits.
type SearchStore interface {
	MarkPending(ctx context.Context, ids []int64) error
}

// Stores is the set of per-call store handles the engine works against.
// All handles returned by one Stores value share one transaction.
type Stores interface {
	Objects() ObjectStore

	// Data returns the type-data store for the given non-composite object
	// type, or false if the type has none.
	Data(objectType string) (DataStore, bool)

	Edges() EdgeStore
	Properties() PropertiesStore
	Search() SearchStore
}

// StoreTx is a Stores bound to an open transaction.
type StoreTx interface {
	Stores

	Commit() error
	Rollback() error
}

// StoreProvider opens the transaction each engine call runs inside.
type StoreProvider interface {
	Begin(ctx context.Context) (StoreTx, error)
}

// Authorizer decides whether the calling user may modify the given objects.
// Consulted before any delete and before returning hierarchy results. A
// denial is reported as *types.ForbiddenError naming the offending ids.
type Authorizer interface {
	AuthorizeModification(ctx context.Context, s Stores, ids []int64) error
}
