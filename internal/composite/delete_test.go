// Tests for deletion garbage collection: unlink versus full delete inside
// upserts, reference counting across parents, and the direct delete
// operation.
package composite_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/binder/internal/auth"
	"github.com/mesh-intelligence/binder/internal/composite"
	"github.com/mesh-intelligence/binder/internal/sqlite"
	"github.com/mesh-intelligence/binder/pkg/types"
)

// linkChild attaches child to parent via the engine.
func linkChild(t *testing.T, engine *composite.Engine, parentID int64, childIDs ...int64) {
	t.Helper()
	descs := make([]types.SubobjectDescriptor, 0, len(childIDs))
	for i, id := range childIDs {
		descs = append(descs, refDesc(id, i, 0))
	}
	_, err := engine.Upsert(context.Background(), []types.ParentUpsert{{
		ParentID:   parentID,
		Subobjects: descs,
		Properties: basicProps,
	}})
	require.NoError(t, err)
}

// objectExists reports whether the object row is still present.
func objectExists(t *testing.T, b *sqlite.Backend, id int64) bool {
	t.Helper()
	s, err := b.Stores()
	require.NoError(t, err)
	existing, err := s.Objects().Exists(context.Background(), []int64{id})
	require.NoError(t, err)
	return existing[id]
}

func TestUpsertUnlinkOnly(t *testing.T) {
	engine, b := newTestEngine(t)
	ctx := context.Background()
	parent := addComposite(t, b, "parent")
	child := addLink(t, b, "child")
	linkChild(t, engine, parent, child)

	_, err := engine.Upsert(ctx, []types.ParentUpsert{{
		ParentID:          parent,
		DeletedSubobjects: []types.DeletedSubobject{{ObjectID: child, FullDelete: false}},
		Properties:        basicProps,
	}})
	require.NoError(t, err)

	assert.Empty(t, parentEdges(t, b, parent))
	assert.True(t, objectExists(t, b, child), "unlink must not delete the object")
}

func TestUpsertFullDeleteExclusiveChild(t *testing.T) {
	engine, b := newTestEngine(t)
	ctx := context.Background()
	parent := addComposite(t, b, "parent")
	child := addLink(t, b, "child")
	linkChild(t, engine, parent, child)

	_, err := engine.Upsert(ctx, []types.ParentUpsert{{
		ParentID:          parent,
		DeletedSubobjects: []types.DeletedSubobject{{ObjectID: child, FullDelete: true}},
		Properties:        basicProps,
	}})
	require.NoError(t, err)

	assert.Empty(t, parentEdges(t, b, parent))
	assert.False(t, objectExists(t, b, child), "exclusively held child must be deleted")
}

func TestUpsertFullDeleteSharedChildSurvives(t *testing.T) {
	engine, b := newTestEngine(t)
	ctx := context.Background()
	parentA := addComposite(t, b, "parent a")
	parentB := addComposite(t, b, "parent b")
	child := addLink(t, b, "shared child")
	linkChild(t, engine, parentA, child)
	linkChild(t, engine, parentB, child)

	// Parent A asks for a full delete, but parent B still links the child.
	_, err := engine.Upsert(ctx, []types.ParentUpsert{{
		ParentID:          parentA,
		DeletedSubobjects: []types.DeletedSubobject{{ObjectID: child, FullDelete: true}},
		Properties:        basicProps,
	}})
	require.NoError(t, err)

	assert.Empty(t, parentEdges(t, b, parentA))
	require.Len(t, parentEdges(t, b, parentB), 1)
	assert.True(t, objectExists(t, b, child), "child linked elsewhere survives a full delete")
}

func TestUpsertFullDeleteAcrossParentsInOneCall(t *testing.T) {
	engine, b := newTestEngine(t)
	ctx := context.Background()
	parentA := addComposite(t, b, "parent a")
	parentB := addComposite(t, b, "parent b")
	child := addLink(t, b, "doomed child")
	linkChild(t, engine, parentA, child)
	linkChild(t, engine, parentB, child)

	// Both linking parents drop the child in the same call, so no referrer
	// outside the call remains and the object goes.
	_, err := engine.Upsert(ctx, []types.ParentUpsert{
		{
			ParentID:          parentA,
			DeletedSubobjects: []types.DeletedSubobject{{ObjectID: child, FullDelete: true}},
			Properties:        basicProps,
		},
		{
			ParentID:          parentB,
			DeletedSubobjects: []types.DeletedSubobject{{ObjectID: child, FullDelete: false}},
			Properties:        basicProps,
		},
	})
	require.NoError(t, err)

	assert.False(t, objectExists(t, b, child))
}

func TestDelete(t *testing.T) {
	t.Run("deletes named objects", func(t *testing.T) {
		engine, b := newTestEngine(t)
		link := addLink(t, b, "to delete")

		deleted, err := engine.Delete(context.Background(), []int64{link}, false)
		require.NoError(t, err)
		assert.Equal(t, []int64{link}, deleted)
		assert.False(t, objectExists(t, b, link))
	})

	t.Run("missing ids are reported", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		_, err := engine.Delete(context.Background(), []int64{9999}, false)

		var notFound *types.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, []int64{9999}, notFound.IDs)
	})

	t.Run("empty id set is a no-op", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		deleted, err := engine.Delete(context.Background(), nil, false)
		require.NoError(t, err)
		assert.Empty(t, deleted)
	})

	t.Run("without subobjects children survive", func(t *testing.T) {
		engine, b := newTestEngine(t)
		parent := addComposite(t, b, "parent")
		child := addLink(t, b, "child")
		linkChild(t, engine, parent, child)

		deleted, err := engine.Delete(context.Background(), []int64{parent}, false)
		require.NoError(t, err)
		assert.Equal(t, []int64{parent}, deleted)
		assert.True(t, objectExists(t, b, child))
	})

	t.Run("with subobjects exclusive children go too", func(t *testing.T) {
		engine, b := newTestEngine(t)
		parent := addComposite(t, b, "parent")
		exclusive := addLink(t, b, "exclusive")
		shared := addLink(t, b, "shared")
		other := addComposite(t, b, "other")
		linkChild(t, engine, parent, exclusive, shared)
		linkChild(t, engine, other, shared)

		deleted, err := engine.Delete(context.Background(), []int64{parent}, true)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{parent, exclusive}, deleted)
		assert.False(t, objectExists(t, b, exclusive))
		assert.True(t, objectExists(t, b, shared), "shared child survives")
	})

	t.Run("deletion is not recursive", func(t *testing.T) {
		engine, b := newTestEngine(t)
		top := addComposite(t, b, "top")
		middle := addComposite(t, b, "middle")
		leaf := addLink(t, b, "leaf")
		linkChild(t, engine, top, middle)
		linkChild(t, engine, middle, leaf)

		deleted, err := engine.Delete(context.Background(), []int64{top}, true)
		require.NoError(t, err)

		// The middle composite is an exclusive child and goes, but its own
		// children are not followed.
		assert.ElementsMatch(t, []int64{top, middle}, deleted)
		assert.True(t, objectExists(t, b, leaf))
	})
}

func TestDeleteAuthorization(t *testing.T) {
	ctx := context.Background()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })

	mine, err := b.AddObject(ctx, types.ObjectAttrs{
		OwnerID: 1, ObjectType: types.ObjectTypeLink, Name: "mine",
	}, &types.LinkData{URL: "https://example.com/mine"})
	require.NoError(t, err)
	theirs, err := b.AddObject(ctx, types.ObjectAttrs{
		OwnerID: 2, ObjectType: types.ObjectTypeLink, Name: "theirs",
	}, &types.LinkData{URL: "https://example.com/theirs"})
	require.NoError(t, err)

	engine := composite.NewEngine(b, auth.NewService(1), 10, zerolog.Nop())

	_, err = engine.Delete(ctx, []int64{mine, theirs}, false)
	var forbidden *types.ForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, []int64{theirs}, forbidden.IDs)

	// Denial aborts the whole call, the owned object included.
	s, serr := b.Stores()
	require.NoError(t, serr)
	existing, eerr := s.Objects().Exists(ctx, []int64{mine, theirs})
	require.NoError(t, eerr)
	assert.True(t, existing[mine])
	assert.True(t, existing[theirs])
}
