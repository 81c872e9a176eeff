// Unit tests for the generic object attribute store.
package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/binder/internal/composite"
	"github.com/mesh-intelligence/binder/pkg/types"
)

// testObjects returns the object store of an attached test backend.
func testObjects(t *testing.T) composite.ObjectStore {
	t.Helper()
	b := setupBackend(t)
	s, err := b.Stores()
	require.NoError(t, err)
	return s.Objects()
}

func linkAttrs(name string) types.ObjectAttrs {
	return types.ObjectAttrs{OwnerID: 1, ObjectType: types.ObjectTypeLink, Name: name}
}

func TestObjectsAdd(t *testing.T) {
	objects := testObjects(t)
	ctx := context.Background()

	t.Run("add assigns a positive id and stores attributes", func(t *testing.T) {
		ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		id, err := objects.Add(ctx, types.ObjectAttrs{
			OwnerID:       7,
			ObjectType:    types.ObjectTypeLink,
			IsPublished:   true,
			DisplayInFeed: true,
			FeedTimestamp: &ts,
			Name:          "Go homepage",
			Description:   "The Go project",
		})
		require.NoError(t, err)
		assert.Greater(t, id, int64(0))

		fetched, err := objects.Fetch(ctx, []int64{id})
		require.NoError(t, err)
		require.Len(t, fetched, 1)

		got := fetched[0]
		assert.Equal(t, id, got.ObjectID)
		assert.Equal(t, int64(7), got.OwnerID)
		assert.True(t, got.IsPublished)
		assert.True(t, got.DisplayInFeed)
		require.NotNil(t, got.FeedTimestamp)
		assert.True(t, ts.Equal(*got.FeedTimestamp))
		assert.Equal(t, "Go homepage", got.Name)
		assert.False(t, got.CreatedAt.IsZero())
		assert.False(t, got.ModifiedAt.IsZero())
	})

	t.Run("invalid attributes are rejected", func(t *testing.T) {
		_, err := objects.Add(ctx, types.ObjectAttrs{OwnerID: 1, ObjectType: "video", Name: "x"})
		assert.ErrorIs(t, err, types.ErrInvalidObjectType)

		_, err = objects.Add(ctx, types.ObjectAttrs{OwnerID: 1, ObjectType: types.ObjectTypeLink})
		assert.ErrorIs(t, err, types.ErrInvalidName)
	})
}

func TestObjectsAddBatch(t *testing.T) {
	objects := testObjects(t)
	ctx := context.Background()

	attrs := []types.ObjectAttrs{
		linkAttrs("first"), linkAttrs("second"), linkAttrs("third"),
	}
	ids, err := objects.AddBatch(ctx, attrs)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	// Ids ascend with insertion order; the engine's placeholder mapping
	// depends on this.
	assert.Less(t, ids[0], ids[1])
	assert.Less(t, ids[1], ids[2])

	fetched, err := objects.Fetch(ctx, ids)
	require.NoError(t, err)
	require.Len(t, fetched, 3)
	assert.Equal(t, "first", fetched[0].Name)
	assert.Equal(t, "third", fetched[2].Name)
}

func TestObjectsUpdate(t *testing.T) {
	objects := testObjects(t)
	ctx := context.Background()

	id, err := objects.Add(ctx, linkAttrs("before"))
	require.NoError(t, err)

	t.Run("update rewrites attributes", func(t *testing.T) {
		attrs := linkAttrs("after")
		attrs.IsPublished = true
		require.NoError(t, objects.Update(ctx, id, attrs))

		fetched, err := objects.Fetch(ctx, []int64{id})
		require.NoError(t, err)
		require.Len(t, fetched, 1)
		assert.Equal(t, "after", fetched[0].Name)
		assert.True(t, fetched[0].IsPublished)
	})

	t.Run("object type is immutable", func(t *testing.T) {
		attrs := types.ObjectAttrs{OwnerID: 1, ObjectType: types.ObjectTypeMarkdown, Name: "after"}
		err := objects.Update(ctx, id, attrs)
		assert.ErrorIs(t, err, types.ErrTypeImmutable)
	})

	t.Run("missing object returns ErrNotFound", func(t *testing.T) {
		err := objects.Update(ctx, 9999, linkAttrs("nobody"))
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("non-positive id returns ErrInvalidID", func(t *testing.T) {
		err := objects.Update(ctx, 0, linkAttrs("zero"))
		assert.ErrorIs(t, err, types.ErrInvalidID)
	})
}

func TestObjectsDelete(t *testing.T) {
	objects := testObjects(t)
	ctx := context.Background()

	id1, err := objects.Add(ctx, linkAttrs("one"))
	require.NoError(t, err)
	id2, err := objects.Add(ctx, linkAttrs("two"))
	require.NoError(t, err)

	deleted, err := objects.Delete(ctx, []int64{id1, 9999})
	require.NoError(t, err)
	assert.Equal(t, []int64{id1}, deleted, "only existing ids are reported deleted")

	existing, err := objects.Exists(ctx, []int64{id1, id2})
	require.NoError(t, err)
	assert.False(t, existing[id1])
	assert.True(t, existing[id2])

	deleted, err = objects.Delete(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestObjectsTypes(t *testing.T) {
	objects := testObjects(t)
	ctx := context.Background()

	linkID, err := objects.Add(ctx, linkAttrs("a link"))
	require.NoError(t, err)
	compID, err := objects.Add(ctx, types.ObjectAttrs{
		OwnerID: 1, ObjectType: types.ObjectTypeComposite, Name: "a page",
	})
	require.NoError(t, err)

	got, err := objects.Types(ctx, []int64{linkID, compID, 9999})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{
		linkID: types.ObjectTypeLink,
		compID: types.ObjectTypeComposite,
	}, got)
}
