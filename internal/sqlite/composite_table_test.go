// Unit tests for the composite edge store and the properties store.
package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/binder/internal/composite"
	"github.com/mesh-intelligence/binder/pkg/types"
)

// edgeFixture creates a composite parent and two link children, returning
// the store set and the three ids.
func edgeFixture(t *testing.T) (composite.Stores, int64, int64, int64) {
	t.Helper()
	b := setupBackend(t)
	s, err := b.Stores()
	require.NoError(t, err)
	ctx := context.Background()

	parent, err := s.Objects().Add(ctx, types.ObjectAttrs{
		OwnerID: 1, ObjectType: types.ObjectTypeComposite, Name: "parent",
	})
	require.NoError(t, err)
	childA, err := s.Objects().Add(ctx, linkAttrs("child a"))
	require.NoError(t, err)
	childB, err := s.Objects().Add(ctx, linkAttrs("child b"))
	require.NoError(t, err)
	return s, parent, childA, childB
}

func edge(parent, child int64, row, col int) types.CompositeItem {
	return types.CompositeItem{
		ObjectID:                       parent,
		SubobjectID:                    child,
		Row:                            row,
		Column:                         col,
		ShowDescriptionComposite:       types.ShowDescriptionInherit,
		ShowDescriptionAsLinkComposite: types.ShowDescriptionInherit,
	}
}

func TestEdgeReplaceForParent(t *testing.T) {
	s, parent, childA, childB := edgeFixture(t)
	ctx := context.Background()

	items := []types.CompositeItem{
		edge(parent, childA, 0, 0),
		edge(parent, childB, 1, 0),
	}
	require.NoError(t, s.Edges().ReplaceForParent(ctx, parent, items))

	got, err := s.Edges().ForParents(ctx, []int64{parent})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, childA, got[0].SubobjectID)
	assert.Equal(t, childB, got[1].SubobjectID)

	t.Run("replace is idempotent", func(t *testing.T) {
		require.NoError(t, s.Edges().ReplaceForParent(ctx, parent, items))
		again, err := s.Edges().ForParents(ctx, []int64{parent})
		require.NoError(t, err)
		assert.Equal(t, got, again)
	})

	t.Run("replace with a smaller set drops edges", func(t *testing.T) {
		require.NoError(t, s.Edges().ReplaceForParent(ctx, parent, items[:1]))
		remaining, err := s.Edges().ForParents(ctx, []int64{parent})
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, childA, remaining[0].SubobjectID)
	})

	t.Run("replace with empty set clears the parent", func(t *testing.T) {
		require.NoError(t, s.Edges().ReplaceForParent(ctx, parent, nil))
		remaining, err := s.Edges().ForParents(ctx, []int64{parent})
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})
}

func TestEdgeOrdering(t *testing.T) {
	s, parent, childA, childB := edgeFixture(t)
	ctx := context.Background()

	// Insert out of grid order; ForParents sorts by row then column.
	items := []types.CompositeItem{
		edge(parent, childB, 2, 0),
		edge(parent, childA, 0, 1),
	}
	require.NoError(t, s.Edges().ReplaceForParent(ctx, parent, items))

	got, err := s.Edges().ForParents(ctx, []int64{parent})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, childA, got[0].SubobjectID)
	assert.Equal(t, childB, got[1].SubobjectID)
}

func TestEdgeParentsOf(t *testing.T) {
	s, parent, childA, _ := edgeFixture(t)
	ctx := context.Background()

	secondParent, err := s.Objects().Add(ctx, types.ObjectAttrs{
		OwnerID: 1, ObjectType: types.ObjectTypeComposite, Name: "second parent",
	})
	require.NoError(t, err)

	require.NoError(t, s.Edges().ReplaceForParent(ctx, parent, []types.CompositeItem{edge(parent, childA, 0, 0)}))
	require.NoError(t, s.Edges().ReplaceForParent(ctx, secondParent, []types.CompositeItem{edge(secondParent, childA, 0, 0)}))

	parents, err := s.Edges().ParentsOf(ctx, childA)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{parent, secondParent}, parents)

	none, err := s.Edges().ParentsOf(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEdgeCascadeOnObjectDelete(t *testing.T) {
	s, parent, childA, childB := edgeFixture(t)
	ctx := context.Background()

	items := []types.CompositeItem{
		edge(parent, childA, 0, 0),
		edge(parent, childB, 1, 0),
	}
	require.NoError(t, s.Edges().ReplaceForParent(ctx, parent, items))

	_, err := s.Objects().Delete(ctx, []int64{childA})
	require.NoError(t, err)

	remaining, err := s.Edges().ForParents(ctx, []int64{parent})
	require.NoError(t, err)
	require.Len(t, remaining, 1, "deleting a child must cascade to its edges")
	assert.Equal(t, childB, remaining[0].SubobjectID)
}

func TestCompositeProperties(t *testing.T) {
	s, parent, _, _ := edgeFixture(t)
	ctx := context.Background()

	t.Run("get before replace returns ErrNotFound", func(t *testing.T) {
		_, err := s.Properties().Get(ctx, parent)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("replace then get roundtrips", func(t *testing.T) {
		props := types.CompositeProperties{DisplayMode: types.DisplayModeChapters, NumerateChapters: true}
		require.NoError(t, s.Properties().Replace(ctx, parent, props))

		got, err := s.Properties().Get(ctx, parent)
		require.NoError(t, err)
		assert.Equal(t, props, got)
	})

	t.Run("replace overwrites the previous row", func(t *testing.T) {
		props := types.CompositeProperties{DisplayMode: types.DisplayModeBasic}
		require.NoError(t, s.Properties().Replace(ctx, parent, props))

		got, err := s.Properties().Get(ctx, parent)
		require.NoError(t, err)
		assert.Equal(t, props, got)
	})

	t.Run("unknown display mode is rejected", func(t *testing.T) {
		err := s.Properties().Replace(ctx, parent, types.CompositeProperties{DisplayMode: "mosaic"})
		assert.ErrorIs(t, err, types.ErrInvalidData)
	})
}
