package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/binder/internal/auth"
	"github.com/mesh-intelligence/binder/internal/sqlite"
	"github.com/mesh-intelligence/binder/pkg/types"
)

func setupStores(t *testing.T) (*sqlite.Backend, func() (int64, int64)) {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })

	addOwned := func() (int64, int64) {
		ctx := context.Background()
		mine, err := b.AddObject(ctx, types.ObjectAttrs{
			OwnerID: 1, ObjectType: types.ObjectTypeLink, Name: "mine",
		}, &types.LinkData{URL: "https://example.com/mine"})
		require.NoError(t, err)
		theirs, err := b.AddObject(ctx, types.ObjectAttrs{
			OwnerID: 2, ObjectType: types.ObjectTypeLink, Name: "theirs",
		}, &types.LinkData{URL: "https://example.com/theirs"})
		require.NoError(t, err)
		return mine, theirs
	}
	return b, addOwned
}

func TestServiceAuthorizeModification(t *testing.T) {
	ctx := context.Background()
	b, addOwned := setupStores(t)
	mine, theirs := addOwned()
	stores, err := b.Stores()
	require.NoError(t, err)

	svc := auth.NewService(1)

	t.Run("owned objects pass", func(t *testing.T) {
		assert.NoError(t, svc.AuthorizeModification(ctx, stores, []int64{mine}))
	})

	t.Run("foreign objects are denied", func(t *testing.T) {
		err := svc.AuthorizeModification(ctx, stores, []int64{mine, theirs})
		var forbidden *types.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, []int64{theirs}, forbidden.IDs)
	})

	t.Run("missing ids pass through", func(t *testing.T) {
		assert.NoError(t, svc.AuthorizeModification(ctx, stores, []int64{mine, 9999}))
	})

	t.Run("empty id set is permitted", func(t *testing.T) {
		assert.NoError(t, svc.AuthorizeModification(ctx, stores, nil))
	})
}

func TestAllowAll(t *testing.T) {
	ctx := context.Background()
	b, addOwned := setupStores(t)
	_, theirs := addOwned()
	stores, err := b.Stores()
	require.NoError(t, err)

	assert.NoError(t, auth.AllowAll{}.AuthorizeModification(ctx, stores, []int64{theirs}))
}
