// Package auth implements the ownership-based authorization collaborator
// consumed by the hierarchy engine.
package auth

import (
	"context"
	"sort"

	"github.com/mesh-intelligence/binder/internal/composite"
	"github.com/mesh-intelligence/binder/pkg/types"
)

// Service authorizes modifications for one user. The engine consults it
// before deleting objects and before returning hierarchy results.
type Service struct {
	userID int64
}

var _ composite.Authorizer = (*Service)(nil)

// NewService creates an authorizer acting on behalf of the given user.
func NewService(userID int64) *Service {
	return &Service{userID: userID}
}

// AuthorizeModification permits the call only if every existing object in
// ids is owned by the service's user. Ids that do not exist pass through;
// existence errors are the engine's concern. A denial names the offending
// ids in a *types.ForbiddenError.
func (s *Service) AuthorizeModification(ctx context.Context, st composite.Stores, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	objects, err := st.Objects().Fetch(ctx, ids)
	if err != nil {
		return &types.StorageError{Op: "authorize modification", Err: err}
	}

	var denied []int64
	for _, obj := range objects {
		if obj.OwnerID != s.userID {
			denied = append(denied, obj.ObjectID)
		}
	}
	if len(denied) > 0 {
		sort.Slice(denied, func(i, j int) bool { return denied[i] < denied[j] })
		return &types.ForbiddenError{IDs: denied}
	}
	return nil
}

// AllowAll is an authorizer that permits every modification. Used where
// ownership checks are handled upstream.
type AllowAll struct{}

var _ composite.Authorizer = AllowAll{}

// AuthorizeModification always permits the call.
func (AllowAll) AuthorizeModification(context.Context, composite.Stores, []int64) error {
	return nil
}
