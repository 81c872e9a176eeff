// This file implements upsert request validation. Every check runs before
// the engine writes anything; a violation rejects the whole call.
package composite

import (
	"fmt"

	"github.com/mesh-intelligence/binder/pkg/types"
)

// validateParent checks one parent's portion of an upsert request:
// pairwise-unique subobject ids, pairwise-unique grid positions, no overlap
// between kept and deleted ids, well-formed position fields, and a complete
// and structurally valid payload on every new-object descriptor.
func validateParent(p *types.ParentUpsert) error {
	if p.ParentID <= 0 {
		return &types.ValidationError{
			ParentID: p.ParentID,
			Field:    "object_id",
			Reason:   "parent id must be positive",
		}
	}

	if err := p.Properties.Validate(); err != nil {
		return &types.ValidationError{
			ParentID: p.ParentID,
			Field:    "composite_properties",
			Reason:   err.Error(),
		}
	}

	seenIDs := make(map[int64]bool, len(p.Subobjects))
	seenPositions := make(map[[2]int]bool, len(p.Subobjects))

	for i := range p.Subobjects {
		desc := &p.Subobjects[i]

		if desc.ObjectID == 0 {
			return &types.ValidationError{
				ParentID: p.ParentID,
				Field:    "subobjects",
				Reason:   "subobject id must not be zero",
			}
		}
		if seenIDs[desc.ObjectID] {
			return &types.ValidationError{
				ParentID: p.ParentID,
				Field:    "subobjects",
				Reason:   fmt.Sprintf("duplicate subobject id %d", desc.ObjectID),
			}
		}
		seenIDs[desc.ObjectID] = true

		pos := [2]int{desc.Row, desc.Column}
		if seenPositions[pos] {
			return &types.ValidationError{
				ParentID: p.ParentID,
				Field:    "subobjects",
				Reason:   fmt.Sprintf("duplicate position (%d, %d)", desc.Row, desc.Column),
			}
		}
		seenPositions[pos] = true

		if err := desc.Item(p.ParentID, desc.ObjectID).Validate(); err != nil {
			return &types.ValidationError{
				ParentID: p.ParentID,
				Field:    "subobjects",
				Reason:   err.Error(),
			}
		}

		if err := validateDescriptorPayload(p.ParentID, desc); err != nil {
			return err
		}
	}

	for _, del := range p.DeletedSubobjects {
		if seenIDs[del.ObjectID] {
			return &types.ValidationError{
				ParentID: p.ParentID,
				Field:    "deleted_subobjects",
				Reason:   fmt.Sprintf("object %d cannot be both kept and deleted", del.ObjectID),
			}
		}
	}

	return nil
}

// validateDescriptorPayload checks the attribute/type/data consistency of
// one descriptor. New objects must carry a complete payload and may not be
// composite; inline nesting is only possible by referencing an existing
// composite by id.
func validateDescriptorPayload(parentID int64, desc *types.SubobjectDescriptor) error {
	if desc.IsNew() {
		if desc.Attrs == nil || desc.Data == nil {
			return &types.ValidationError{
				ParentID: parentID,
				Field:    "subobjects",
				Reason:   fmt.Sprintf("new subobject %d must carry attributes and data", desc.ObjectID),
			}
		}
		if desc.ObjectType == types.ObjectTypeComposite {
			return &types.ValidationError{
				ParentID: parentID,
				Field:    "subobjects",
				Reason:   "new subobjects cannot be composite",
			}
		}
	}

	if !desc.HasUpdate() {
		if desc.Data != nil || desc.ObjectType != "" {
			return &types.ValidationError{
				ParentID: parentID,
				Field:    "subobjects",
				Reason:   fmt.Sprintf("subobject %d carries data without attributes", desc.ObjectID),
			}
		}
		return nil
	}

	if !types.ValidObjectType(desc.ObjectType) {
		return &types.ValidationError{
			ParentID: parentID,
			Field:    "subobjects",
			Reason:   fmt.Sprintf("subobject %d has unknown type %q", desc.ObjectID, desc.ObjectType),
		}
	}
	if desc.Attrs.ObjectType != desc.ObjectType {
		return &types.ValidationError{
			ParentID: parentID,
			Field:    "subobjects",
			Reason:   fmt.Sprintf("subobject %d attribute type %q does not match %q", desc.ObjectID, desc.Attrs.ObjectType, desc.ObjectType),
		}
	}
	if err := desc.Attrs.Validate(); err != nil {
		return &types.ValidationError{
			ParentID: parentID,
			Field:    "subobjects",
			Reason:   fmt.Sprintf("subobject %d: %v", desc.ObjectID, err),
		}
	}

	// Composite children never carry a data payload; their state lives in
	// their own edge and properties rows.
	if desc.ObjectType == types.ObjectTypeComposite {
		if desc.Data != nil {
			return &types.ValidationError{
				ParentID: parentID,
				Field:    "subobjects",
				Reason:   fmt.Sprintf("composite subobject %d cannot carry data", desc.ObjectID),
			}
		}
		return nil
	}

	if desc.Data == nil {
		return &types.ValidationError{
			ParentID: parentID,
			Field:    "subobjects",
			Reason:   fmt.Sprintf("subobject %d update is missing data", desc.ObjectID),
		}
	}
	if desc.Data.Type() != desc.ObjectType {
		return &types.ValidationError{
			ParentID: parentID,
			Field:    "subobjects",
			Reason:   fmt.Sprintf("subobject %d data payload is for type %q, not %q", desc.ObjectID, desc.Data.Type(), desc.ObjectType),
		}
	}
	if err := desc.Data.Validate(); err != nil {
		return &types.ValidationError{
			ParentID: parentID,
			Field:    "subobjects",
			Reason:   fmt.Sprintf("subobject %d: %v", desc.ObjectID, err),
		}
	}

	return nil
}
