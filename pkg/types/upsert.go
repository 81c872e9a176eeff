package types

import (
	"encoding/json"
	"fmt"
)

// SubobjectDescriptor describes one child of a composite parent inside an
// upsert request. It comes in three shapes:
//
//   - existing child, position only: ObjectID > 0, Attrs nil;
//   - existing child with full update: ObjectID > 0, Attrs and Data set;
//   - new child: ObjectID < 0 (a request-scoped placeholder chosen by the
//     client), Attrs, ObjectType, and Data all set.
//
// Placeholder ids are never persisted; the engine resolves them to real
// ids within the same call and reports the mapping back.
type SubobjectDescriptor struct {
	ObjectID int64 `json:"object_id"`

	Row         int  `json:"row"`
	Column      int  `json:"column"`
	SelectedTab int  `json:"selected_tab"`
	IsExpanded  bool `json:"is_expanded"`

	ShowDescriptionComposite       string `json:"show_description_composite"`
	ShowDescriptionAsLinkComposite string `json:"show_description_as_link_composite"`

	// Attrs is nil for position-only references.
	Attrs      *ObjectAttrs `json:"attributes,omitempty"`
	ObjectType string       `json:"object_type,omitempty"`
	Data       ObjectData   `json:"data,omitempty"`
}

// IsNew reports whether the descriptor creates a new object.
func (d *SubobjectDescriptor) IsNew() bool {
	return d.ObjectID < 0
}

// HasUpdate reports whether the descriptor carries attributes and data to
// write, as opposed to a position-only reference.
func (d *SubobjectDescriptor) HasUpdate() bool {
	return d.Attrs != nil
}

// Item converts the descriptor's position fields into a CompositeItem edge
// for the given parent, with the subobject id already resolved.
func (d *SubobjectDescriptor) Item(parentID, subobjectID int64) CompositeItem {
	return CompositeItem{
		ObjectID:                       parentID,
		SubobjectID:                    subobjectID,
		Row:                            d.Row,
		Column:                         d.Column,
		SelectedTab:                    d.SelectedTab,
		IsExpanded:                     d.IsExpanded,
		ShowDescriptionComposite:       d.ShowDescriptionComposite,
		ShowDescriptionAsLinkComposite: d.ShowDescriptionAsLinkComposite,
	}
}

// subobjectDescriptorWire mirrors SubobjectDescriptor with the polymorphic
// data payload left raw so it can be decoded by object type.
type subobjectDescriptorWire struct {
	ObjectID                       int64           `json:"object_id"`
	Row                            int             `json:"row"`
	Column                         int             `json:"column"`
	SelectedTab                    int             `json:"selected_tab"`
	IsExpanded                     bool            `json:"is_expanded"`
	ShowDescriptionComposite       string          `json:"show_description_composite"`
	ShowDescriptionAsLinkComposite string          `json:"show_description_as_link_composite"`
	Attrs                          *ObjectAttrs    `json:"attributes,omitempty"`
	ObjectType                     string          `json:"object_type,omitempty"`
	Data                           json.RawMessage `json:"data,omitempty"`
}

// UnmarshalJSON decodes the descriptor, dispatching the data payload to the
// concrete ObjectData type named by object_type. Tri-state flags default to
// "inherit" when omitted.
func (d *SubobjectDescriptor) UnmarshalJSON(b []byte) error {
	var w subobjectDescriptorWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.ShowDescriptionComposite == "" {
		w.ShowDescriptionComposite = ShowDescriptionInherit
	}
	if w.ShowDescriptionAsLinkComposite == "" {
		w.ShowDescriptionAsLinkComposite = ShowDescriptionInherit
	}
	*d = SubobjectDescriptor{
		ObjectID:                       w.ObjectID,
		Row:                            w.Row,
		Column:                         w.Column,
		SelectedTab:                    w.SelectedTab,
		IsExpanded:                     w.IsExpanded,
		ShowDescriptionComposite:       w.ShowDescriptionComposite,
		ShowDescriptionAsLinkComposite: w.ShowDescriptionAsLinkComposite,
		Attrs:                          w.Attrs,
		ObjectType:                     w.ObjectType,
	}
	if len(w.Data) > 0 {
		data, err := DecodeData(w.ObjectType, w.Data)
		if err != nil {
			return fmt.Errorf("subobject %d: %w", w.ObjectID, err)
		}
		d.Data = data
	}
	return nil
}

// DeletedSubobject names a child to remove from a parent. FullDelete false
// unlinks the child from this parent only; true also deletes the object
// itself if no other parent still links it.
type DeletedSubobject struct {
	ObjectID   int64 `json:"object_id"`
	FullDelete bool  `json:"is_full_delete"`
}

// ParentUpsert is one composite parent's portion of an upsert call: the
// full replacement edge set, the children to remove, and the composite's
// display properties.
type ParentUpsert struct {
	ParentID          int64                 `json:"object_id"`
	Subobjects        []SubobjectDescriptor `json:"subobjects"`
	DeletedSubobjects []DeletedSubobject    `json:"deleted_subobjects"`
	Properties        CompositeProperties   `json:"composite_properties"`
}

// IDRemapping maps request-local placeholder ids (negative) to the real ids
// assigned to the objects created during one upsert call. It is produced
// once per call and never persisted.
type IDRemapping map[int64]int64

// Resolve returns the real id for the given descriptor id: remapped for
// placeholders, unchanged for real ids.
func (m IDRemapping) Resolve(id int64) int64 {
	if real, ok := m[id]; ok {
		return real
	}
	return id
}
