package types

import "time"

// Object types. The type is fixed at creation and never changes.
const (
	ObjectTypeLink      = "link"
	ObjectTypeMarkdown  = "markdown"
	ObjectTypeToDoList  = "to_do_list"
	ObjectTypeComposite = "composite"
)

// validObjectTypes is the set of recognized object type values.
var validObjectTypes = map[string]bool{
	ObjectTypeLink:      true,
	ObjectTypeMarkdown:  true,
	ObjectTypeToDoList:  true,
	ObjectTypeComposite: true,
}

// ValidObjectType reports whether t is a recognized object type.
func ValidObjectType(t string) bool {
	return validObjectTypes[t]
}

// ObjectAttrs holds the generic per-object attributes shared by every
// object type. Object identity and timestamps are server-assigned and live
// on Object.
type ObjectAttrs struct {
	OwnerID         int64      `json:"owner_id"`
	ObjectType      string     `json:"object_type"`
	IsPublished     bool       `json:"is_published"`
	DisplayInFeed   bool       `json:"display_in_feed"`
	FeedTimestamp   *time.Time `json:"feed_timestamp,omitempty"`
	ShowDescription bool       `json:"show_description"`
	Name            string     `json:"object_name"`
	Description     string     `json:"object_description"`
}

// Validate checks the structural validity of the attributes.
func (a ObjectAttrs) Validate() error {
	if !ValidObjectType(a.ObjectType) {
		return ErrInvalidObjectType
	}
	if a.Name == "" {
		return ErrInvalidName
	}
	return nil
}

// Object is the generic persisted entity; every link, markdown note,
// to-do list, and composite is one.
type Object struct {
	ObjectID   int64     `json:"object_id"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	ObjectAttrs
}

// IsComposite reports whether the object aggregates other objects.
func (o *Object) IsComposite() bool {
	return o.ObjectType == ObjectTypeComposite
}
