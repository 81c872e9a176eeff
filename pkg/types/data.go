package types

import (
	"encoding/json"
	"fmt"
)

// ObjectData is the type-specific payload of a non-composite object.
// Each object type has exactly one concrete implementation.
type ObjectData interface {
	// Type returns the object type this data belongs to.
	Type() string

	// Validate checks structural validity of the payload.
	Validate() error
}

// LinkData is the payload of a link object.
type LinkData struct {
	URL string `json:"link"`
}

// Type returns ObjectTypeLink.
func (d *LinkData) Type() string { return ObjectTypeLink }

// Validate requires a non-empty URL.
func (d *LinkData) Validate() error {
	if d.URL == "" {
		return fmt.Errorf("%w: link URL must not be empty", ErrInvalidData)
	}
	return nil
}

// MarkdownData is the payload of a markdown object.
type MarkdownData struct {
	RawText string `json:"raw_text"`
}

// Type returns ObjectTypeMarkdown.
func (d *MarkdownData) Type() string { return ObjectTypeMarkdown }

// Validate requires non-empty markdown source.
func (d *MarkdownData) Validate() error {
	if d.RawText == "" {
		return fmt.Errorf("%w: raw text must not be empty", ErrInvalidData)
	}
	return nil
}

// DecodeData parses a raw JSON payload into the concrete ObjectData for the
// given object type. Composite objects carry no inline data payload and are
// rejected here; composites are only ever referenced by id.
func DecodeData(objectType string, raw json.RawMessage) (ObjectData, error) {
	var data ObjectData
	switch objectType {
	case ObjectTypeLink:
		data = &LinkData{}
	case ObjectTypeMarkdown:
		data = &MarkdownData{}
	case ObjectTypeToDoList:
		data = &ToDoListData{}
	case ObjectTypeComposite:
		return nil, fmt.Errorf("%w: composite objects carry no data payload", ErrInvalidData)
	default:
		return nil, ErrInvalidObjectType
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("decoding %s data: %w", objectType, err)
	}
	return data, nil
}
