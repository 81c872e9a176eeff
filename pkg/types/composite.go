package types

import "fmt"

// Composite display modes.
const (
	DisplayModeBasic        = "basic"
	DisplayModeGroupedLinks = "grouped_links"
	DisplayModeMulticolumn  = "multicolumn"
	DisplayModeChapters     = "chapters"
)

// validDisplayModes is the set of recognized display mode values.
var validDisplayModes = map[string]bool{
	DisplayModeBasic:        true,
	DisplayModeGroupedLinks: true,
	DisplayModeMulticolumn:  true,
	DisplayModeChapters:     true,
}

// Tri-state per-edge description display values. "inherit" defers to the
// child object's own show_description setting.
const (
	ShowDescriptionYes     = "yes"
	ShowDescriptionNo      = "no"
	ShowDescriptionInherit = "inherit"
)

// validShowDescription is the set of recognized tri-state values.
var validShowDescription = map[string]bool{
	ShowDescriptionYes:     true,
	ShowDescriptionNo:      true,
	ShowDescriptionInherit: true,
}

// ValidShowDescription reports whether v is a recognized tri-state value.
func ValidShowDescription(v string) bool {
	return validShowDescription[v]
}

// CompositeProperties holds per-composite display settings. The row is 1:1
// with a composite object and is always fully replaced on upsert, never
// partially patched.
type CompositeProperties struct {
	DisplayMode      string `json:"display_mode"`
	NumerateChapters bool   `json:"numerate_chapters"`
}

// Validate requires a known display mode.
func (p CompositeProperties) Validate() error {
	if !validDisplayModes[p.DisplayMode] {
		return fmt.Errorf("%w: unknown display mode %q", ErrInvalidData, p.DisplayMode)
	}
	return nil
}

// CompositeItem is an edge of the composite hierarchy: one positioned child
// inside one parent. A single child may be linked from multiple parents;
// within one parent, subobject ids and (row, column) pairs are unique.
type CompositeItem struct {
	ObjectID    int64 `json:"object_id"`
	SubobjectID int64 `json:"subobject_id"`
	Row         int   `json:"row"`
	Column      int   `json:"column"`
	SelectedTab int   `json:"selected_tab"`
	IsExpanded  bool  `json:"is_expanded"`

	ShowDescriptionComposite       string `json:"show_description_composite"`
	ShowDescriptionAsLinkComposite string `json:"show_description_as_link_composite"`
}

// Validate checks positions, tab selection, and the tri-state flags.
func (it CompositeItem) Validate() error {
	if it.Row < 0 || it.Column < 0 {
		return fmt.Errorf("%w: row and column must not be negative", ErrInvalidData)
	}
	if it.SelectedTab < 0 {
		return fmt.Errorf("%w: selected tab must not be negative", ErrInvalidData)
	}
	if !validShowDescription[it.ShowDescriptionComposite] {
		return fmt.Errorf("%w: unknown show_description_composite %q", ErrInvalidData, it.ShowDescriptionComposite)
	}
	if !validShowDescription[it.ShowDescriptionAsLinkComposite] {
		return fmt.Errorf("%w: unknown show_description_as_link_composite %q", ErrInvalidData, it.ShowDescriptionAsLinkComposite)
	}
	return nil
}

// SubtreeResult partitions the objects discovered under a composite root by
// whether they are themselves composite.
type SubtreeResult struct {
	CompositeIDs    []int64 `json:"composite_ids"`
	NonCompositeIDs []int64 `json:"non_composite_ids"`
}
