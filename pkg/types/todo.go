package types

import "fmt"

// To-do item states.
const (
	ToDoItemActive    = "active"
	ToDoItemOptional  = "optional"
	ToDoItemCompleted = "completed"
	ToDoItemCancelled = "cancelled"
)

// validToDoItemStates is the set of recognized item state values.
var validToDoItemStates = map[string]bool{
	ToDoItemActive:    true,
	ToDoItemOptional:  true,
	ToDoItemCompleted: true,
	ToDoItemCancelled: true,
}

// To-do list sort modes.
const (
	ToDoSortDefault = "default"
	ToDoSortState   = "state"
)

// validToDoSortTypes is the set of recognized sort type values.
var validToDoSortTypes = map[string]bool{
	ToDoSortDefault: true,
	ToDoSortState:   true,
}

// ToDoItem is a single entry of a to-do list. Items nest by indent level
// and are ordered by item number within the list.
type ToDoItem struct {
	ItemNumber int    `json:"item_number"`
	ItemState  string `json:"item_state"`
	ItemText   string `json:"item_text"`
	Commentary string `json:"commentary"`
	Indent     int    `json:"indent"`
	IsExpanded bool   `json:"is_expanded"`
}

// ToDoListData is the payload of a to-do list object.
type ToDoListData struct {
	SortType string     `json:"sort_type"`
	Items    []ToDoItem `json:"items"`
}

// Type returns ObjectTypeToDoList.
func (d *ToDoListData) Type() string { return ObjectTypeToDoList }

// Validate requires a known sort type, at least one item, unique item
// numbers, known item states, and non-negative indents.
func (d *ToDoListData) Validate() error {
	if !validToDoSortTypes[d.SortType] {
		return fmt.Errorf("%w: unknown sort type %q", ErrInvalidData, d.SortType)
	}
	if len(d.Items) == 0 {
		return fmt.Errorf("%w: to-do list must have at least one item", ErrInvalidData)
	}
	seen := make(map[int]bool, len(d.Items))
	for _, item := range d.Items {
		if seen[item.ItemNumber] {
			return fmt.Errorf("%w: duplicate item number %d", ErrInvalidData, item.ItemNumber)
		}
		seen[item.ItemNumber] = true
		if !validToDoItemStates[item.ItemState] {
			return fmt.Errorf("%w: unknown item state %q", ErrInvalidData, item.ItemState)
		}
		if item.ItemText == "" {
			return fmt.Errorf("%w: item %d text must not be empty", ErrInvalidData, item.ItemNumber)
		}
		if item.Indent < 0 {
			return fmt.Errorf("%w: item %d indent must not be negative", ErrInvalidData, item.ItemNumber)
		}
	}
	return nil
}
