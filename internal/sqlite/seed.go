// This file implements sample-workspace seeding for first-run setups: one
// object of each type plus a composite linking them.
package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/binder/pkg/types"
)

// seedOwnerID owns the sample objects created by Seed.
const seedOwnerID = 1

// Seed creates a small sample workspace in one transaction: a link, a
// markdown note, a to-do list, and a composite aggregating all three.
// Returns the composite's id. Seeding an already populated database is
// rejected.
func (b *Backend) Seed(ctx context.Context) (int64, error) {
	b.mu.RLock()
	if !b.attached {
		b.mu.RUnlock()
		return 0, types.ErrBackendDetached
	}
	var count int
	err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM objects").Scan(&count)
	b.mu.RUnlock()
	if err != nil {
		return 0, fmt.Errorf("checking for existing objects: %w", err)
	}
	if count > 0 {
		return 0, fmt.Errorf("database is not empty, refusing to seed")
	}

	st, err := b.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer st.Rollback()

	linkID, err := st.Objects().Add(ctx, types.ObjectAttrs{
		OwnerID:     seedOwnerID,
		ObjectType:  types.ObjectTypeLink,
		Name:        "Binder repository",
		Description: "Where this tool lives",
	})
	if err != nil {
		return 0, err
	}
	linkStore, _ := st.Data(types.ObjectTypeLink)
	if err := linkStore.Add(ctx, linkID, &types.LinkData{URL: "https://github.com/mesh-intelligence/binder"}); err != nil {
		return 0, err
	}

	noteID, err := st.Objects().Add(ctx, types.ObjectAttrs{
		OwnerID:     seedOwnerID,
		ObjectType:  types.ObjectTypeMarkdown,
		Name:        "Welcome",
		Description: "A first note",
	})
	if err != nil {
		return 0, err
	}
	mdStore, _ := st.Data(types.ObjectTypeMarkdown)
	if err := mdStore.Add(ctx, noteID, &types.MarkdownData{RawText: "# Welcome to Binder\n\nCollect links, notes, and lists."}); err != nil {
		return 0, err
	}

	listID, err := st.Objects().Add(ctx, types.ObjectAttrs{
		OwnerID:    seedOwnerID,
		ObjectType: types.ObjectTypeToDoList,
		Name:       "Getting started",
	})
	if err != nil {
		return 0, err
	}
	todoStore, _ := st.Data(types.ObjectTypeToDoList)
	if err := todoStore.Add(ctx, listID, &types.ToDoListData{
		SortType: types.ToDoSortDefault,
		Items: []types.ToDoItem{
			{ItemNumber: 0, ItemState: types.ToDoItemActive, ItemText: "Add your first link", IsExpanded: true},
			{ItemNumber: 1, ItemState: types.ToDoItemActive, ItemText: "Write a note", IsExpanded: true},
		},
	}); err != nil {
		return 0, err
	}

	rootID, err := st.Objects().Add(ctx, types.ObjectAttrs{
		OwnerID:     seedOwnerID,
		ObjectType:  types.ObjectTypeComposite,
		Name:        "Start here",
		Description: "Sample workspace",
	})
	if err != nil {
		return 0, err
	}
	if err := st.Properties().Replace(ctx, rootID, types.CompositeProperties{
		DisplayMode: types.DisplayModeBasic,
	}); err != nil {
		return 0, err
	}

	items := []types.CompositeItem{
		{ObjectID: rootID, SubobjectID: noteID, Row: 0, Column: 0, IsExpanded: true,
			ShowDescriptionComposite: types.ShowDescriptionInherit, ShowDescriptionAsLinkComposite: types.ShowDescriptionInherit},
		{ObjectID: rootID, SubobjectID: linkID, Row: 1, Column: 0, IsExpanded: true,
			ShowDescriptionComposite: types.ShowDescriptionInherit, ShowDescriptionAsLinkComposite: types.ShowDescriptionInherit},
		{ObjectID: rootID, SubobjectID: listID, Row: 1, Column: 1, IsExpanded: true,
			ShowDescriptionComposite: types.ShowDescriptionInherit, ShowDescriptionAsLinkComposite: types.ShowDescriptionInherit},
	}
	if err := st.Edges().ReplaceForParent(ctx, rootID, items); err != nil {
		return 0, err
	}

	if err := st.Search().MarkPending(ctx, []int64{linkID, noteID, listID, rootID}); err != nil {
		return 0, err
	}

	if err := st.Commit(); err != nil {
		return 0, fmt.Errorf("committing seed: %w", err)
	}
	return rootID, nil
}
