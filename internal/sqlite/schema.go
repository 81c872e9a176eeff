// Package sqlite implements the SQLite storage backend for Binder.
package sqlite

// Schema DDL for all tables. AUTOINCREMENT on objects keeps ids
// monotonically issued; deleted ids are never reused. Foreign keys from
// every type-data table and from both composite edge columns cascade on
// delete, so removing an object automatically removes its type data and
// every edge where it appears as parent or child.
const (
	createObjects = `CREATE TABLE objects (
    object_id INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id INTEGER NOT NULL,
    object_type TEXT NOT NULL,
    is_published INTEGER NOT NULL DEFAULT 0,
    display_in_feed INTEGER NOT NULL DEFAULT 0,
    feed_timestamp TEXT,
    show_description INTEGER NOT NULL DEFAULT 0,
    object_name TEXT NOT NULL,
    object_description TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    modified_at TEXT NOT NULL
);`

	createLinks = `CREATE TABLE links (
    object_id INTEGER PRIMARY KEY,
    link TEXT NOT NULL,
    FOREIGN KEY (object_id) REFERENCES objects(object_id) ON DELETE CASCADE
);`

	createMarkdown = `CREATE TABLE markdown (
    object_id INTEGER PRIMARY KEY,
    raw_text TEXT NOT NULL,
    FOREIGN KEY (object_id) REFERENCES objects(object_id) ON DELETE CASCADE
);`

	createToDoLists = `CREATE TABLE to_do_lists (
    object_id INTEGER PRIMARY KEY,
    sort_type TEXT NOT NULL,
    FOREIGN KEY (object_id) REFERENCES objects(object_id) ON DELETE CASCADE
);`

	createToDoItems = `CREATE TABLE to_do_items (
    object_id INTEGER NOT NULL,
    item_number INTEGER NOT NULL,
    item_state TEXT NOT NULL,
    item_text TEXT NOT NULL,
    commentary TEXT NOT NULL DEFAULT '',
    indent INTEGER NOT NULL DEFAULT 0,
    is_expanded INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (object_id, item_number),
    FOREIGN KEY (object_id) REFERENCES objects(object_id) ON DELETE CASCADE
);`

	createComposite = `CREATE TABLE composite (
    object_id INTEGER NOT NULL,
    subobject_id INTEGER NOT NULL,
    "row" INTEGER NOT NULL,
    "column" INTEGER NOT NULL,
    selected_tab INTEGER NOT NULL DEFAULT 0,
    is_expanded INTEGER NOT NULL DEFAULT 1,
    show_description_composite TEXT NOT NULL DEFAULT 'inherit',
    show_description_as_link_composite TEXT NOT NULL DEFAULT 'inherit',
    FOREIGN KEY (object_id) REFERENCES objects(object_id) ON DELETE CASCADE,
    FOREIGN KEY (subobject_id) REFERENCES objects(object_id) ON DELETE CASCADE
);`

	createCompositeProperties = `CREATE TABLE composite_properties (
    object_id INTEGER PRIMARY KEY,
    display_mode TEXT NOT NULL,
    numerate_chapters INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (object_id) REFERENCES objects(object_id) ON DELETE CASCADE
);`

	createSearchPending = `CREATE TABLE search_pending (
    object_id INTEGER PRIMARY KEY,
    marked_at TEXT NOT NULL,
    FOREIGN KEY (object_id) REFERENCES objects(object_id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxObjectsType     = `CREATE INDEX idx_objects_type ON objects(object_type);`
	idxObjectsOwner    = `CREATE INDEX idx_objects_owner ON objects(owner_id);`
	idxCompositeParent = `CREATE INDEX idx_composite_parent ON composite(object_id);`
	idxCompositeChild  = `CREATE INDEX idx_composite_child ON composite(subobject_id);`
	idxToDoItemsObject = `CREATE INDEX idx_to_do_items_object ON to_do_items(object_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createObjects,
	createLinks,
	createMarkdown,
	createToDoLists,
	createToDoItems,
	createComposite,
	createCompositeProperties,
	createSearchPending,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxObjectsType,
	idxObjectsOwner,
	idxCompositeParent,
	idxCompositeChild,
	idxToDoItemsObject,
}
