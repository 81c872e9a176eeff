// This file implements the Backend lifecycle: attach, detach, and
// transaction handout.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/binder/internal/composite"
	"github.com/mesh-intelligence/binder/pkg/types"
)

// DBFileName is the SQLite database file created under the data directory.
const DBFileName = "binder.db"

// dbtx is the subset of database/sql methods shared by *sql.DB and *sql.Tx.
// Every store runs against a dbtx, so the engine can bind the whole store
// set to one transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Backend owns the SQLite database and hands out store sets, either bound
// to the pooled connection for direct reads or to a transaction for engine
// calls.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      zerolog.Logger
}

// Compile-time check: Backend provides the engine's transactions.
var _ composite.StoreProvider = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize. Logging is off until
// SetLogger is called.
func NewBackend() *Backend {
	return &Backend{log: zerolog.Nop()}
}

// SetLogger routes backend diagnostics to the given logger.
func (b *Backend) SetLogger(log zerolog.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = log
}

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist, opens the database with foreign keys
// enforced, and creates the schema on first run.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The _pragma DSN parameters apply to every pooled connection; edge and
	// type-data cleanup relies on foreign_keys being on everywhere.
	dbPath := filepath.Join(dataDir, DBFileName)
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return fmt.Errorf("initializing schema: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	b.log.Debug().Str("db", dbPath).Msg("backend attached")

	return nil
}

// Detach releases the database connection. After Detach, all operations
// return ErrBackendDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// Config returns the configuration the backend was attached with.
func (b *Backend) Config() types.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config
}

// Stores returns a store set bound to the pooled connection, for direct
// reads and single-store writes outside an engine call.
func (b *Backend) Stores() (composite.Stores, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return storeSet{q: b.db}, nil
}

// Begin opens a transaction and returns a store set bound to it. The
// transaction is tied to ctx: cancellation mid-call rolls it back.
func (b *Backend) Begin(ctx context.Context) (composite.StoreTx, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &storeTx{storeSet: storeSet{q: tx}, tx: tx}, nil
}

// initSchema creates all tables and indexes on first run. An existing
// objects table means the schema is already in place.
func initSchema(db *sql.DB) error {
	var name string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'objects'",
	).Scan(&name)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking schema: %w", err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// storeSet binds every store to one dbtx.
type storeSet struct {
	q dbtx
}

var _ composite.Stores = storeSet{}

// Objects returns the generic object attribute store.
func (s storeSet) Objects() composite.ObjectStore {
	return &objectsStore{q: s.q}
}

// Data returns the type-data store for the given object type. Composite
// objects have no type-data table; their state lives in the edge and
// properties tables.
func (s storeSet) Data(objectType string) (composite.DataStore, bool) {
	switch objectType {
	case types.ObjectTypeLink:
		return &linkDataStore{q: s.q}, true
	case types.ObjectTypeMarkdown:
		return &markdownStore{q: s.q}, true
	case types.ObjectTypeToDoList:
		return &toDoStore{q: s.q}, true
	default:
		return nil, false
	}
}

// Edges returns the composite linkage store.
func (s storeSet) Edges() composite.EdgeStore {
	return &compositeStore{q: s.q}
}

// Properties returns the composite display-properties store.
func (s storeSet) Properties() composite.PropertiesStore {
	return &compositePropertiesStore{q: s.q}
}

// Search returns the pending search-index tracker.
func (s storeSet) Search() composite.SearchStore {
	return &searchPendingStore{q: s.q}
}

// storeTx is a storeSet bound to an open transaction.
type storeTx struct {
	storeSet
	tx *sql.Tx
}

var _ composite.StoreTx = (*storeTx)(nil)

func (t *storeTx) Commit() error   { return t.tx.Commit() }
func (t *storeTx) Rollback() error { return t.tx.Rollback() }
