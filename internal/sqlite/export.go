// This file implements JSONL snapshot export and import: every table
// written to (or restored from) one <table>.jsonl file, plus a manifest
// identifying the snapshot.
package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/binder/pkg/types"
)

// exportTables lists every table in dependency order, so an import can
// insert parent rows before the rows referencing them.
var exportTables = []string{
	"objects",
	"links",
	"markdown",
	"to_do_lists",
	"to_do_items",
	"composite",
	"composite_properties",
	"search_pending",
}

// manifestFileName identifies a snapshot directory.
const manifestFileName = "manifest.json"

// snapshotManifest describes one exported snapshot.
type snapshotManifest struct {
	SnapshotID string   `json:"snapshot_id"`
	ExportedAt string   `json:"exported_at"`
	Tables     []string `json:"tables"`
}

// ExportJSONL snapshots every table to <table>.jsonl under dir using the
// atomic write pattern, and writes a manifest naming the snapshot.
func (b *Backend) ExportJSONL(ctx context.Context, dir string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrBackendDetached
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	for _, table := range exportTables {
		records, err := b.tableRecords(ctx, table)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, table+".jsonl")
		if err := writeJSONL(path, records); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	manifest := snapshotManifest{
		SnapshotID: uuid.NewString(),
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Tables:     exportTables,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFileName), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ImportJSONL loads table snapshots from dir into the database. The import
// runs in one transaction; a missing table file is skipped, a malformed row
// aborts the whole import.
func (b *Backend) ImportJSONL(ctx context.Context, dir string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrBackendDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range exportTables {
		path := filepath.Join(dir, table+".jsonl")
		records, err := readJSONL(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}

		for _, rec := range records {
			row := make(map[string]any)
			if err := json.Unmarshal(rec, &row); err != nil {
				return fmt.Errorf("parsing %s record: %w", table, err)
			}
			if err := insertRow(ctx, tx, table, row); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

// insertRow builds an INSERT from the record's column names. Column names
// are quoted because the composite table uses the reserved words "row" and
// "column".
func insertRow(ctx context.Context, q dbtx, table string, row map[string]any) error {
	if len(row) == 0 {
		return nil
	}
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	// Stable order keeps generated statements deterministic.
	sort.Strings(cols)

	quoted := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		quoted[i] = `"` + col + `"`
		args[i] = row[col]
	}

	query := fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table, strings.Join(quoted, ", "), inPlaceholders(len(cols)),
	)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("importing %s row: %w", table, err)
	}
	return nil
}

// tableRecords reads all rows of one table into generic JSON records.
func (b *Backend) tableRecords(ctx context.Context, table string) ([]json.RawMessage, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("querying %s for export: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("getting columns for %s: %w", table, err)
	}

	var records []json.RawMessage
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		rec := make(map[string]any, len(cols))
		for i, col := range cols {
			rec[col] = values[i]
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s row: %w", table, err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s for export: %w", table, err)
	}
	return records, nil
}
