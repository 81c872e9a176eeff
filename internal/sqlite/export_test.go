// Unit tests for JSONL snapshot export and import.
package sqlite

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundtrip(t *testing.T) {
	ctx := context.Background()
	source := setupBackend(t)

	rootID, err := source.Seed(ctx)
	require.NoError(t, err)

	snapshotDir := filepath.Join(t.TempDir(), "snapshot")
	require.NoError(t, source.ExportJSONL(ctx, snapshotDir))

	t.Run("snapshot has a manifest and one file per table", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(snapshotDir, manifestFileName))
		require.NoError(t, err)

		var manifest snapshotManifest
		require.NoError(t, json.Unmarshal(data, &manifest))
		assert.NotEmpty(t, manifest.SnapshotID)
		assert.Equal(t, exportTables, manifest.Tables)

		for _, table := range exportTables {
			_, err := os.Stat(filepath.Join(snapshotDir, table+".jsonl"))
			assert.NoError(t, err, "missing %s.jsonl", table)
		}
	})

	t.Run("import restores objects, data, and edges", func(t *testing.T) {
		dest := setupBackend(t)
		require.NoError(t, dest.ImportJSONL(ctx, snapshotDir))

		obj, _, err := dest.GetObject(ctx, rootID)
		require.NoError(t, err)
		assert.True(t, obj.IsComposite())
		assert.Equal(t, "Start here", obj.Name)

		s, err := dest.Stores()
		require.NoError(t, err)
		edges, err := s.Edges().ForParents(ctx, []int64{rootID})
		require.NoError(t, err)
		assert.Len(t, edges, 3)

		sourceObjects, err := source.ListObjects(ctx, "")
		require.NoError(t, err)
		destObjects, err := dest.ListObjects(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, len(sourceObjects), len(destObjects))
	})

	t.Run("import into a populated store replaces matching rows", func(t *testing.T) {
		dest := setupBackend(t)
		require.NoError(t, dest.ImportJSONL(ctx, snapshotDir))
		require.NoError(t, dest.ImportJSONL(ctx, snapshotDir))

		objects, err := dest.ListObjects(ctx, "")
		require.NoError(t, err)
		assert.Len(t, objects, 4, "re-import must not duplicate rows")
	})

	t.Run("missing table files are skipped", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(snapshotDir, "search_pending.jsonl")))

		dest := setupBackend(t)
		require.NoError(t, dest.ImportJSONL(ctx, snapshotDir))
	})
}

func TestWriteReadJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	records := []json.RawMessage{
		json.RawMessage(`{"a": 1}`),
		json.RawMessage(`{"b": 2}`),
	}
	require.NoError(t, writeJSONL(path, records))

	got, err := readJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReadJSONLSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.jsonl")
	content := "{\"ok\": true}\nnot json\n\n{\"also\": \"ok\"}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := readJSONL(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
