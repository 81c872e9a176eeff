// This file implements the pending search-index tracker. Engine calls mark
// touched objects inside their own transaction; a boundary process drains
// the marks after commit and refreshes the external index.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/binder/internal/composite"
)

var _ composite.SearchStore = (*searchPendingStore)(nil)

type searchPendingStore struct {
	q dbtx
}

// MarkPending records the given objects as needing a search-index refresh.
// Re-marking an already pending object refreshes its timestamp.
func (s *searchPendingStore) MarkPending(ctx context.Context, ids []int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	for _, id := range ids {
		if _, err := s.q.ExecContext(ctx,
			"INSERT OR REPLACE INTO search_pending (object_id, marked_at) VALUES (?, ?)",
			id, now,
		); err != nil {
			return fmt.Errorf("marking object %d pending: %w", id, err)
		}
	}
	return nil
}

// Drain returns every pending object id and clears the table. Intended for
// the index-refresh consumer, running in its own transaction.
func (s *searchPendingStore) Drain(ctx context.Context) ([]int64, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT object_id FROM search_pending ORDER BY object_id",
	)
	if err != nil {
		return nil, fmt.Errorf("querying pending objects: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning pending object id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending object ids: %w", err)
	}

	if _, err := s.q.ExecContext(ctx, "DELETE FROM search_pending"); err != nil {
		return nil, fmt.Errorf("clearing pending objects: %w", err)
	}
	return ids, nil
}
