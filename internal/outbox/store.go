// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package outbox

import (
	"context"
	"time"
)

// LibraryStore is the persistence contract for LIBRARY_ADD/UPDATE/DELETE
// reconciliation. It is intentionally narrow: the full library CRUD
// surface (listing, filtering) belongs to a reader-facing service, not
// the replay path.
type LibraryStore interface {
	// AddOrRestore upserts a LibraryEntry by (user_id, series_id). An
	// existing soft-deleted row is un-soft-deleted rather than reset —
	// its progress history is never discarded by a replayed re-add.
	// clientEntryID seeds the row's id on first insert only; a pre-existing
	// row (active or soft-deleted) keeps its own id, which is what's
	// returned.
	AddOrRestore(ctx context.Context, clientEntryID, userID, seriesID, status string, ts time.Time) (entryID string, err error)

	// UpdateStatus applies the §4.5 terminal-status-transition rule and
	// persists whichever status the rule resolves to.
	UpdateStatus(ctx context.Context, entryID, userID, incomingStatus string, incomingProgress int, incomingUpdatedAt time.Time) error

	// SoftDelete is idempotent: deleting an already-deleted or
	// never-existing entry is success, never an error.
	SoftDelete(ctx context.Context, entryID, userID string, ts time.Time) error
}

// SettingsStore is the persistence contract for SETTING_UPDATE
// reconciliation: a last-writer-wins blob keyed by (user_id, key).
type SettingsStore interface {
	Upsert(ctx context.Context, userID, key string, value []byte, ts time.Time) error
}
