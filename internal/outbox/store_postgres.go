// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomira-app/yomira/internal/platform/database/schema"
	"github.com/yomira-app/yomira/internal/platform/dberr"
	"github.com/yomira-app/yomira/internal/progress"
)

// PostgresLibraryStore implements [LibraryStore].
type PostgresLibraryStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLibraryStore constructs a [PostgresLibraryStore].
func NewPostgresLibraryStore(pool *pgxpool.Pool) *PostgresLibraryStore {
	return &PostgresLibraryStore{pool: pool}
}

// AddOrRestore implements [LibraryStore.AddOrRestore]. A single
// (user_id, series_id) unique index covers both the active and
// soft-deleted row, so one ON CONFLICT clause handles un-deleting.
func (s *PostgresLibraryStore) AddOrRestore(ctx context.Context, clientEntryID, userID, seriesID, status string, ts time.Time) (string, error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 ON CONFLICT (%s, %s) DO UPDATE SET %s = NULL, %s = $5
		 RETURNING %s`,
		schema.LibraryEntry.Table,
		schema.LibraryEntry.ID, schema.LibraryEntry.UserID, schema.LibraryEntry.SeriesID,
		schema.LibraryEntry.Status, schema.LibraryEntry.CreatedAt, schema.LibraryEntry.UpdatedAt,
		schema.LibraryEntry.UserID, schema.LibraryEntry.SeriesID,
		schema.LibraryEntry.DeletedAt, schema.LibraryEntry.UpdatedAt,
		schema.LibraryEntry.ID,
	)
	var entryID string
	err := s.pool.QueryRow(ctx, query, clientEntryID, userID, seriesID, status, ts).Scan(&entryID)
	if err != nil {
		return "", dberr.Wrap(err, "add or restore library entry")
	}
	return entryID, nil
}

// UpdateStatus implements [LibraryStore.UpdateStatus].
func (s *PostgresLibraryStore) UpdateStatus(ctx context.Context, entryID, userID, incomingStatus string, incomingProgress int, incomingUpdatedAt time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("outbox: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockQuery := fmt.Sprintf(
		`SELECT %s, %s, %s FROM %s WHERE %s = $1 AND %s = $2 AND %s IS NULL FOR UPDATE`,
		schema.LibraryEntry.Status, schema.LibraryEntry.LastReadChapter, schema.LibraryEntry.UpdatedAt,
		schema.LibraryEntry.Table, schema.LibraryEntry.ID, schema.LibraryEntry.UserID, schema.LibraryEntry.DeletedAt,
	)
	var storedStatus string
	var storedProgress int
	var storedUpdatedAt time.Time
	err = tx.QueryRow(ctx, lockQuery, entryID, userID).Scan(&storedStatus, &storedProgress, &storedUpdatedAt)
	if err == pgx.ErrNoRows {
		// already deleted or never existed: nothing to update, a
		// LIBRARY_UPDATE on a gone entry is not an error.
		return tx.Commit(ctx)
	}
	if err != nil {
		return dberr.Wrap(err, "lock library entry for status update")
	}

	resolved := progress.ResolveStatusTransition(
		progress.LibraryStatus(storedStatus), storedProgress, storedUpdatedAt,
		progress.LibraryStatus(incomingStatus), incomingProgress, incomingUpdatedAt,
	)

	updateQuery := fmt.Sprintf(
		`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.LibraryEntry.Table, schema.LibraryEntry.Status, schema.LibraryEntry.UpdatedAt, schema.LibraryEntry.ID,
	)
	if _, err := tx.Exec(ctx, updateQuery, entryID, string(resolved)); err != nil {
		return dberr.Wrap(err, "update library entry status")
	}

	return tx.Commit(ctx)
}

// SoftDelete implements [LibraryStore.SoftDelete].
func (s *PostgresLibraryStore) SoftDelete(ctx context.Context, entryID, userID string, ts time.Time) error {
	query := fmt.Sprintf(
		`UPDATE %s SET %s = $3, %s = $3 WHERE %s = $1 AND %s = $2 AND %s IS NULL`,
		schema.LibraryEntry.Table, schema.LibraryEntry.DeletedAt, schema.LibraryEntry.UpdatedAt,
		schema.LibraryEntry.ID, schema.LibraryEntry.UserID, schema.LibraryEntry.DeletedAt,
	)
	_, err := s.pool.Exec(ctx, query, entryID, userID, ts)
	if err != nil {
		return dberr.Wrap(err, "soft delete library entry")
	}
	// 0 rows affected (already deleted, or never existed) is success by
	// the spec's own idempotency rule — never surfaced as 404.
	return nil
}

// PostgresSettingsStore implements [SettingsStore].
type PostgresSettingsStore struct {
	pool *pgxpool.Pool
}

// NewPostgresSettingsStore constructs a [PostgresSettingsStore].
func NewPostgresSettingsStore(pool *pgxpool.Pool) *PostgresSettingsStore {
	return &PostgresSettingsStore{pool: pool}
}

// Upsert implements [SettingsStore.Upsert] with LWW semantics keyed by
// updated_at, matching the CHAPTER_READ and UserChapterRead pattern.
func (s *PostgresSettingsStore) Upsert(ctx context.Context, userID, key string, value []byte, ts time.Time) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (%s, %s) DO UPDATE
		 SET %s = EXCLUDED.%s, %s = EXCLUDED.%s
		 WHERE %s.%s <= EXCLUDED.%s`,
		schema.UserSyncSetting.Table,
		schema.UserSyncSetting.UserID, schema.UserSyncSetting.Key, schema.UserSyncSetting.Value, schema.UserSyncSetting.UpdatedAt,
		schema.UserSyncSetting.UserID, schema.UserSyncSetting.Key,
		schema.UserSyncSetting.Value, schema.UserSyncSetting.Value,
		schema.UserSyncSetting.UpdatedAt, schema.UserSyncSetting.UpdatedAt,
		schema.UserSyncSetting.Table, schema.UserSyncSetting.UpdatedAt, schema.UserSyncSetting.UpdatedAt,
	)
	_, err := s.pool.Exec(ctx, query, userID, key, json.RawMessage(value), ts)
	if err != nil {
		return dberr.Wrap(err, "upsert sync setting")
	}
	return nil
}
