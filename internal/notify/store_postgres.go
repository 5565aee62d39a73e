// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomira-app/yomira/internal/platform/database/schema"
	"github.com/yomira-app/yomira/internal/platform/dberr"
	"github.com/yomira-app/yomira/pkg/uuidv7"
)

// PostgresStore implements [Store].
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a [PostgresStore].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// SeriesCatalogTier implements [Store.SeriesCatalogTier].
func (s *PostgresStore) SeriesCatalogTier(ctx context.Context, seriesID string) (string, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		schema.CrawlSeries.CatalogTier, schema.CrawlSeries.Table, schema.CrawlSeries.ID, schema.CrawlSeries.DeletedAt,
	)
	var tier string
	if err := s.pool.QueryRow(ctx, query, seriesID).Scan(&tier); err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", dberr.Wrap(err, "select series catalog tier")
	}
	return tier, nil
}

// Subscribers implements [Store.Subscribers].
func (s *PostgresStore) Subscribers(ctx context.Context, seriesID, chapterID string) ([]Subscriber, error) {
	query := fmt.Sprintf(
		`SELECT e.%s, a.%s
		 FROM %s e
		 JOIN %s a ON a.%s = e.%s AND a.%s IS NULL
		 WHERE e.%s = $1 AND e.%s IN ('reading', 'planning') AND e.%s IS NULL
		   AND NOT EXISTS (
			SELECT 1 FROM %s r
			WHERE r.%s = e.%s AND r.%s = $2 AND r.%s = true
		   )`,
		schema.LibraryEntry.UserID, schema.UserAccount.SubscriptionTier,
		schema.LibraryEntry.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.LibraryEntry.UserID, schema.UserAccount.DeletedAt,
		schema.LibraryEntry.SeriesID, schema.LibraryEntry.Status, schema.LibraryEntry.DeletedAt,
		schema.LibraryUserChapterRead.Table,
		schema.LibraryUserChapterRead.UserID, schema.LibraryEntry.UserID, schema.LibraryUserChapterRead.ChapterID, schema.LibraryUserChapterRead.IsRead,
	)
	rows, err := s.pool.Query(ctx, query, seriesID, chapterID)
	if err != nil {
		return nil, dberr.Wrap(err, "select fan-out subscribers")
	}
	defer rows.Close()

	var subscribers []Subscriber
	for rows.Next() {
		var sub Subscriber
		var tier string
		if err := rows.Scan(&sub.UserID, &tier); err != nil {
			return nil, dberr.Wrap(err, "scan subscriber")
		}
		if tier == string(SubscriberPremium) {
			sub.Tier = SubscriberPremium
		} else {
			sub.Tier = SubscriberStandard
		}
		subscribers = append(subscribers, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate subscribers")
	}
	return subscribers, nil
}

// InsertBatch implements [Store.InsertBatch].
func (s *PostgresStore) InsertBatch(ctx context.Context, seriesID, chapterID string, userIDs []string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	ids := make([]string, len(userIDs))
	for i := range userIDs {
		ids[i] = uuidv7.New()
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s)
		 SELECT unnest($1::uuid[]), unnest($2::uuid[]), $3, $4
		 ON CONFLICT (%s, %s) DO NOTHING`,
		schema.NotifyNotification.Table,
		schema.NotifyNotification.ID, schema.NotifyNotification.UserID,
		schema.NotifyNotification.SeriesID, schema.NotifyNotification.ChapterID,
		schema.NotifyNotification.UserID, schema.NotifyNotification.ChapterID,
	)
	tag, err := s.pool.Exec(ctx, query, ids, userIDs, seriesID, chapterID)
	if err != nil {
		return 0, dberr.Wrap(err, "insert notification batch")
	}
	return tag.RowsAffected(), nil
}
