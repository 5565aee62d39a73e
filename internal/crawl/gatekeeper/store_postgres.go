// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gatekeeper

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomira-app/yomira/internal/platform/database/schema"
)

// PostgresSourceLookup implements [SourceLookup] against crawl.seriessource
// and its owning crawl.series row.
type PostgresSourceLookup struct {
	pool *pgxpool.Pool
}

// NewPostgresSourceLookup constructs a [PostgresSourceLookup].
func NewPostgresSourceLookup(pool *pgxpool.Pool) *PostgresSourceLookup {
	return &PostgresSourceLookup{pool: pool}
}

// TierAndLastSuccess implements [SourceLookup]. A missing source row is
// reported as [pgx.ErrNoRows]; the caller treats that as "no prior
// success, unknown tier" rather than an admission failure.
func (l *PostgresSourceLookup) TierAndLastSuccess(ctx context.Context, sourceID string) (Tier, *time.Time, error) {
	query := fmt.Sprintf(
		`SELECT COALESCE(se.%s, ''), ss.%s FROM %s ss
		 LEFT JOIN %s se ON se.%s = ss.%s
		 WHERE ss.%s = $1`,
		schema.CrawlSeries.CatalogTier, schema.CrawlSeriesSource.LastSuccessAt,
		schema.CrawlSeriesSource.Table,
		schema.CrawlSeries.Table, schema.CrawlSeries.ID, schema.CrawlSeriesSource.SeriesID,
		schema.CrawlSeriesSource.ID,
	)

	var tier string
	var lastSuccessAt *time.Time
	err := l.pool.QueryRow(ctx, query, sourceID).Scan(&tier, &lastSuccessAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return TierUnknown, nil, err
		}
		return TierUnknown, nil, fmt.Errorf("gatekeeper: look up source tier: %w", err)
	}
	return Tier(tier), lastSuccessAt, nil
}
