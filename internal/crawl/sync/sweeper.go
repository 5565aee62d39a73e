// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/yomira-app/yomira/internal/crawl/gatekeeper"
	"github.com/yomira-app/yomira/internal/platform/database/schema"
)

const (
	sweeperLeaderKey = "sync:sweeper:leader"
	sweeperLeaderTTL = 30 * time.Second
)

// PeriodicSweeper is a single leader-elected ticker that scans SeriesSources
// due for a periodic recheck and funnels each through the gatekeeper.
type PeriodicSweeper struct {
	pool       *pgxpool.Pool
	redis      *redis.Client
	gatekeeper *gatekeeper.Gatekeeper
	interval   time.Duration
	logger     *slog.Logger
}

// NewPeriodicSweeper constructs a [PeriodicSweeper].
func NewPeriodicSweeper(pool *pgxpool.Pool, redisClient *redis.Client, gk *gatekeeper.Gatekeeper, interval time.Duration, logger *slog.Logger) *PeriodicSweeper {
	return &PeriodicSweeper{pool: pool, redis: redisClient, gatekeeper: gk, interval: interval, logger: logger}
}

// Run ticks every interval until ctx is cancelled, only acting while this
// process holds the Redis leader lock.
func (p *PeriodicSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.acquireLeadership(ctx) {
				continue
			}
			if err := p.sweep(ctx); err != nil {
				p.logger.ErrorContext(ctx, "sweeper_pass_failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (p *PeriodicSweeper) acquireLeadership(ctx context.Context) bool {
	acquired, err := p.redis.SetNX(ctx, sweeperLeaderKey, "1", sweeperLeaderTTL).Result()
	if err != nil {
		p.logger.WarnContext(ctx, "sweeper_leader_check_failed", slog.String("error", err.Error()))
		return false
	}
	return acquired
}

// sweep scans SeriesSources whose next_check_at has passed and are not
// broken, calling the gatekeeper with reason=PERIODIC for each. The
// partial index backing this predicate excludes broken sources so this
// query stays cheap as the catalog grows.
func (p *PeriodicSweeper) sweep(ctx context.Context) error {
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s <= now() AND %s != 'broken'`,
		schema.CrawlSeriesSource.ID, schema.CrawlSeriesSource.Table,
		schema.CrawlSeriesSource.NextCheckAt, schema.CrawlSeriesSource.SourceStatus,
	)

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("sweeper: scan due sources: %w", err)
	}
	defer rows.Close()

	var dueIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("sweeper: scan row: %w", err)
		}
		dueIDs = append(dueIDs, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range dueIDs {
		if _, err := p.gatekeeper.EnqueueIfAllowed(ctx, id, gatekeeper.ReasonPeriodic, nil); err != nil {
			p.logger.ErrorContext(ctx, "sweeper_enqueue_failed", slog.String("source_id", id), slog.String("error", err.Error()))
		}
	}
	return nil
}
