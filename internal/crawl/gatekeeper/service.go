// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gatekeeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// QueueDepthReader reports the current total (waiting + delayed) depth of
// the sync queue. A failed read is treated as depth zero by [Gatekeeper],
// fail-open so a Redis outage never self-deadlocks the crawler.
type QueueDepthReader interface {
	QueueDepth(ctx context.Context) (int, error)
}

// SourceLookup resolves a SeriesSource's tier and last successful crawl
// time. A missing row is not an admission error: it is treated as an
// unset last_success_at, which allows a Tier-A source through once.
type SourceLookup interface {
	TierAndLastSuccess(ctx context.Context, sourceID string) (tier Tier, lastSuccessAt *time.Time, err error)
}

// SyncJobEnqueuer pushes an admitted crawl onto the sync queue with an
// idempotent job id so duplicate enqueues for the same source collapse.
type SyncJobEnqueuer interface {
	EnqueueSync(ctx context.Context, jobID string, priority Priority, payload map[string]any) error
}

// Gatekeeper wires the pure [Decide] function to live queue depth and the
// sync queue.
type Gatekeeper struct {
	depth  QueueDepthReader
	source SourceLookup
	queue  SyncJobEnqueuer
	logger *slog.Logger
}

// NewGatekeeper constructs a [Gatekeeper].
func NewGatekeeper(depth QueueDepthReader, source SourceLookup, queue SyncJobEnqueuer, logger *slog.Logger) *Gatekeeper {
	return &Gatekeeper{depth: depth, source: source, queue: queue, logger: logger}
}

// EnqueueIfAllowed runs admission for sourceID and, if allowed, enqueues a
// sync job with id "sync-{sourceID}". It returns (true, nil) on successful
// enqueue, (false, nil) on a plain admission denial, and (false, err) only
// when the enqueue call itself fails.
func (g *Gatekeeper) EnqueueIfAllowed(ctx context.Context, sourceID string, reason Reason, extra map[string]any) (bool, error) {
	depth, err := g.depth.QueueDepth(ctx)
	if err != nil {
		g.logger.WarnContext(ctx, "gatekeeper_queue_depth_unavailable", slog.String("error", err.Error()))
		depth = 0
	}

	tier, lastSuccessAt, err := g.source.TierAndLastSuccess(ctx, sourceID)
	if err != nil {
		// Missing source row is not an admission error: fall back to
		// unknown tier with no prior success, which behaves like Tier C.
		tier = TierUnknown
		lastSuccessAt = nil
	}

	decision := Decide(depth, tier, reason, lastSuccessAt)
	if !decision.Allowed {
		g.logger.InfoContext(ctx, "gatekeeper_denied",
			slog.String("source_id", sourceID),
			slog.String("reason", string(reason)),
			slog.String("why", decision.Reason),
		)
		return false, nil
	}

	jobID := fmt.Sprintf("sync-%s", sourceID)
	payload := map[string]any{"seriesSourceId": sourceID}
	for k, v := range extra {
		payload[k] = v
	}

	if err := g.queue.EnqueueSync(ctx, jobID, decision.Priority, payload); err != nil {
		return false, fmt.Errorf("gatekeeper: enqueue sync job: %w", err)
	}

	g.logger.InfoContext(ctx, "gatekeeper_admitted",
		slog.String("source_id", sourceID),
		slog.String("reason", string(reason)),
		slog.Int("priority", int(decision.Priority)),
	)
	return true, nil
}
