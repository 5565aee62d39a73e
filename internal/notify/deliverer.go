// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"log/slog"
)

// HealthSource is the subset of [HealthGate] the deliverer depends on.
type HealthSource interface {
	Health() SystemHealth
	RecordOutcome(succeeded bool)
}

// Throttler is the subset of [Throttle] the deliverer depends on.
type Throttler interface {
	ShouldNotifyChapter(ctx context.Context, userID, chapterID string) (bool, error)
	ShouldThrottleUser(ctx context.Context, userID string) (bool, error)
}

// Deliverer turns a due (series, chapter) pair into fanned-out
// Notifications, per §4.3.
type Deliverer struct {
	store    Store
	health   HealthSource
	throttle Throttler
	logger   *slog.Logger
}

// NewDeliverer constructs a [Deliverer].
func NewDeliverer(store Store, health HealthSource, throttle Throttler, logger *slog.Logger) *Deliverer {
	return &Deliverer{store: store, health: health, throttle: throttle, logger: logger}
}

// FanOut implements the post-coalesce-window fan-out for (seriesID,
// chapterID). System health is consulted first; dropped events are
// logged, never retried — the chapter resurfaces on the next periodic
// sweep.
func (d *Deliverer) FanOut(ctx context.Context, seriesID, chapterID string) error {
	health := d.health.Health()
	if health == HealthRejected {
		d.logger.WarnContext(ctx, "notify_fan_out_rejected",
			slog.String("series_id", seriesID), slog.String("chapter_id", chapterID))
		return nil
	}

	if health == HealthOverloaded {
		tier, err := d.store.SeriesCatalogTier(ctx, seriesID)
		if err != nil {
			return err
		}
		if tier == "C" {
			d.logger.WarnContext(ctx, "notify_fan_out_dropped_tier_c",
				slog.String("series_id", seriesID), slog.String("chapter_id", chapterID))
			return nil
		}
	}

	subscribers, err := d.store.Subscribers(ctx, seriesID, chapterID)
	if err != nil {
		d.health.RecordOutcome(false)
		return err
	}

	if health == HealthCritical {
		filtered := subscribers[:0]
		for _, sub := range subscribers {
			if sub.Tier == SubscriberPremium {
				filtered = append(filtered, sub)
			}
		}
		subscribers = filtered
	}

	standard := make([]string, 0, len(subscribers))
	premium := make([]string, 0, len(subscribers))
	for _, sub := range subscribers {
		send, err := d.throttle.ShouldNotifyChapter(ctx, sub.UserID, chapterID)
		if err != nil {
			d.logger.WarnContext(ctx, "notify_throttle_check_failed", slog.String("error", err.Error()))
			continue
		}
		if !send {
			continue
		}
		throttled, err := d.throttle.ShouldThrottleUser(ctx, sub.UserID)
		if err != nil {
			d.logger.WarnContext(ctx, "notify_throttle_check_failed", slog.String("error", err.Error()))
			continue
		}
		if throttled {
			continue
		}
		if sub.Tier == SubscriberPremium {
			premium = append(premium, sub.UserID)
		} else {
			standard = append(standard, sub.UserID)
		}
	}

	inserted := int64(0)
	for _, batch := range [][]string{standard, premium} {
		for start := 0; start < len(batch); start += DeliveryBatchSize {
			end := start + DeliveryBatchSize
			if end > len(batch) {
				end = len(batch)
			}
			n, err := d.store.InsertBatch(ctx, seriesID, chapterID, batch[start:end])
			if err != nil {
				d.health.RecordOutcome(false)
				return err
			}
			inserted += n
		}
	}

	d.health.RecordOutcome(true)
	d.logger.InfoContext(ctx, "notify_fan_out_complete",
		slog.String("series_id", seriesID), slog.String("chapter_id", chapterID),
		slog.Int("subscribers", len(subscribers)), slog.Int64("inserted", inserted),
	)
	return nil
}
