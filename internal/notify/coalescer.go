// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const delayedKey = "notify:delayed"

// delayedEntry is what's stored in the notify:delayed sorted set, scored
// by its due time.
type delayedEntry struct {
	SeriesID  string `json:"seriesId"`
	ChapterID string `json:"chapterId"`
}

// Coalescer absorbs bursts of chapter_detected events for the same
// (series, chapter) into a single delayed fan-out, per §4.3's ≈15s
// coalesce window.
type Coalescer struct {
	client *redis.Client
	logger *slog.Logger
}

// NewCoalescer constructs a [Coalescer].
func NewCoalescer(client *redis.Client, logger *slog.Logger) *Coalescer {
	return &Coalescer{client: client, logger: logger}
}

func lockKey(seriesID, chapterID string) string {
	return fmt.Sprintf("notify:coalesce:%s:%s", seriesID, chapterID)
}

// PublishChapterDetected implements [sync.EventPublisher] so the sync
// package's chapter_detected event can be handed straight to the coalesce
// window without either package importing the other.
func (c *Coalescer) PublishChapterDetected(ctx context.Context, seriesID, chapterID string) error {
	return c.NotifyChapterDetected(ctx, seriesID, chapterID)
}

// NotifyChapterDetected schedules a delayed fan-out for (seriesID,
// chapterID) unless one is already pending: a SETNX lock with a TTL
// slightly longer than the coalesce window collapses concurrent/duplicate
// chapter_detected events from multiple sources into a single job.
func (c *Coalescer) NotifyChapterDetected(ctx context.Context, seriesID, chapterID string) error {
	acquired, err := c.client.SetNX(ctx, lockKey(seriesID, chapterID), 1, CoalesceWindow+5*time.Second).Result()
	if err != nil {
		return fmt.Errorf("notify: acquire coalesce lock: %w", err)
	}
	if !acquired {
		return nil
	}

	entry := delayedEntry{SeriesID: seriesID, ChapterID: chapterID}
	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("notify: encode delayed entry: %w", err)
	}

	dueAt := time.Now().Add(CoalesceWindow)
	if err := c.client.ZAdd(ctx, delayedKey, redis.Z{
		Score:  float64(dueAt.UnixMilli()),
		Member: encoded,
	}).Err(); err != nil {
		return fmt.Errorf("notify: schedule delayed fan-out: %w", err)
	}
	return nil
}

// PopDue removes and returns every delayed entry whose due time has
// passed.
func (c *Coalescer) PopDue(ctx context.Context) ([]delayedEntry, error) {
	now := float64(time.Now().UnixMilli())
	due, err := c.client.ZRangeByScore(ctx, delayedKey, &redis.ZRangeBy{
		Min: "0", Max: fmt.Sprintf("%f", now),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("notify: scan delayed set: %w", err)
	}

	entries := make([]delayedEntry, 0, len(due))
	for _, raw := range due {
		var entry delayedEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		if err := c.client.ZRem(ctx, delayedKey, raw).Err(); err != nil {
			return entries, fmt.Errorf("notify: remove due entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// DelayedPoller drives [PopDue] on an interval, dispatching each due entry
// to fanOut, until ctx is cancelled. The caller supplies fanOut so the
// poller stays decoupled from the [Deliverer]'s own dependencies.
func (c *Coalescer) DelayedPoller(ctx context.Context, interval time.Duration, fanOut func(ctx context.Context, seriesID, chapterID string) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			entries, err := c.PopDue(ctx)
			if err != nil {
				c.logger.ErrorContext(ctx, "notify_poll_due_failed", slog.String("error", err.Error()))
				continue
			}
			for _, entry := range entries {
				if err := fanOut(ctx, entry.SeriesID, entry.ChapterID); err != nil {
					c.logger.ErrorContext(ctx, "notify_fan_out_failed",
						slog.String("series_id", entry.SeriesID), slog.String("chapter_id", entry.ChapterID),
						slog.String("error", err.Error()))
				}
			}
		}
	}
}
