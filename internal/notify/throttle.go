// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Throttle implements the per-user send/skip decisions via small Redis
// counters. It never affects read-filter membership (§4.3) — a throttled
// user is still excluded from future duplicate sends for the same
// chapter, it simply doesn't receive this one.
type Throttle struct {
	client *redis.Client

	// MaxPerWindow bounds how many notifications a user may receive
	// within Window before ShouldThrottleUser starts returning true.
	MaxPerWindow int
	Window       time.Duration
}

// NewThrottle constructs a [Throttle] with sensible defaults (10
// notifications per 10-minute window).
func NewThrottle(client *redis.Client) *Throttle {
	return &Throttle{client: client, MaxPerWindow: 10, Window: 10 * time.Minute}
}

func userCounterKey(userID string) string {
	return fmt.Sprintf("notify:throttle:%s", userID)
}

func chapterSentKey(userID, chapterID string) string {
	return fmt.Sprintf("notify:sent:%s:%s", userID, chapterID)
}

// ShouldNotifyChapter reports whether userID has not yet been sent a
// notification for chapterID within the last 24 hours: it returns true the
// first time and sets a send marker, and false while that marker exists,
// guarding against a retried batch re-sending to the same user.
func (t *Throttle) ShouldNotifyChapter(ctx context.Context, userID, chapterID string) (bool, error) {
	set, err := t.client.SetNX(ctx, chapterSentKey(userID, chapterID), 1, 24*time.Hour).Result()
	if err != nil {
		return false, fmt.Errorf("notify: check chapter send marker: %w", err)
	}
	return set, nil
}

// ShouldThrottleUser reports whether userID has received MaxPerWindow or
// more notifications within Window. Every call bumps the counter, including
// calls that end up throttled.
func (t *Throttle) ShouldThrottleUser(ctx context.Context, userID string) (bool, error) {
	key := userCounterKey(userID)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("notify: bump throttle counter: %w", err)
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.Window).Err(); err != nil {
			return false, fmt.Errorf("notify: set throttle window: %w", err)
		}
	}
	return count > int64(t.MaxPerWindow), nil
}
