// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue is a Redis-backed priority job queue. Waiting jobs live in one list
// per priority band so a worker can always drain P0 before P2 before P3;
// delayed (backing-off) jobs live in a sorted set scored by their due time
// and are promoted back onto a waiting list by [Queue.PromoteDue].
type Queue struct {
	client *redis.Client
	name   string
}

// NewQueue constructs a [Queue] named name (e.g. "sync-source").
func NewQueue(client *redis.Client, name string) *Queue {
	return &Queue{client: client, name: name}
}

func (q *Queue) waitingKey(priority int) string {
	return fmt.Sprintf("queue:%s:waiting:p%d", q.name, priority)
}

func (q *Queue) delayedKey() string {
	return fmt.Sprintf("queue:%s:delayed", q.name)
}

func (q *Queue) activeKey() string {
	return fmt.Sprintf("queue:%s:active", q.name)
}

// Enqueue adds job to its priority's waiting list unless a job with the
// same ID is already waiting or active, in which case it is a no-op
// (duplicate enqueues for the same source_id collapse).
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	alreadyActive, err := q.client.SIsMember(ctx, q.activeKey(), job.ID).Result()
	if err != nil {
		return fmt.Errorf("sync: check active set: %w", err)
	}
	if alreadyActive {
		return nil
	}

	for _, priority := range []int{1, 2, 3, 4} {
		present, err := q.isInList(ctx, q.waitingKey(priority), job.ID)
		if err != nil {
			return err
		}
		if present {
			return nil
		}
	}

	if job.MaxAttempts == 0 {
		job.MaxAttempts = DefaultMaxAttempts
	}
	job.EnqueuedAt = time.Now()

	encoded, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("sync: encode job: %w", err)
	}

	return q.client.RPush(ctx, q.waitingKey(job.Priority), encoded).Err()
}

func (q *Queue) isInList(ctx context.Context, key, jobID string) (bool, error) {
	items, err := q.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return false, fmt.Errorf("sync: scan waiting list: %w", err)
	}
	for _, raw := range items {
		var job Job
		if json.Unmarshal([]byte(raw), &job) == nil && job.ID == jobID {
			return true, nil
		}
	}
	return false, nil
}

// Pop returns the next job to run, checking priority bands P0 through P3 in
// order, or (Job{}, false, nil) if every band is empty. A popped job moves
// from waiting into the active set.
func (q *Queue) Pop(ctx context.Context) (Job, bool, error) {
	for _, priority := range []int{1, 2, 3, 4} {
		raw, err := q.client.LPop(ctx, q.waitingKey(priority)).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return Job{}, false, fmt.Errorf("sync: pop waiting list: %w", err)
		}

		var job Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return Job{}, false, fmt.Errorf("sync: decode job: %w", err)
		}

		if err := q.client.SAdd(ctx, q.activeKey(), job.ID).Err(); err != nil {
			return Job{}, false, fmt.Errorf("sync: mark active: %w", err)
		}
		return job, true, nil
	}
	return Job{}, false, nil
}

// Complete removes job from the active set on success.
func (q *Queue) Complete(ctx context.Context, job Job) error {
	return q.client.SRem(ctx, q.activeKey(), job.ID).Err()
}

// Retry schedules job for another attempt with exponential backoff and
// jitter, or returns (false, nil) if attempts are exhausted and the caller
// should write a DLQ / WorkerFailure record instead.
func (q *Queue) Retry(ctx context.Context, job Job) (retried bool, err error) {
	defer func() {
		if unmarkErr := q.client.SRem(ctx, q.activeKey(), job.ID).Err(); unmarkErr != nil && err == nil {
			err = unmarkErr
		}
	}()

	job.Attempts++
	if job.Attempts >= job.MaxAttempts {
		return false, nil
	}

	backoff := exponentialBackoff(job.Attempts)
	dueAt := time.Now().Add(backoff)

	encoded, encErr := json.Marshal(job)
	if encErr != nil {
		return false, fmt.Errorf("sync: encode retried job: %w", encErr)
	}

	if err := q.client.ZAdd(ctx, q.delayedKey(), redis.Z{
		Score:  float64(dueAt.UnixMilli()),
		Member: encoded,
	}).Err(); err != nil {
		return false, fmt.Errorf("sync: schedule retry: %w", err)
	}
	return true, nil
}

// PromoteDue moves any delayed job whose due time has passed back onto its
// priority's waiting list. It should be called periodically by the same
// ticker that drives [PeriodicSweeper].
func (q *Queue) PromoteDue(ctx context.Context) (int, error) {
	now := float64(time.Now().UnixMilli())
	due, err := q.client.ZRangeByScore(ctx, q.delayedKey(), &redis.ZRangeBy{
		Min: "0", Max: fmt.Sprintf("%f", now),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("sync: scan delayed set: %w", err)
	}

	promoted := 0
	for _, raw := range due {
		var job Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			continue
		}
		if err := q.client.RPush(ctx, q.waitingKey(job.Priority), raw).Err(); err != nil {
			return promoted, fmt.Errorf("sync: promote delayed job: %w", err)
		}
		if err := q.client.ZRem(ctx, q.delayedKey(), raw).Err(); err != nil {
			return promoted, fmt.Errorf("sync: remove promoted job: %w", err)
		}
		promoted++
	}
	return promoted, nil
}

// Depth returns the total number of waiting and delayed jobs, used by the
// gatekeeper as its queue-depth signal.
func (q *Queue) Depth(ctx context.Context) (int, error) {
	total := 0
	for _, priority := range []int{1, 2, 3, 4} {
		length, err := q.client.LLen(ctx, q.waitingKey(priority)).Result()
		if err != nil {
			return 0, fmt.Errorf("sync: measure waiting depth: %w", err)
		}
		total += int(length)
	}
	delayed, err := q.client.ZCard(ctx, q.delayedKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("sync: measure delayed depth: %w", err)
	}
	return total + int(delayed), nil
}

func exponentialBackoff(attempt int) time.Duration {
	base := time.Second * time.Duration(math.Pow(2, float64(attempt)))
	jitter := time.Duration(rand.Int63n(int64(time.Second)))
	return base + jitter
}
