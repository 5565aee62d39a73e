// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sync

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Syncer performs the diff-and-persist transaction for one SeriesSource.
type Syncer interface {
	SyncOnce(ctx context.Context, seriesSourceID string) error
}

// FailureRecorder writes the append-only terminal-failure record (the DLQ
// semantic: only the final attempt is logged).
type FailureRecorder interface {
	RecordFailure(ctx context.Context, queueName, jobID, errorMessage string, attemptsMade int, payload json.RawMessage) error
}

// Worker drains a [Queue], dispatching each popped job to a [Syncer] and
// routing the outcome through retry-with-backoff or the DLQ.
type Worker struct {
	queue    *Queue
	syncer   Syncer
	failures FailureRecorder
	logger   *slog.Logger
}

// NewWorker constructs a [Worker].
func NewWorker(queue *Queue, syncer Syncer, failures FailureRecorder, logger *slog.Logger) *Worker {
	return &Worker{queue: queue, syncer: syncer, failures: failures, logger: logger}
}

// Run pops and processes jobs until ctx is cancelled. Callers typically
// launch SYNC_WORKER_COUNT of these as goroutines.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, ok, err := w.queue.Pop(ctx)
		if err != nil {
			w.logger.ErrorContext(ctx, "sync_worker_pop_failed", slog.String("error", err.Error()))
			time.Sleep(time.Second)
			continue
		}
		if !ok {
			time.Sleep(250 * time.Millisecond)
			continue
		}

		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job Job) {
	var payload Payload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		w.logger.ErrorContext(ctx, "sync_job_payload_invalid", slog.String("job_id", job.ID))
		_ = w.queue.Complete(ctx, job)
		return
	}

	err := w.syncer.SyncOnce(ctx, payload.SeriesSourceID)
	if err == nil {
		if completeErr := w.queue.Complete(ctx, job); completeErr != nil {
			w.logger.ErrorContext(ctx, "sync_job_complete_failed", slog.String("job_id", job.ID), slog.String("error", completeErr.Error()))
		}
		return
	}

	w.logger.WarnContext(ctx, "sync_job_failed",
		slog.String("job_id", job.ID),
		slog.Int("attempts", job.Attempts+1),
		slog.String("error", err.Error()),
	)

	retried, retryErr := w.queue.Retry(ctx, job)
	if retryErr != nil {
		w.logger.ErrorContext(ctx, "sync_job_retry_schedule_failed", slog.String("job_id", job.ID), slog.String("error", retryErr.Error()))
	}
	if retried {
		return
	}

	// Attempts exhausted: this is the DLQ semantic, only the terminal
	// failure is written.
	if recErr := w.failures.RecordFailure(ctx, job.Queue, job.ID, err.Error(), job.Attempts+1, job.Payload); recErr != nil {
		w.logger.ErrorContext(ctx, "sync_job_dlq_write_failed", slog.String("job_id", job.ID), slog.String("error", recErr.Error()))
	}
}
