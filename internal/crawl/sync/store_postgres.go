// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomira-app/yomira/internal/platform/apperr"
	"github.com/yomira-app/yomira/internal/platform/database/schema"
	"github.com/yomira-app/yomira/internal/platform/dberr"
)

// EventPublisher emits a chapter_detected event for the fan-out pipeline.
type EventPublisher interface {
	PublishChapterDetected(ctx context.Context, seriesID, chapterID string) error
}

// tierSchedule maps a catalog tier to its periodic re-check interval.
var tierSchedule = map[string]time.Duration{
	"A": 6 * time.Hour,
	"B": 24 * time.Hour,
	"C": 72 * time.Hour,
	"":  72 * time.Hour,
}

// Synchronizer implements [Syncer] and [FailureRecorder] against PostgreSQL.
type Synchronizer struct {
	pool      *pgxpool.Pool
	adapters  *AdapterRegistry
	publisher EventPublisher
}

// NewSynchronizer constructs a [Synchronizer].
func NewSynchronizer(pool *pgxpool.Pool, adapters *AdapterRegistry, publisher EventPublisher) *Synchronizer {
	return &Synchronizer{pool: pool, adapters: adapters, publisher: publisher}
}

// SyncOnce runs the diff-and-persist transaction for one SeriesSource: it
// locks the source row, fetches the upstream chapter list, upserts
// Chapters and ChapterSources, advances the schedule, and emits a
// chapter_detected event per genuinely new chapter.
func (s *Synchronizer) SyncOnce(ctx context.Context, seriesSourceID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("sync: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked bool
	if err := tx.QueryRow(ctx, "SELECT pg_try_advisory_xact_lock(hashtext($1))", seriesSourceID).Scan(&locked); err != nil {
		return fmt.Errorf("sync: acquire advisory lock: %w", err)
	}
	if !locked {
		return &apperr.AppError{Code: "CONFLICT", Message: "series source is already syncing", HTTPStatus: 409}
	}

	var seriesID, sourceName, externalID, catalogTier string
	selectSourceQuery := fmt.Sprintf(
		`SELECT s.%s, s.%s, s.%s, COALESCE(se.%s, '') FROM %s s
		 LEFT JOIN %s se ON se.%s = s.%s
		 WHERE s.%s = $1 FOR UPDATE NOWAIT`,
		schema.CrawlSeriesSource.SeriesID, schema.CrawlSeriesSource.SourceName, schema.CrawlSeriesSource.ExternalID,
		schema.CrawlSeries.CatalogTier,
		schema.CrawlSeriesSource.Table,
		schema.CrawlSeries.Table, schema.CrawlSeries.ID, schema.CrawlSeriesSource.SeriesID,
		schema.CrawlSeriesSource.ID,
	)
	if err := tx.QueryRow(ctx, selectSourceQuery, seriesSourceID).Scan(&seriesID, &sourceName, &externalID, &catalogTier); err != nil {
		if err == pgx.ErrNoRows {
			return nil // source vanished between enqueue and processing; nothing to do
		}
		return dberr.Wrap(err, "lock series source")
	}

	adapter, ok := s.adapters.Resolve(sourceName)
	if !ok {
		return fmt.Errorf("sync: no adapter registered for source %q", sourceName)
	}

	remoteChapters, err := adapter.ListChapters(ctx, seriesSourceID, externalID)
	if err != nil {
		return s.recordFailureAndMaybeBreak(ctx, tx, seriesSourceID, err)
	}

	for _, remote := range remoteChapters {
		chapterID, chapterIsNew, err := s.upsertChapter(ctx, tx, seriesID, remote.ChapterNumber)
		if err != nil {
			return err
		}

		chapterSourceIsNew, err := s.upsertChapterSource(ctx, tx, seriesSourceID, chapterID, remote)
		if err != nil {
			return err
		}

		if chapterIsNew && chapterSourceIsNew && s.publisher != nil {
			if err := s.publisher.PublishChapterDetected(ctx, seriesID, chapterID); err != nil {
				return fmt.Errorf("sync: publish chapter_detected: %w", err)
			}
		}
	}

	nextCheck := time.Now().Add(scheduleFor(catalogTier))
	updateQuery := fmt.Sprintf(
		`UPDATE %s SET %s = now(), %s = $2, %s = 0, %s = now(), %s = 'active' WHERE %s = $1`,
		schema.CrawlSeriesSource.Table,
		schema.CrawlSeriesSource.LastSuccessAt, schema.CrawlSeriesSource.NextCheckAt,
		schema.CrawlSeriesSource.ConsecutiveFails, schema.CrawlSeriesSource.UpdatedAt,
		schema.CrawlSeriesSource.SourceStatus,
		schema.CrawlSeriesSource.ID,
	)
	if _, err := tx.Exec(ctx, updateQuery, seriesSourceID, nextCheck); err != nil {
		return dberr.Wrap(err, "advance series source schedule")
	}

	return tx.Commit(ctx)
}

func scheduleFor(tier string) time.Duration {
	if d, ok := tierSchedule[tier]; ok {
		return d
	}
	return tierSchedule[""]
}

// upsertChapter inserts or finds the Chapter for (seriesID, chapterNumber),
// returning its id and whether it was newly created this call.
func (s *Synchronizer) upsertChapter(ctx context.Context, tx pgx.Tx, seriesID, chapterNumber string) (id string, isNew bool, err error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, %s) VALUES ($1, $2)
		 ON CONFLICT (%s, %s) DO UPDATE SET %s = %s.%s
		 RETURNING %s, (xmax = 0)`,
		schema.CrawlChapter.Table, schema.CrawlChapter.SeriesID, schema.CrawlChapter.ChapterNumber,
		schema.CrawlChapter.SeriesID, schema.CrawlChapter.ChapterNumber,
		schema.CrawlChapter.ID, schema.CrawlChapter.Table, schema.CrawlChapter.ID,
		schema.CrawlChapter.ID,
	)
	if err := tx.QueryRow(ctx, query, seriesID, chapterNumber).Scan(&id, &isNew); err != nil {
		return "", false, dberr.Wrap(err, "upsert chapter")
	}
	return id, isNew, nil
}

// upsertChapterSource inserts the ChapterSource binding, silently ignoring
// a reupload of the same (series_source_id, source_chapter_id) pair.
func (s *Synchronizer) upsertChapterSource(ctx context.Context, tx pgx.Tx, seriesSourceID, chapterID string, remote RemoteChapter) (isNew bool, err error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		 VALUES ($1, $2, $3, $4, true, $5)
		 ON CONFLICT (%s, %s) DO NOTHING
		 RETURNING true`,
		schema.CrawlChapterSource.Table,
		schema.CrawlChapterSource.SeriesSourceID, schema.CrawlChapterSource.ChapterID,
		schema.CrawlChapterSource.SourceChapterID, schema.CrawlChapterSource.ChapterURL,
		schema.CrawlChapterSource.IsAvailable, schema.CrawlChapterSource.DetectedAt,
		schema.CrawlChapterSource.SeriesSourceID, schema.CrawlChapterSource.SourceChapterID,
	)
	var inserted bool
	err = tx.QueryRow(ctx, query, seriesSourceID, chapterID, remote.SourceChapterID, remote.URL, remote.DetectedAt).Scan(&inserted)
	if err == pgx.ErrNoRows {
		return false, nil // conflict: already present, not new
	}
	if err != nil {
		return false, dberr.Wrap(err, "upsert chapter source")
	}
	return inserted, nil
}

func (s *Synchronizer) recordFailureAndMaybeBreak(ctx context.Context, tx pgx.Tx, seriesSourceID string, cause error) error {
	query := fmt.Sprintf(
		`UPDATE %s SET %s = %s + 1,
		 %s = CASE WHEN %s + 1 >= $2 THEN 'broken' ELSE %s END
		 WHERE %s = $1`,
		schema.CrawlSeriesSource.Table,
		schema.CrawlSeriesSource.ConsecutiveFails, schema.CrawlSeriesSource.ConsecutiveFails,
		schema.CrawlSeriesSource.SourceStatus, schema.CrawlSeriesSource.ConsecutiveFails, schema.CrawlSeriesSource.SourceStatus,
		schema.CrawlSeriesSource.ID,
	)
	if _, err := tx.Exec(ctx, query, seriesSourceID, consecutiveFailureThreshold); err != nil {
		return dberr.Wrap(err, "record adapter failure")
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("sync: commit failure accounting: %w", err)
	}
	return cause
}

// RecordFailure implements [FailureRecorder], writing the append-only
// terminal-failure row.
func (s *Synchronizer) RecordFailure(ctx context.Context, queueName, jobID, errorMessage string, attemptsMade int, payload json.RawMessage) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.SystemWorkerFailure.Table,
		schema.SystemWorkerFailure.QueueName, schema.SystemWorkerFailure.JobID,
		schema.SystemWorkerFailure.ErrorMessage, schema.SystemWorkerFailure.AttemptsMade,
		schema.SystemWorkerFailure.Payload,
	)
	_, err := s.pool.Exec(ctx, query, queueName, jobID, errorMessage, attemptsMade, payload)
	return err
}
