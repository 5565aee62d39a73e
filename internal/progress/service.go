// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yomira-app/yomira/internal/platform/apperr"
	"github.com/yomira-app/yomira/internal/platform/validate"
)

// Service is the thin validation/logging layer over [Store]. The actual
// atomic work happens inside the store implementation's transaction; this
// layer exists so handlers and the outbox reconciler never touch SQL
// directly, matching the teacher's service/store split.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a [Service].
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// SetProgress validates input and delegates to [Store.SetProgress].
func (s *Service) SetProgress(ctx context.Context, entryID, userID string, chapterNumber int, ts time.Time) (*Result, error) {
	v := &validate.Validator{}
	v.UUID("entryId", entryID).UUID("userId", userID).Custom("chapterNumber", chapterNumber < 0, "Must be non-negative")
	if err := v.Err(); err != nil {
		return nil, err
	}

	result, err := s.store.SetProgress(ctx, entryID, userID, chapterNumber, ts)
	if err != nil {
		return nil, fmt.Errorf("progress_service_set_progress_failed: %w", err)
	}

	if result.XPAwarded > 0 {
		s.logger.InfoContext(ctx, "progress_xp_awarded",
			slog.String("user_id", userID),
			slog.String("entry_id", entryID),
			slog.Int("xp_awarded", result.XPAwarded),
			slog.Int("level", result.Level),
		)
	}
	return result, nil
}

// ApplyChapterRead validates input and delegates to
// [Store.ApplyChapterRead]; used by the outbox Reconciler for CHAPTER_READ
// actions.
func (s *Service) ApplyChapterRead(ctx context.Context, userID, entryID, chapterID string, chapterNumber int, isRead bool, ts time.Time) (*Result, error) {
	v := &validate.Validator{}
	v.UUID("entryId", entryID).UUID("userId", userID).UUID("chapterId", chapterID)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.store.ApplyChapterRead(ctx, userID, entryID, chapterID, chapterNumber, isRead, ts)
}

// GrantMigrationBonus is a thin pass-through that also logs the award.
func (s *Service) GrantMigrationBonus(ctx context.Context, userID string, importedChapters int) (bool, int, error) {
	if userID == "" {
		return false, 0, apperr.BadRequest("userId is required")
	}
	granted, amount, err := s.store.GrantMigrationBonus(ctx, userID, importedChapters)
	if err != nil {
		return false, 0, fmt.Errorf("progress_service_migration_bonus_failed: %w", err)
	}
	if granted {
		s.logger.InfoContext(ctx, "progress_migration_bonus_granted",
			slog.String("user_id", userID), slog.Int("amount", amount))
	}
	return granted, amount, nil
}

// RecordReadSignal feeds a completed read into the anti-abuse detector. A
// returned violation is informational only: it never blocks the caller or
// cancels an already-awarded XP grant.
func (s *Service) RecordReadSignal(ctx context.Context, userID, chapterID string, pagesRead, readTimeSeconds int, now time.Time) (*ViolationType, error) {
	violation, err := s.store.RecordReadSignal(ctx, userID, chapterID, pagesRead, readTimeSeconds, now)
	if err != nil {
		return nil, fmt.Errorf("progress_service_read_signal_failed: %w", err)
	}
	if violation != nil {
		s.logger.WarnContext(ctx, "progress_trust_violation_recorded",
			slog.String("user_id", userID), slog.String("violation", string(*violation)))
	}
	return violation, nil
}

// ReconcileChaptersRead runs the periodic counter-drift correction job.
func (s *Service) ReconcileChaptersRead(ctx context.Context) (int64, error) {
	touched, err := s.store.ReconcileChaptersRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("progress_service_reconcile_failed: %w", err)
	}
	if touched > 0 {
		s.logger.InfoContext(ctx, "progress_chapters_read_reconciled", slog.Int64("accounts_touched", touched))
	}
	return touched, nil
}

// RunReconciliationTicker runs [ReconcileChaptersRead] on interval until
// ctx is cancelled. It runs on every process with no leader election
// (unlike the sync package's periodic sweeper, which holds a Redis leader
// lock); the reconciliation UPDATE is idempotent.
func (s *Service) RunReconciliationTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ReconcileChaptersRead(ctx); err != nil {
				s.logger.ErrorContext(ctx, "progress_reconcile_tick_failed", slog.String("error", err.Error()))
			}
		}
	}
}
