// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomira-app/yomira/internal/platform/apperr"
	"github.com/yomira-app/yomira/internal/platform/database/schema"
	"github.com/yomira-app/yomira/internal/platform/dberr"
	"github.com/yomira-app/yomira/pkg/uuidv7"
)

// PostgresStore implements [Store] against PostgreSQL.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore constructs a [PostgresStore].
func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, logger: logger}
}

// entrySnapshot is what's locked at the top of every progress transaction.
type entrySnapshot struct {
	seriesID        string
	status          LibraryStatus
	lastReadChapter int
}

// lockEntry locks the LibraryEntry row for update, rejecting soft-deleted
// rows, and returns the snapshot a caller needs to decide isNewProgress.
func (s *PostgresStore) lockEntry(ctx context.Context, tx pgx.Tx, entryID, userID string) (*entrySnapshot, error) {
	query := fmt.Sprintf(
		`SELECT %s, %s, %s FROM %s WHERE %s = $1 AND %s = $2 AND %s IS NULL FOR UPDATE`,
		schema.LibraryEntry.SeriesID, schema.LibraryEntry.Status, schema.LibraryEntry.LastReadChapter,
		schema.LibraryEntry.Table,
		schema.LibraryEntry.ID, schema.LibraryEntry.UserID, schema.LibraryEntry.DeletedAt,
	)
	var snap entrySnapshot
	var status string
	var lastRead *int
	if err := tx.QueryRow(ctx, query, entryID, userID).Scan(&snap.seriesID, &status, &lastRead); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("Library entry")
		}
		return nil, dberr.Wrap(err, "lock library entry")
	}
	snap.status = LibraryStatus(status)
	if lastRead != nil {
		snap.lastReadChapter = *lastRead
	}
	return &snap, nil
}

// SetProgress implements [Store.SetProgress].
func (s *PostgresStore) SetProgress(ctx context.Context, entryID, userID string, chapterNumber int, ts time.Time) (*Result, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("progress: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	snap, err := s.lockEntry(ctx, tx, entryID, userID)
	if err != nil {
		return nil, err
	}

	isNewProgress := chapterNumber > snap.lastReadChapter

	touched, err := s.bulkMarkRead(ctx, tx, userID, snap.seriesID, chapterNumber, ts)
	if err != nil {
		return nil, err
	}

	newLast := snap.lastReadChapter
	if chapterNumber > newLast {
		newLast = chapterNumber
	}
	updateQuery := fmt.Sprintf(
		`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.LibraryEntry.Table, schema.LibraryEntry.LastReadChapter, schema.LibraryEntry.UpdatedAt, schema.LibraryEntry.ID,
	)
	if _, err := tx.Exec(ctx, updateQuery, entryID, newLast); err != nil {
		return nil, dberr.Wrap(err, "advance last read chapter")
	}

	result := &Result{EntryID: entryID, LastReadChapter: newLast, ChaptersMarkedRead: int(touched)}

	if isNewProgress {
		if err := s.awardXP(ctx, tx, userID, touched, ts, result); err != nil {
			return nil, err
		}
		s.checkAchievements(ctx, tx, userID, result)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("progress: commit: %w", err)
	}
	return result, nil
}

// ApplyChapterRead implements [Store.ApplyChapterRead].
func (s *PostgresStore) ApplyChapterRead(ctx context.Context, userID, entryID, chapterID string, chapterNumber int, isRead bool, ts time.Time) (*Result, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("progress: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	snap, err := s.lockEntry(ctx, tx, entryID, userID)
	if err != nil {
		return nil, err
	}

	touched, err := s.upsertSingleRead(ctx, tx, userID, chapterID, isRead, ts)
	if err != nil {
		return nil, err
	}

	result := &Result{EntryID: entryID, LastReadChapter: snap.lastReadChapter, ChaptersMarkedRead: int(touched)}

	isNewProgress := isRead && chapterNumber > snap.lastReadChapter
	if isRead && chapterNumber > snap.lastReadChapter {
		updateQuery := fmt.Sprintf(
			`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
			schema.LibraryEntry.Table, schema.LibraryEntry.LastReadChapter, schema.LibraryEntry.UpdatedAt, schema.LibraryEntry.ID,
		)
		if _, err := tx.Exec(ctx, updateQuery, entryID, chapterNumber); err != nil {
			return nil, dberr.Wrap(err, "advance last read chapter")
		}
		result.LastReadChapter = chapterNumber
	}

	if isNewProgress && touched > 0 {
		if err := s.awardXP(ctx, tx, userID, touched, ts, result); err != nil {
			return nil, err
		}
		s.checkAchievements(ctx, tx, userID, result)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("progress: commit: %w", err)
	}
	return result, nil
}

// bulkMarkRead upserts UserChapterRead rows for every chapter of seriesID
// numbered 1..chapterNumber, via a single unnest-backed statement, and
// returns how many rows were actually touched (inserted or LWW-updated).
func (s *PostgresStore) bulkMarkRead(ctx context.Context, tx pgx.Tx, userID, seriesID string, chapterNumber int, ts time.Time) (int64, error) {
	chapterIDsQuery := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s = $1 AND %s::numeric <= $2`,
		schema.CrawlChapter.ID, schema.CrawlChapter.Table, schema.CrawlChapter.SeriesID, schema.CrawlChapter.ChapterNumber,
	)
	rows, err := tx.Query(ctx, chapterIDsQuery, seriesID, chapterNumber)
	if err != nil {
		return 0, dberr.Wrap(err, "select chapters up to progress mark")
	}
	var chapterIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, dberr.Wrap(err, "scan chapter id")
		}
		chapterIDs = append(chapterIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(chapterIDs) == 0 {
		return 0, nil
	}

	upsertQuery := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s)
		 SELECT $1, unnest($2::uuid[]), true, $3
		 ON CONFLICT (%s, %s) DO UPDATE
		 SET %s = true, %s = EXCLUDED.%s
		 WHERE %s.%s <= EXCLUDED.%s`,
		schema.LibraryUserChapterRead.Table,
		schema.LibraryUserChapterRead.UserID, schema.LibraryUserChapterRead.ChapterID,
		schema.LibraryUserChapterRead.IsRead, schema.LibraryUserChapterRead.UpdatedAt,
		schema.LibraryUserChapterRead.UserID, schema.LibraryUserChapterRead.ChapterID,
		schema.LibraryUserChapterRead.IsRead, schema.LibraryUserChapterRead.UpdatedAt, schema.LibraryUserChapterRead.UpdatedAt,
		schema.LibraryUserChapterRead.Table, schema.LibraryUserChapterRead.UpdatedAt, schema.LibraryUserChapterRead.UpdatedAt,
	)
	tag, err := tx.Exec(ctx, upsertQuery, userID, chapterIDs, ts)
	if err != nil {
		return 0, dberr.Wrap(err, "bulk mark chapters read")
	}
	return tag.RowsAffected(), nil
}

// upsertSingleRead applies the LWW CHAPTER_READ rule for exactly one
// chapter: the incoming write only takes effect when its timestamp is at
// or after the stored one.
func (s *PostgresStore) upsertSingleRead(ctx context.Context, tx pgx.Tx, userID, chapterID string, isRead bool, ts time.Time) (int64, error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (%s, %s) DO UPDATE
		 SET %s = EXCLUDED.%s, %s = EXCLUDED.%s
		 WHERE %s.%s <= EXCLUDED.%s`,
		schema.LibraryUserChapterRead.Table,
		schema.LibraryUserChapterRead.UserID, schema.LibraryUserChapterRead.ChapterID,
		schema.LibraryUserChapterRead.IsRead, schema.LibraryUserChapterRead.UpdatedAt,
		schema.LibraryUserChapterRead.UserID, schema.LibraryUserChapterRead.ChapterID,
		schema.LibraryUserChapterRead.IsRead, schema.LibraryUserChapterRead.IsRead,
		schema.LibraryUserChapterRead.UpdatedAt, schema.LibraryUserChapterRead.UpdatedAt,
		schema.LibraryUserChapterRead.Table, schema.LibraryUserChapterRead.UpdatedAt, schema.LibraryUserChapterRead.UpdatedAt,
	)
	tag, err := tx.Exec(ctx, query, userID, chapterID, isRead, ts)
	if err != nil {
		return 0, dberr.Wrap(err, "upsert chapter read")
	}
	return tag.RowsAffected(), nil
}

// awardXP grants XP+streak bonus exactly once, updates lifetime and
// seasonal XP atomically, and increments the fast-path chapters_read
// counter (later corrected precisely by ReconcileChaptersRead).
func (s *PostgresStore) awardXP(ctx context.Context, tx pgx.Tx, userID string, touched int64, ts time.Time, result *Result) error {
	var streakDays int
	var lastStreakAt *time.Time
	streakQuery := fmt.Sprintf(
		`SELECT %s, %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.UserAccount.StreakDays, schema.UserAccount.LastStreakAt, schema.UserAccount.Table, schema.UserAccount.ID,
	)
	if err := tx.QueryRow(ctx, streakQuery, userID).Scan(&streakDays, &lastStreakAt); err != nil {
		return dberr.Wrap(err, "lock user account for xp grant")
	}

	today := ts.UTC().Truncate(24 * time.Hour)
	switch {
	case lastStreakAt == nil:
		streakDays = 1
	case lastStreakAt.UTC().Truncate(24 * time.Hour).Equal(today):
		// already read today: streak unchanged
	case lastStreakAt.UTC().Truncate(24 * time.Hour).Equal(today.Add(-24 * time.Hour)):
		streakDays++
	default:
		streakDays = 1
	}

	xpDelta := XPPerChapter + StreakBonus(streakDays)
	season := CurrentSeason(ts)

	var totalXP, seasonXP int
	grantQuery := fmt.Sprintf(
		`UPDATE %s SET
			%s = LEAST(%s + $2, %d),
			%s = CASE WHEN %s = $3 THEN %s + $2 ELSE $2 END,
			%s = $3,
			%s = %s + $6,
			%s = $4,
			%s = $5,
			%s = now()
		 WHERE %s = $1
		 RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.XP, schema.UserAccount.XP, MaxXP,
		schema.UserAccount.SeasonXP, schema.UserAccount.CurrentSeason, schema.UserAccount.SeasonXP,
		schema.UserAccount.CurrentSeason,
		schema.UserAccount.ChaptersRead, schema.UserAccount.ChaptersRead,
		schema.UserAccount.StreakDays,
		schema.UserAccount.LastStreakAt,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.XP, schema.UserAccount.SeasonXP,
	)
	if err := tx.QueryRow(ctx, grantQuery, userID, xpDelta, season, streakDays, today, touched).Scan(&totalXP, &seasonXP); err != nil {
		return dberr.Wrap(err, "grant xp")
	}

	ledgerQuery := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, now())`,
		schema.ProgressXPTransaction.Table,
		schema.ProgressXPTransaction.ID, schema.ProgressXPTransaction.UserID,
		schema.ProgressXPTransaction.Source, schema.ProgressXPTransaction.Amount,
		schema.ProgressXPTransaction.CreatedAt,
	)
	if _, err := tx.Exec(ctx, ledgerQuery, uuidv7.New(), userID, "chapter_progress", xpDelta); err != nil {
		return dberr.Wrap(err, "log xp transaction")
	}

	activityQuery := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, 'chapter_progress', 'library.entry', $3)`,
		schema.SystemAuditLog.Table,
		schema.SystemAuditLog.ID, schema.SystemAuditLog.ActorID,
		schema.SystemAuditLog.Action, schema.SystemAuditLog.EntityType,
		schema.SystemAuditLog.CreatedAt,
	)
	if _, err := tx.Exec(ctx, activityQuery, uuidv7.New(), userID, ts); err != nil {
		return dberr.Wrap(err, "log progress activity")
	}

	result.XPAwarded = xpDelta
	result.TotalXP = totalXP
	result.Level = Level(totalXP)
	result.SeasonXP = seasonXP
	result.CurrentSeason = season
	result.StreakDays = streakDays
	return nil
}

// checkAchievements runs best-effort achievement unlocks. Any failure is
// caught and logged here, never propagated: a bonus computation must
// never roll back the primary progress write.
func (s *PostgresStore) checkAchievements(ctx context.Context, tx pgx.Tx, userID string, result *Result) {
	type candidate struct {
		id       string
		seasonID *string
		eligible bool
	}
	candidates := []candidate{
		{id: "first_chapter", eligible: result.LastReadChapter >= 1},
		{id: "chapter_milestone_100", eligible: result.LastReadChapter >= 100},
		{id: "chapter_milestone_500", eligible: result.LastReadChapter >= 500},
		{id: "season_reader", seasonID: &result.CurrentSeason, eligible: result.SeasonXP >= 1000},
	}

	for _, c := range candidates {
		if !c.eligible {
			continue
		}
		// A savepoint scopes each unlock, so a failed statement is rolled
		// back on its own instead of aborting the enclosing transaction.
		var unlocked bool
		savepoint, err := tx.Begin(ctx)
		if err == nil {
			unlocked, err = s.unlockAchievement(ctx, savepoint, userID, c.id, c.seasonID)
			if err == nil {
				err = savepoint.Commit(ctx)
			} else {
				_ = savepoint.Rollback(ctx)
			}
		}
		if err != nil {
			s.logger.WarnContext(ctx, "progress_achievement_check_failed",
				slog.String("user_id", userID), slog.String("achievement_id", c.id), slog.String("error", err.Error()))
			continue
		}
		if unlocked {
			result.AchievementsUnlocked = append(result.AchievementsUnlocked, c.id)
		}
	}
}

// unlockAchievement is the WHERE-NOT-EXISTS idempotent unlock guard: a
// uniqueness violation race collapses to zero rows touched rather than an
// error.
func (s *PostgresStore) unlockAchievement(ctx context.Context, tx pgx.Tx, userID, achievementID string, seasonID *string) (bool, error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s, %s)
		 SELECT $1, $2, $3, $4, now()
		 WHERE NOT EXISTS (
			SELECT 1 FROM %s WHERE %s = $2 AND %s = $3 AND %s IS NOT DISTINCT FROM $4
		 )
		 RETURNING %s`,
		schema.ProgressAchievement.Table,
		schema.ProgressAchievement.ID, schema.ProgressAchievement.UserID,
		schema.ProgressAchievement.AchievementID, schema.ProgressAchievement.SeasonID, schema.ProgressAchievement.CreatedAt,
		schema.ProgressAchievement.Table,
		schema.ProgressAchievement.UserID, schema.ProgressAchievement.AchievementID, schema.ProgressAchievement.SeasonID,
		schema.ProgressAchievement.ID,
	)
	var id string
	err := tx.QueryRow(ctx, query, uuidv7.New(), userID, achievementID, seasonID).Scan(&id)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, dberr.Wrap(err, "unlock achievement")
	}
	return true, nil
}

// GrantMigrationBonus implements [Store.GrantMigrationBonus].
func (s *PostgresStore) GrantMigrationBonus(ctx context.Context, userID string, importedChapters int) (bool, int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("progress: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	amount := MigrationBonus(importedChapters)

	guardQuery := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s, %s)
		 SELECT $1, $2, $3, $4, now()
		 WHERE NOT EXISTS (
			SELECT 1 FROM %s WHERE %s = $2 AND %s = $3
		 )
		 RETURNING %s`,
		schema.ProgressXPTransaction.Table,
		schema.ProgressXPTransaction.ID, schema.ProgressXPTransaction.UserID,
		schema.ProgressXPTransaction.Source, schema.ProgressXPTransaction.Amount,
		schema.ProgressXPTransaction.CreatedAt,
		schema.ProgressXPTransaction.Table,
		schema.ProgressXPTransaction.UserID, schema.ProgressXPTransaction.Source,
		schema.ProgressXPTransaction.ID,
	)
	var id string
	err = tx.QueryRow(ctx, guardQuery, uuidv7.New(), userID, MigrationBonusSource, amount).Scan(&id)
	if err == pgx.ErrNoRows {
		return false, 0, tx.Commit(ctx)
	}
	if err != nil {
		return false, 0, dberr.Wrap(err, "grant migration bonus")
	}

	updateQuery := fmt.Sprintf(
		`UPDATE %s SET %s = LEAST(%s + $2, %d), %s = now() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.XP, schema.UserAccount.XP, MaxXP,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)
	if _, err := tx.Exec(ctx, updateQuery, userID, amount); err != nil {
		return false, 0, dberr.Wrap(err, "apply migration bonus")
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, fmt.Errorf("progress: commit migration bonus: %w", err)
	}
	return true, amount, nil
}

// RecordReadSignal implements [Store.RecordReadSignal].
func (s *PostgresStore) RecordReadSignal(ctx context.Context, userID, chapterID string, pagesRead, readTimeSeconds int, now time.Time) (*ViolationType, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("progress: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.ProgressReadEvent.Table,
		schema.ProgressReadEvent.ID, schema.ProgressReadEvent.UserID, schema.ProgressReadEvent.ChapterID,
		schema.ProgressReadEvent.PagesRead, schema.ProgressReadEvent.ReadTimeSeconds, schema.ProgressReadEvent.OccurredAt,
	)
	if _, err := tx.Exec(ctx, insertQuery, uuidv7.New(), userID, chapterID, pagesRead, readTimeSeconds, now); err != nil {
		return nil, dberr.Wrap(err, "record read event")
	}

	if !IsSuspiciousReadSpeed(readTimeSeconds, pagesRead) {
		return nil, tx.Commit(ctx)
	}

	intervals, err := s.recentIntervals(ctx, tx, userID, 6)
	if err != nil {
		return nil, err
	}
	bulkCount, err := s.recentSuspiciousCount(ctx, tx, userID, now)
	if err != nil {
		return nil, err
	}

	violation := ClassifyViolation(bulkCount, intervals)

	onCooldown, err := s.violationOnCooldown(ctx, tx, userID, violation, now)
	if err != nil {
		return nil, err
	}
	if onCooldown {
		return nil, tx.Commit(ctx)
	}

	if err := s.applyTrustPenalty(ctx, tx, userID, violation, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("progress: commit read signal: %w", err)
	}
	return &violation, nil
}

func (s *PostgresStore) recentIntervals(ctx context.Context, tx pgx.Tx, userID string, limit int) ([]time.Duration, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC LIMIT $2`,
		schema.ProgressReadEvent.OccurredAt, schema.ProgressReadEvent.Table,
		schema.ProgressReadEvent.UserID, schema.ProgressReadEvent.OccurredAt,
	)
	rows, err := tx.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "select recent read events")
	}
	defer rows.Close()

	var timestamps []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, dberr.Wrap(err, "scan read event timestamp")
		}
		timestamps = append(timestamps, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var intervals []time.Duration
	for i := 0; i+1 < len(timestamps); i++ {
		intervals = append(intervals, timestamps[i].Sub(timestamps[i+1]))
	}
	return intervals, nil
}

func (s *PostgresStore) recentSuspiciousCount(ctx context.Context, tx pgx.Tx, userID string, now time.Time) (int, error) {
	query := fmt.Sprintf(
		`SELECT count(*) FROM %s WHERE %s = $1 AND %s >= $2 AND %s < GREATEST(30, %s * 3)`,
		schema.ProgressReadEvent.Table, schema.ProgressReadEvent.UserID,
		schema.ProgressReadEvent.OccurredAt, schema.ProgressReadEvent.ReadTimeSeconds, schema.ProgressReadEvent.PagesRead,
	)
	var count int
	since := now.Add(-BulkSpeedReadWindow())
	if err := tx.QueryRow(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count recent suspicious reads")
	}
	return count, nil
}

func (s *PostgresStore) violationOnCooldown(ctx context.Context, tx pgx.Tx, userID string, violation ViolationType, now time.Time) (bool, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s DESC LIMIT 1`,
		schema.ProgressTrustViolation.OccurredAt, schema.ProgressTrustViolation.Table,
		schema.ProgressTrustViolation.UserID, schema.ProgressTrustViolation.ViolationType,
		schema.ProgressTrustViolation.OccurredAt,
	)
	var last time.Time
	err := tx.QueryRow(ctx, query, userID, string(violation)).Scan(&last)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, dberr.Wrap(err, "check violation cooldown")
	}
	return now.Sub(last) < ViolationCooldown, nil
}

func (s *PostgresStore) applyTrustPenalty(ctx context.Context, tx pgx.Tx, userID string, violation ViolationType, now time.Time) error {
	var current float64
	var updatedAt time.Time
	lockQuery := fmt.Sprintf(
		`SELECT %s, %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.UserAccount.TrustScore, schema.UserAccount.TrustUpdatedAt, schema.UserAccount.Table, schema.UserAccount.ID,
	)
	if err := tx.QueryRow(ctx, lockQuery, userID).Scan(&current, &updatedAt); err != nil {
		return dberr.Wrap(err, "lock trust score")
	}

	decayed := DecayTrustScore(current, updatedAt, now)
	next := ClampTrustScore(decayed - violation.Penalty())

	updateQuery := fmt.Sprintf(
		`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.TrustScore, schema.UserAccount.TrustUpdatedAt, schema.UserAccount.ID,
	)
	if _, err := tx.Exec(ctx, updateQuery, userID, next, now); err != nil {
		return dberr.Wrap(err, "apply trust penalty")
	}

	violationQuery := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.ProgressTrustViolation.Table,
		schema.ProgressTrustViolation.ID, schema.ProgressTrustViolation.UserID,
		schema.ProgressTrustViolation.ViolationType, schema.ProgressTrustViolation.Penalty, schema.ProgressTrustViolation.OccurredAt,
	)
	if _, err := tx.Exec(ctx, violationQuery, uuidv7.New(), userID, string(violation), violation.Penalty(), now); err != nil {
		return dberr.Wrap(err, "log trust violation")
	}
	return nil
}

// ReconcileChaptersRead implements [Store.ReconcileChaptersRead].
func (s *PostgresStore) ReconcileChaptersRead(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(
		`UPDATE %s u SET %s = counted.n
		 FROM (
			SELECT %s, count(*) AS n FROM %s WHERE %s = true GROUP BY %s
		 ) counted
		 WHERE u.%s = counted.%s AND u.%s IS DISTINCT FROM counted.n`,
		schema.UserAccount.Table, schema.UserAccount.ChaptersRead,
		schema.LibraryUserChapterRead.UserID, schema.LibraryUserChapterRead.Table,
		schema.LibraryUserChapterRead.IsRead, schema.LibraryUserChapterRead.UserID,
		schema.UserAccount.ID, schema.LibraryUserChapterRead.UserID, schema.UserAccount.ChaptersRead,
	)
	tag, err := s.pool.Exec(ctx, query)
	if err != nil {
		return 0, dberr.Wrap(err, "reconcile chapters read")
	}
	return tag.RowsAffected(), nil
}
