// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"context"
	"time"
)

// Store is the persistence contract for the progress engine. Every method
// that mutates state runs inside its own single transaction, per §4.5's
// "transaction envelope" requirement — auxiliary work (achievement checks,
// activity logging) never rolls back the primary write.
type Store interface {
	/*
		SetProgress implements the bulk PATCH /library/{entryId}/progress
		path: marking every chapter 1..chapterNumber of the entry's series as
		read for userID, awarding XP at most once regardless of jump size.
	*/
	SetProgress(ctx context.Context, entryID, userID string, chapterNumber int, ts time.Time) (*Result, error)

	/*
		ApplyChapterRead implements the single-chapter CHAPTER_READ outbox
		reconciliation path (§4.4): an LWW upsert of one UserChapterRead row,
		with last_read_chapter advanced to max(stored, chapterNumber) and the
		progress engine invoked only when that advances the stored value.
	*/
	ApplyChapterRead(ctx context.Context, userID, entryID, chapterID string, chapterNumber int, isRead bool, ts time.Time) (*Result, error)

	// GrantMigrationBonus grants the one-time import bonus, collapsing
	// concurrent callers to at most one grant via an existence guard.
	GrantMigrationBonus(ctx context.Context, userID string, importedChapters int) (granted bool, amount int, err error)

	// RecordReadSignal feeds one completed read into the anti-abuse
	// detector. It returns the violation actually applied, or nil if the
	// read wasn't suspicious or a same-type penalty is still cooling down.
	RecordReadSignal(ctx context.Context, userID, chapterID string, pagesRead, readTimeSeconds int, now time.Time) (*ViolationType, error)

	// ReconcileChaptersRead recomputes users_account.chapters_read for
	// every user as count(UserChapterRead where is_read), never as a sum
	// of last_read_chapter, correcting drift from incremental updates. It
	// returns how many account rows were touched.
	ReconcileChaptersRead(ctx context.Context) (int64, error)
}
