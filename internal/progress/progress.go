// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package progress implements atomic chapter progression, XP, levels, and the
soft anti-abuse trust score described in spec §4.5.

Every write flows through a single transaction: advancing last_read_chapter
marks every chapter 1..N as read, awards XP at most once per call, and never
lets a bonus computation or achievement check roll back the primary write.
*/
package progress

import (
	"fmt"
	"math"
	"time"
)

// # XP & Level Constants

const (
	// XPPerChapter is the flat XP grant for a qualifying progress update,
	// regardless of how many chapters the jump spans.
	XPPerChapter = 1

	// XPSeriesCompleted is the one-time bonus for finishing a series.
	XPSeriesCompleted = 100

	// MaxXP bounds lifetime XP; all XP writes clamp into [0, MaxXP].
	MaxXP = 999_999_999

	// MaxStreakBonus caps the per-read streak bonus.
	MaxStreakBonus = 50

	// StreakBonusPerDay is the XP added per consecutive read-streak day,
	// before the MaxStreakBonus cap.
	StreakBonusPerDay = 5
)

// ClampXP bounds xp into [0, MaxXP].
func ClampXP(xp int) int {
	if xp < 0 {
		return 0
	}
	if xp > MaxXP {
		return MaxXP
	}
	return xp
}

// Level maps xp onto a level via level = floor(sqrt(xp/100)) + 1, so L1
// spans [0,100), L2 spans [100,400), L3 spans [400,900), etc.
func Level(xp int) int {
	clamped := ClampXP(xp)
	return int(math.Sqrt(float64(clamped)/100.0)) + 1
}

// StreakBonus is the XP added to a qualifying read on top of XPPerChapter,
// min(5 × streakDays, 50).
func StreakBonus(streakDays int) int {
	if streakDays < 0 {
		streakDays = 0
	}
	bonus := StreakBonusPerDay * streakDays
	if bonus > MaxStreakBonus {
		return MaxStreakBonus
	}
	return bonus
}

// migrationBonusMin, migrationBonusMax, migrationBonusFactor implement the
// one-time migration-bonus formula clamp(importedChapters × 0.25, 50, 500).
const (
	migrationBonusMin    = 50
	migrationBonusMax    = 500
	migrationBonusFactor = 0.25
)

// MigrationBonus computes the one-time import bonus for importedChapters.
// Zero imported chapters earns no bonus at all; anything above zero clamps
// into [migrationBonusMin, migrationBonusMax].
func MigrationBonus(importedChapters int) int {
	if importedChapters <= 0 {
		return 0
	}
	raw := int(float64(importedChapters) * migrationBonusFactor)
	if raw < migrationBonusMin {
		return migrationBonusMin
	}
	if raw > migrationBonusMax {
		return migrationBonusMax
	}
	return raw
}

// MigrationBonusSource is the xp_transactions.source value guarding the
// at-most-once migration bonus.
const MigrationBonusSource = "migration_bonus"

// CurrentSeason returns the quarter string ("2026-Q1") for t, used as the
// season_xp reset boundary.
func CurrentSeason(t time.Time) string {
	quarter := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%d-Q%d", t.Year(), quarter)
}

// # Terminal Status Transitions

// LibraryStatus mirrors library.entry.status.
type LibraryStatus string

const (
	StatusReading   LibraryStatus = "reading"
	StatusPlanning  LibraryStatus = "planning"
	StatusCompleted LibraryStatus = "completed"
	StatusPaused    LibraryStatus = "paused"
	StatusDropped   LibraryStatus = "dropped"
)

// ResolveStatusTransition implements the terminal-status rule from §4.5:
// "completed" is sticky — downgrading away from it requires a concurrent
// progress increase — and any progress regression is blocked unless the
// incoming update is strictly newer and the statuses already agree.
//
// It returns the status that should be stored, which may be the existing
// one when the incoming transition is rejected.
func ResolveStatusTransition(
	storedStatus LibraryStatus, storedProgress int, storedUpdatedAt time.Time,
	incomingStatus LibraryStatus, incomingProgress int, incomingUpdatedAt time.Time,
) LibraryStatus {
	if storedStatus == StatusCompleted && incomingStatus != StatusCompleted {
		if incomingProgress > storedProgress {
			return incomingStatus
		}
		return storedStatus
	}

	if incomingProgress < storedProgress {
		if incomingUpdatedAt.After(storedUpdatedAt) && incomingStatus == storedStatus {
			return incomingStatus
		}
		return storedStatus
	}

	return incomingStatus
}

// # Result

// Result is what a successful [Service.SetProgress] call reports back to
// the caller: the new library-entry state plus the XP/level delta.
type Result struct {
	EntryID              string
	LastReadChapter      int
	ChaptersMarkedRead   int
	XPAwarded            int
	TotalXP              int
	Level                int
	SeasonXP             int
	CurrentSeason        string
	StreakDays           int
	AchievementsUnlocked []string
}
