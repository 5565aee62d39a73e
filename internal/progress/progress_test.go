// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yomira-app/yomira/internal/progress"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{xp: 0, level: 1},
		{xp: 99, level: 1},
		{xp: 100, level: 2},
		{xp: 399, level: 2},
		{xp: 400, level: 3},
		{xp: 900, level: 4},
		{xp: -5, level: 1},
		{xp: progress.MaxXP + 1000, level: progress.Level(progress.MaxXP)},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, progress.Level(c.xp), "xp=%d", c.xp)
	}
}

func TestStreakBonus(t *testing.T) {
	cases := []struct {
		days  int
		bonus int
	}{
		{days: 0, bonus: 0},
		{days: 1, bonus: 5},
		{days: 9, bonus: 45},
		{days: 10, bonus: 50},
		{days: 30, bonus: 50},
		{days: -1, bonus: 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.bonus, progress.StreakBonus(c.days), "days=%d", c.days)
	}
}

func TestMigrationBonus(t *testing.T) {
	cases := []struct {
		imported int
		bonus    int
	}{
		{imported: 0, bonus: 0},
		{imported: 199, bonus: 50},
		{imported: 200, bonus: 50},
		{imported: 201, bonus: 50},
		{imported: 1000, bonus: 250},
		{imported: 2000, bonus: 500},
		{imported: 2001, bonus: 500},
		{imported: 100_000, bonus: 500},
	}
	for _, c := range cases {
		assert.Equal(t, c.bonus, progress.MigrationBonus(c.imported), "imported=%d", c.imported)
	}
}

func TestCurrentSeason(t *testing.T) {
	assert.Equal(t, "2026-Q1", progress.CurrentSeason(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-Q3", progress.CurrentSeason(time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-Q4", progress.CurrentSeason(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestResolveStatusTransition_CompletedIsSticky(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	got := progress.ResolveStatusTransition(
		progress.StatusCompleted, 100, t0,
		progress.StatusReading, 100, t1,
	)
	assert.Equal(t, progress.StatusCompleted, got, "non-advancing status change away from completed should be rejected")

	got = progress.ResolveStatusTransition(
		progress.StatusCompleted, 100, t0,
		progress.StatusReading, 101, t1,
	)
	assert.Equal(t, progress.StatusReading, got, "a genuine progress advance can move off completed")
}

func TestResolveStatusTransition_RegressionBlocked(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := t0.Add(-time.Hour)
	newer := t0.Add(time.Hour)

	got := progress.ResolveStatusTransition(
		progress.StatusReading, 50, t0,
		progress.StatusReading, 10, older,
	)
	assert.Equal(t, progress.StatusReading, got)
	assert.Equal(t, progress.StatusReading, got, "stale regression must be rejected")

	got = progress.ResolveStatusTransition(
		progress.StatusReading, 50, t0,
		progress.StatusReading, 10, newer,
	)
	assert.Equal(t, progress.StatusReading, got, "newer regression allowed when statuses already agree")

	got = progress.ResolveStatusTransition(
		progress.StatusReading, 50, t0,
		progress.StatusDropped, 10, newer,
	)
	assert.Equal(t, progress.StatusReading, got, "newer regression rejected when statuses disagree")
}

func TestResolveStatusTransition_ForwardProgressAlwaysWins(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got := progress.ResolveStatusTransition(
		progress.StatusPlanning, 0, t0,
		progress.StatusReading, 5, t0.Add(-time.Hour),
	)
	assert.Equal(t, progress.StatusReading, got)
}
