// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yomira-app/yomira/internal/progress"
)

func TestIsSuspiciousReadSpeed(t *testing.T) {
	assert.True(t, progress.IsSuspiciousReadSpeed(10, 5), "10s for 5 pages is under the 30s floor")
	assert.False(t, progress.IsSuspiciousReadSpeed(30, 5), "exactly at the floor is not suspicious")
	assert.True(t, progress.IsSuspiciousReadSpeed(40, 20), "20 pages needs at least 60s")
	assert.False(t, progress.IsSuspiciousReadSpeed(61, 20), "just above the pages*3 floor")
}

func TestClassifyViolation(t *testing.T) {
	scripted := []time.Duration{2 * time.Second, 2 * time.Second, 2 * time.Second}
	assert.Equal(t, progress.ViolationPatternRepetition, progress.ClassifyViolation(1, scripted))

	varied := []time.Duration{5 * time.Second, 45 * time.Second, 12 * time.Second}
	assert.Equal(t, progress.ViolationBulkSpeedRead, progress.ClassifyViolation(3, varied))
	assert.Equal(t, progress.ViolationSpeedRead, progress.ClassifyViolation(1, varied))
	assert.Equal(t, progress.ViolationSpeedRead, progress.ClassifyViolation(0, nil), "no interval history at all falls back to plain speed_read")
}

func TestDecayTrustScore(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.InDelta(t, 0.7, progress.DecayTrustScore(0.7, t0, t0), 0.0001, "no elapsed time, no decay")

	oneDayLater := t0.Add(24 * time.Hour)
	assert.InDelta(t, 0.72, progress.DecayTrustScore(0.7, t0, oneDayLater), 0.0001)

	farFuture := t0.Add(365 * 24 * time.Hour)
	assert.Equal(t, progress.TrustScoreMax, progress.DecayTrustScore(0.7, t0, farFuture), "decay clamps at max")

	assert.Equal(t, 0.7, progress.DecayTrustScore(0.7, oneDayLater, t0), "time moving backwards applies no decay")
}

func TestClampTrustScore(t *testing.T) {
	assert.Equal(t, progress.TrustScoreMin, progress.ClampTrustScore(0.1))
	assert.Equal(t, progress.TrustScoreMax, progress.ClampTrustScore(1.5))
	assert.InDelta(t, 0.8, progress.ClampTrustScore(0.8), 0.0001)
}

func TestEffectiveXP(t *testing.T) {
	assert.Equal(t, 800, progress.EffectiveXP(1000, 0.8), "effective xp is leaderboard-only, never mutates stored xp")
}

func TestViolationPenalties(t *testing.T) {
	assert.InDelta(t, 0.05, progress.ViolationSpeedRead.Penalty(), 0.0001)
	assert.InDelta(t, 0.04, progress.ViolationBulkSpeedRead.Penalty(), 0.0001)
	assert.InDelta(t, 0.08, progress.ViolationPatternRepetition.Penalty(), 0.0001)
}
