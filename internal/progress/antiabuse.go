// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"math"
	"time"
)

// ViolationType is one of the three soft anti-abuse signal kinds. None of
// them ever block a read or cancel XP; they only move trust_score.
type ViolationType string

const (
	ViolationSpeedRead         ViolationType = "speed_read"
	ViolationBulkSpeedRead     ViolationType = "bulk_speed_read"
	ViolationPatternRepetition ViolationType = "pattern_repetition"
)

// Penalty is the trust_score deduction for a [ViolationType].
func (v ViolationType) Penalty() float64 {
	switch v {
	case ViolationSpeedRead:
		return 0.05
	case ViolationBulkSpeedRead:
		return 0.04
	case ViolationPatternRepetition:
		return 0.08
	default:
		return 0
	}
}

// Trust score bounds and decay rate.
const (
	TrustScoreMin     = 0.5
	TrustScoreMax     = 1.0
	TrustDecayPerDay  = 0.02
	ViolationCooldown = 60 * time.Second

	// bulkSpeedReadThreshold is how many speed_read events within
	// bulkSpeedReadWindow escalate to a bulk_speed_read violation instead.
	bulkSpeedReadThreshold = 3
	bulkSpeedReadWindow    = 5 * time.Minute

	// patternRepetitionStdevSeconds is the inter-read-interval standard
	// deviation threshold (seconds) below which reads look scripted.
	patternRepetitionStdevSeconds = 2.0
)

// ClampTrustScore bounds v into [TrustScoreMin, TrustScoreMax].
func ClampTrustScore(v float64) float64 {
	if v < TrustScoreMin {
		return TrustScoreMin
	}
	if v > TrustScoreMax {
		return TrustScoreMax
	}
	return v
}

// DecayTrustScore applies the +0.02/day restoration for the elapsed time
// since updatedAt, clamping at TrustScoreMax. It is a pure function so the
// store can call it immediately before applying a fresh penalty.
func DecayTrustScore(current float64, updatedAt, now time.Time) float64 {
	if !now.After(updatedAt) {
		return ClampTrustScore(current)
	}
	elapsedDays := now.Sub(updatedAt).Hours() / 24
	return ClampTrustScore(current + elapsedDays*TrustDecayPerDay)
}

// EffectiveXP is the leaderboard-only multiplier: actual xp is never
// reduced, only its leaderboard projection.
func EffectiveXP(xp int, trustScore float64) int {
	return int(float64(xp) * trustScore)
}

// IsSuspiciousReadSpeed reports whether readTimeSeconds is implausibly
// fast for pages, using the floor max(30, pages*3).
func IsSuspiciousReadSpeed(readTimeSeconds, pages int) bool {
	minSeconds := 30
	if pages*3 > minSeconds {
		minSeconds = pages * 3
	}
	return readTimeSeconds < minSeconds
}

// ClassifyViolation picks which [ViolationType] a new suspicious read
// produces, given the user's recent read-event history (most recent
// first, already filtered to suspicious reads for the bulk count and to
// all reads for the pattern check by the caller).
//
// recentSuspiciousCount is how many suspicious reads (including this one)
// fell within bulkSpeedReadWindow. recentIntervals are the gaps between
// the last few reads (any recency), oldest-interval-first, used for the
// pattern-repetition stdev check.
func ClassifyViolation(recentSuspiciousCount int, recentIntervals []time.Duration) ViolationType {
	if stdevSeconds(recentIntervals) < patternRepetitionStdevSeconds {
		return ViolationPatternRepetition
	}
	if recentSuspiciousCount >= bulkSpeedReadThreshold {
		return ViolationBulkSpeedRead
	}
	return ViolationSpeedRead
}

// BulkSpeedReadWindow is exported for store queries counting recent
// suspicious reads.
func BulkSpeedReadWindow() time.Duration { return bulkSpeedReadWindow }

func stdevSeconds(intervals []time.Duration) float64 {
	if len(intervals) < 2 {
		return math.Inf(1) // not enough data to call it a pattern
	}
	sum := 0.0
	for _, d := range intervals {
		sum += d.Seconds()
	}
	mean := sum / float64(len(intervals))

	variance := 0.0
	for _, d := range intervals {
		diff := d.Seconds() - mean
		variance += diff * diff
	}
	variance /= float64(len(intervals))
	return math.Sqrt(variance)
}
