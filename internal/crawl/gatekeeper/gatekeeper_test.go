// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gatekeeper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yomira-app/yomira/internal/crawl/gatekeeper"
)

func TestZoneForDepth(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		zone  gatekeeper.Zone
	}{
		{"below_elevated", 2_499, gatekeeper.ZoneHealthy},
		{"at_elevated", 2_500, gatekeeper.ZoneElevated},
		{"below_overloaded", 4_999, gatekeeper.ZoneElevated},
		{"at_overloaded", 5_000, gatekeeper.ZoneOverloaded},
		{"at_critical", 10_000, gatekeeper.ZoneCritical},
		{"at_meltdown", 15_000, gatekeeper.ZoneMeltdown},
		{"well_above_meltdown", 20_001, gatekeeper.ZoneMeltdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.zone, gatekeeper.ZoneForDepth(tt.depth))
		})
	}
}

func TestDecide_ElevatedLoadScenario(t *testing.T) {
	// Concrete scenario 1: getJobCounts -> {waiting: 5001}, tier=C, reason=PERIODIC.
	decision := gatekeeper.Decide(5_001, gatekeeper.TierC, gatekeeper.ReasonPeriodic, nil)
	assert.False(t, decision.Allowed)

	decision = gatekeeper.Decide(5_001, gatekeeper.TierC, gatekeeper.ReasonUserRequest, nil)
	assert.True(t, decision.Allowed)
	assert.Equal(t, gatekeeper.PriorityP0, decision.Priority)
}

func TestDecide_TierAOneShot(t *testing.T) {
	// Concrete scenario 2.
	decision := gatekeeper.Decide(0, gatekeeper.TierA, gatekeeper.ReasonPeriodic, nil)
	assert.True(t, decision.Allowed)
	assert.Equal(t, gatekeeper.PriorityP2, decision.Priority)

	last := time.Now()
	decision = gatekeeper.Decide(0, gatekeeper.TierA, gatekeeper.ReasonPeriodic, &last)
	assert.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "one-shot")

	decision = gatekeeper.Decide(0, gatekeeper.TierA, gatekeeper.ReasonDiscovery, &last)
	assert.True(t, decision.Allowed)
}

func TestDecide_IsPureAndDeterministic(t *testing.T) {
	a := gatekeeper.Decide(3_000, gatekeeper.TierB, gatekeeper.ReasonPeriodic, nil)
	b := gatekeeper.Decide(3_000, gatekeeper.TierB, gatekeeper.ReasonPeriodic, nil)
	assert.Equal(t, a, b)
}

func TestDecide_PriorityInvariants(t *testing.T) {
	tests := []struct {
		name     string
		tier     gatekeeper.Tier
		reason   gatekeeper.Reason
		priority gatekeeper.Priority
	}{
		{"user_request_any_tier", gatekeeper.TierC, gatekeeper.ReasonUserRequest, gatekeeper.PriorityP0},
		{"gap_recovery_any_tier", gatekeeper.TierUnknown, gatekeeper.ReasonGapRecovery, gatekeeper.PriorityP0},
		{"discovery_any_tier", gatekeeper.TierC, gatekeeper.ReasonDiscovery, gatekeeper.PriorityP2},
		{"periodic_tier_a", gatekeeper.TierA, gatekeeper.ReasonPeriodic, gatekeeper.PriorityP2},
		{"periodic_tier_b", gatekeeper.TierB, gatekeeper.ReasonPeriodic, gatekeeper.PriorityP2},
		{"periodic_tier_c", gatekeeper.TierC, gatekeeper.ReasonPeriodic, gatekeeper.PriorityP3},
		{"periodic_unknown_tier_behaves_like_c", gatekeeper.TierUnknown, gatekeeper.ReasonPeriodic, gatekeeper.PriorityP3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := gatekeeper.Decide(0, tt.tier, tt.reason, nil)
			assert.True(t, decision.Allowed)
			assert.Equal(t, tt.priority, decision.Priority)
		})
	}
}

func TestDecide_ZoneAdmissionRules(t *testing.T) {
	tests := []struct {
		name    string
		depth   int
		tier    gatekeeper.Tier
		reason  gatekeeper.Reason
		allowed bool
	}{
		{"healthy_admits_all", 0, gatekeeper.TierC, gatekeeper.ReasonPeriodic, true},
		{"elevated_drops_p3", 2_500, gatekeeper.TierC, gatekeeper.ReasonPeriodic, false},
		{"elevated_admits_p2", 2_500, gatekeeper.TierB, gatekeeper.ReasonPeriodic, true},
		{"overloaded_admits_ab_periodic", 6_000, gatekeeper.TierA, gatekeeper.ReasonPeriodic, true},
		{"overloaded_drops_c_periodic", 6_000, gatekeeper.TierC, gatekeeper.ReasonPeriodic, false},
		{"critical_admits_only_p0", 11_000, gatekeeper.TierA, gatekeeper.ReasonDiscovery, false},
		{"critical_admits_p0", 11_000, gatekeeper.TierC, gatekeeper.ReasonUserRequest, true},
		{"meltdown_denies_p0", 16_000, gatekeeper.TierC, gatekeeper.ReasonUserRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := gatekeeper.Decide(tt.depth, tt.tier, tt.reason, nil)
			assert.Equal(t, tt.allowed, decision.Allowed)
		})
	}
}
