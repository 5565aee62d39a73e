// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package gatekeeper is the single admission authority for crawl requests.
//
// Every request to crawl a SeriesSource, whether user-driven or periodic,
// passes through Decide before it reaches the sync queue. The decision is a
// pure function of queue depth, source tier, and request reason; it never
// touches the network or the database itself.
package gatekeeper

import "time"

// Zone classifies total queue depth (waiting + delayed jobs) into a load band.
type Zone int

const (
	ZoneHealthy Zone = iota
	ZoneElevated
	ZoneOverloaded
	ZoneCritical
	ZoneMeltdown
)

// Depth thresholds. A zone is entered at its lower bound, inclusive.
const (
	thresholdElevated   = 2_500
	thresholdOverloaded = 5_000
	thresholdCritical   = 10_000
	thresholdMeltdown   = 15_000
)

// ZoneForDepth maps a queue depth onto a load [Zone]. Depths at or above
// 20,000 are still Meltdown; the spec's "ABSOLUTE HALT" beyond that has no
// distinct admission behaviour, Meltdown already denies everything.
func ZoneForDepth(depth int) Zone {
	switch {
	case depth < thresholdElevated:
		return ZoneHealthy
	case depth < thresholdOverloaded:
		return ZoneElevated
	case depth < thresholdCritical:
		return ZoneOverloaded
	case depth < thresholdMeltdown:
		return ZoneCritical
	default:
		return ZoneMeltdown
	}
}

// Reason is why a crawl is being requested.
type Reason string

const (
	ReasonUserRequest Reason = "USER_REQUEST"
	ReasonGapRecovery Reason = "GAP_RECOVERY"
	ReasonDiscovery   Reason = "DISCOVERY"
	ReasonPeriodic    Reason = "PERIODIC"
)

// Tier is the catalog tier used for ranking and admission weighting.
// The empty string represents an unknown tier, which this package treats
// identically to [TierC] throughout.
type Tier string

const (
	TierA       Tier = "A"
	TierB       Tier = "B"
	TierC       Tier = "C"
	TierUnknown Tier = ""
)

// Priority is the assigned queue priority. Lower values run first. P1 is
// reserved for future use and is never assigned by Decide.
type Priority int

const (
	PriorityP0 Priority = 1
	PriorityP1 Priority = 2
	PriorityP2 Priority = 3
	PriorityP3 Priority = 4
)

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed  bool
	Priority Priority
	Reason   string
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

func admit(priority Priority) Decision {
	return Decision{Allowed: true, Priority: priority, Reason: "admitted"}
}

// priorityFor computes the priority a request would receive if admitted,
// independent of current load.
func priorityFor(tier Tier, reason Reason) Priority {
	switch reason {
	case ReasonUserRequest, ReasonGapRecovery:
		return PriorityP0
	case ReasonDiscovery:
		return PriorityP2
	case ReasonPeriodic:
		if tier == TierA || tier == TierB {
			return PriorityP2
		}
		return PriorityP3
	default:
		return PriorityP3
	}
}

// Decide is a pure function of (depth, tier, reason, lastSuccessAt): the same
// inputs always yield the same decision, including the same priority on
// repeated admission.
func Decide(depth int, tier Tier, reason Reason, lastSuccessAt *time.Time) Decision {
	if tier == TierA && reason == ReasonPeriodic && lastSuccessAt != nil {
		return deny("tier-a one-shot: already crawled once, manual intervention required")
	}

	priority := priorityFor(tier, reason)
	zone := ZoneForDepth(depth)

	switch zone {
	case ZoneHealthy:
		return admit(priority)
	case ZoneElevated:
		if priority == PriorityP3 {
			return deny("elevated load: P3 dropped")
		}
		return admit(priority)
	case ZoneOverloaded:
		// Tier-C/unknown PERIODIC is already P3 (see priorityFor) and is
		// caught by the P3 drop below; A/B PERIODIC stays P2 and survives.
		if priority == PriorityP3 {
			return deny("overloaded: P3 dropped")
		}
		return admit(priority)
	case ZoneCritical:
		if priority != PriorityP0 {
			return deny("critical load: only P0 admitted")
		}
		return admit(priority)
	default: // ZoneMeltdown
		return deny("meltdown: all crawls denied")
	}
}
