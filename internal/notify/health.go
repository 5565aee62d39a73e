// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// HealthGate derives [SystemHealth] from a circuit breaker wrapping the
// delivery path's recent outcomes. It is a process-global singleton: the
// breaker's state must survive across requests and goroutines, exactly
// like the auth circuit breaker in internal/breaker.
type HealthGate struct {
	cb *gobreaker.CircuitBreaker
}

var (
	healthGateOnce sync.Once
	healthGate     *HealthGate
)

// GlobalHealthGate returns the process-wide [HealthGate] singleton.
func GlobalHealthGate() *HealthGate {
	healthGateOnce.Do(func() {
		settings := gobreaker.Settings{
			Name:        "notification-delivery",
			MaxRequests: 5,
			Interval:    time.Minute,
			Timeout:     20 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.Requests >= 10 && float64(counts.TotalFailures)/float64(counts.Requests) > 0.5
			},
		}
		healthGate = &HealthGate{cb: gobreaker.NewCircuitBreaker(settings)}
	})
	return healthGate
}

// RecordOutcome feeds one delivery attempt's result into the breaker.
func (h *HealthGate) RecordOutcome(succeeded bool) {
	_, _ = h.cb.Execute(func() (any, error) {
		if succeeded {
			return nil, nil
		}
		return nil, errDeliveryFailed
	})
}

// Health maps the breaker's state onto the pipeline's [SystemHealth]. Open
// maps to Rejected (drop new events outright); Closed maps to Normal or
// Overloaded depending on the recent failure ratio (still closed, but
// elevated); HalfOpen (cautiously probing recovery) maps to Critical,
// meaning only premium subscribers are served until it recovers.
func (h *HealthGate) Health() SystemHealth {
	state := h.cb.State()
	counts := h.cb.Counts()

	switch state {
	case gobreaker.StateOpen:
		return HealthRejected
	case gobreaker.StateHalfOpen:
		return HealthCritical
	default:
		if counts.Requests > 0 && float64(counts.TotalFailures)/float64(counts.Requests) > 0.2 {
			return HealthOverloaded
		}
		return HealthNormal
	}
}

var errDeliveryFailed = &deliveryError{}

type deliveryError struct{}

func (e *deliveryError) Error() string { return "notification delivery failed" }
