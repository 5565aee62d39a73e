// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package breaker

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// AuthBreaker wraps the auth dependency call path in a process-global
// circuit breaker. It is lazily initialized on first use and, per the
// spec's "global mutable state is intentional" design note, never torn
// down in normal operation.
type AuthBreaker struct {
	cb *gobreaker.CircuitBreaker
}

var (
	authBreakerOnce sync.Once
	authBreaker     *AuthBreaker
)

// GlobalAuthBreaker returns the process-wide [AuthBreaker] singleton.
func GlobalAuthBreaker() *AuthBreaker {
	authBreakerOnce.Do(func() {
		settings := gobreaker.Settings{
			Name:        "auth-dependency",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}
		authBreaker = &AuthBreaker{cb: gobreaker.NewCircuitBreaker(settings)}
	})
	return authBreaker
}

// Call executes fn through the breaker, tripping open after consecutive
// failures and rejecting immediately while open.
func (b *AuthBreaker) Call(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn(ctx)
	})
	return err
}

// State returns the name of the breaker's current state ("closed",
// "half-open" or "open"). No metric or stats handler reads it.
func (b *AuthBreaker) State() string {
	return b.cb.State().String()
}

// Counts exposes the breaker's rolling request counters.
func (b *AuthBreaker) Counts() gobreaker.Counts {
	return b.cb.Counts()
}
