// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package breaker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yomira-app/yomira/internal/breaker"
)

func TestGlobalAuthBreaker_IsASingleton(t *testing.T) {
	a := breaker.GlobalAuthBreaker()
	b := breaker.GlobalAuthBreaker()
	assert.Same(t, a, b)
}

func TestAuthBreaker_PropagatesUnderlyingError(t *testing.T) {
	b := breaker.GlobalAuthBreaker()
	wantErr := errors.New("auth dependency unreachable")

	err := b.Call(context.Background(), func(ctx context.Context) error {
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
}

func TestAuthBreaker_TripsOpenAfterConsecutiveFailures(t *testing.T) {
	b := breaker.GlobalAuthBreaker()
	failing := errors.New("boom")

	// Drive enough consecutive failures to trip the breaker open, then
	// confirm subsequent calls are rejected without invoking fn.
	for i := 0; i < 10; i++ {
		_ = b.Call(context.Background(), func(ctx context.Context) error {
			return failing
		})
	}

	called := false
	err := b.Call(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, "open", b.State())
}
