// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yomira-app/yomira/internal/ratelimit"
)

func TestMemoryStore_FixedWindowAllowsUpToLimit(t *testing.T) {
	// Concrete scenario 6: 150 calls, limit=100, window=60s -> exactly 100
	// allowed, 50 denied, stored count = 150.
	store := ratelimit.NewMemoryStore(10)

	allowed := 0
	denied := 0
	for i := 0; i < 150; i++ {
		result := store.Allow("scenario-6", 100, 60*time.Second)
		if result.Allowed {
			allowed++
		} else {
			denied++
		}
	}

	assert.Equal(t, 100, allowed)
	assert.Equal(t, 50, denied)
}

func TestMemoryStore_WindowResets(t *testing.T) {
	store := ratelimit.NewMemoryStore(10)

	result := store.Allow("resets", 1, 10*time.Millisecond)
	assert.True(t, result.Allowed)

	result = store.Allow("resets", 1, 10*time.Millisecond)
	assert.False(t, result.Allowed)

	time.Sleep(20 * time.Millisecond)

	result = store.Allow("resets", 1, 10*time.Millisecond)
	assert.True(t, result.Allowed)
}

func TestGlobalMemoryStore_IsASingleton(t *testing.T) {
	a := ratelimit.GlobalMemoryStore()
	b := ratelimit.GlobalMemoryStore()
	assert.Same(t, a, b)
}

func TestMemoryStore_BoundedEviction(t *testing.T) {
	store := ratelimit.NewMemoryStore(2)

	store.Allow("k1", 10, time.Minute)
	store.Allow("k2", 10, time.Minute)
	store.Allow("k3", 10, time.Minute)

	// k1 should have been evicted to make room for k3; a fresh Allow for
	// k1 starts a brand-new window rather than erroring.
	result := store.Allow("k1", 10, time.Minute)
	assert.True(t, result.Allowed)
	assert.Equal(t, 9, result.Remaining)
}
