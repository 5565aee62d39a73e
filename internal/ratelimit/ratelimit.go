// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ratelimit implements the shared key-scoped fixed-window rate
// limiter. Its one caller is the login lockout check in internal/breaker;
// progress writes and sync adapter calls are not rate-limited through it.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result is the outcome of a single [Limiter.Allow] call.
type Result struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Limiter is a fixed-window counter keyed by an arbitrary string. The
// primary path is a shared Redis INCR+EXPIRE; if Redis is unavailable it
// falls back to [MemoryStore], a process-global bounded map.
type Limiter struct {
	client *redis.Client
}

// NewLimiter constructs a [Limiter] backed by client. client may be nil,
// in which case every call falls back to [MemoryStore] directly.
func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// Allow reports whether the caller may proceed under key, given limit
// requests per window. It never mutates a previously stored record in
// place; both the Redis path (INCR returns the new count atomically) and
// the memory fallback always write a fresh record.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	if l.client != nil {
		result, err := l.allowRedis(ctx, key, limit, window)
		if err == nil {
			return result, nil
		}
		// Shared store unavailable: degrade to the local fallback rather
		// than fail the request outright.
	}
	return GlobalMemoryStore().Allow(key, limit, window), nil
}

func (l *Limiter) allowRedis(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return Result{}, err
	}
	if count == 1 {
		l.client.Expire(ctx, key, window)
	}
	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   int(count) <= limit,
		Remaining: remaining,
		Limit:     limit,
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

// record is an immutable snapshot of a key's window state. MemoryStore
// never mutates a record in place: every increment replaces the map entry
// wholesale with a new record value, which is what makes concurrent
// increments linearize correctly instead of racing on a shared counter.
type record struct {
	count     int
	resetTime time.Time
}

// MemoryStore is the bounded in-memory rate-limit fallback. It is pinned
// to a process-global singleton (see [GlobalMemoryStore]) so that module
// reload or re-construction never resets accumulated counters, matching
// the spec's requirement that the store survive across environments.
type MemoryStore struct {
	mu       sync.Mutex
	records  map[string]record
	maxKeys  int
	order    []string // coarse LRU-ish eviction order, oldest first
}

const defaultMaxTrackedKeys = 100_000

// NewMemoryStore constructs a bounded [MemoryStore]. Most callers should
// use [GlobalMemoryStore] instead, since the spec pins this state process-
// wide; NewMemoryStore exists for isolated unit tests.
func NewMemoryStore(maxKeys int) *MemoryStore {
	if maxKeys <= 0 {
		maxKeys = defaultMaxTrackedKeys
	}
	return &MemoryStore{
		records: make(map[string]record),
		maxKeys: maxKeys,
	}
}

var (
	globalStoreOnce sync.Once
	globalStore     *MemoryStore
)

// GlobalMemoryStore returns the process-wide [MemoryStore] singleton,
// lazily initialized on first use and never torn down in normal operation.
func GlobalMemoryStore() *MemoryStore {
	globalStoreOnce.Do(func() {
		globalStore = NewMemoryStore(defaultMaxTrackedKeys)
	})
	return globalStore
}

// Allow increments key's counter and reports whether the caller may
// proceed. It always writes a brand-new record rather than mutating the
// existing one in place, so concurrent callers racing on the same key
// each see a consistent old-count-plus-one, never a lost update.
func (s *MemoryStore) Allow(key string, limit int, window time.Duration) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	existing, ok := s.records[key]

	var next record
	if !ok || now.After(existing.resetTime) {
		next = record{count: 1, resetTime: now.Add(window)}
		if !ok {
			s.evictIfFullLocked()
			s.order = append(s.order, key)
		}
	} else {
		next = record{count: existing.count + 1, resetTime: existing.resetTime}
	}

	s.records[key] = next

	remaining := limit - next.count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   next.count <= limit,
		Remaining: remaining,
		Limit:     limit,
		ResetAt:   next.resetTime,
	}
}

// evictIfFullLocked drops the oldest tracked key once the store is at
// capacity. Callers must hold s.mu.
func (s *MemoryStore) evictIfFullLocked() {
	if len(s.records) < s.maxKeys {
		return
	}
	for len(s.order) > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		if _, ok := s.records[oldest]; ok {
			delete(s.records, oldest)
			return
		}
	}
}
