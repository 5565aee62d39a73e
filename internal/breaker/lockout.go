// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package breaker holds the two global-state safety valves shared across
// the API: login lockout (bounded scan over recent attempts) and the
// circuit breaker guarding the auth dependency.
package breaker

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomira-app/yomira/internal/platform/database/schema"
	"github.com/yomira-app/yomira/internal/ratelimit"
)

const (
	lockoutWindow    = 15 * time.Minute
	lockoutThreshold = 5
	lockoutRetryAfter = 15 * time.Minute

	enumerationLimit  = 20
	enumerationWindow = time.Hour
)

// LoginLockout implements the five-failed-attempts-per-15-minutes rule
// from §4.6, scanning login_attempts with a LIMIT to bound cost, and
// itself rate-limits the check per email as an enumeration defense.
type LoginLockout struct {
	pool    *pgxpool.Pool
	limiter *ratelimit.Limiter
}

// NewLoginLockout constructs a [LoginLockout].
func NewLoginLockout(pool *pgxpool.Pool, limiter *ratelimit.Limiter) *LoginLockout {
	return &LoginLockout{pool: pool, limiter: limiter}
}

// Record appends a login attempt (success or failure) to the audit table.
func (l *LoginLockout) Record(ctx context.Context, email, ip string, success bool) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, now())`,
		schema.SystemLoginAttempt.Table,
		schema.SystemLoginAttempt.Email,
		schema.SystemLoginAttempt.IPAddress,
		schema.SystemLoginAttempt.Success,
		schema.SystemLoginAttempt.AttemptedAt,
	)
	_, err := l.pool.Exec(ctx, query, email, ip, success)
	return err
}

// CheckAndRecord reports whether (email, ip) is currently locked out. The
// enumeration-defense rate limit is checked first and independently of the
// lockout scan itself.
func (l *LoginLockout) CheckAndRecord(ctx context.Context, email, ip string) (locked bool, retryAfter time.Duration, err error) {
	enumerationKey := "lockout-check:" + email
	result, rlErr := l.limiter.Allow(ctx, enumerationKey, enumerationLimit, enumerationWindow)
	if rlErr == nil && !result.Allowed {
		// The check itself is being hammered (enumeration attempt): respond
		// identically to a real lockout rather than distinguishing the two,
		// so the caller can't use response shape to tell lockout from probing.
		return true, lockoutRetryAfter, nil
	}

	query := fmt.Sprintf(
		`SELECT count(*) FROM (
			SELECT 1 FROM %s
			WHERE (%s = $1 OR %s = $2) AND %s = false AND %s >= $3
			LIMIT %d
		) recent_failures`,
		schema.SystemLoginAttempt.Table,
		schema.SystemLoginAttempt.Email,
		schema.SystemLoginAttempt.IPAddress,
		schema.SystemLoginAttempt.Success,
		schema.SystemLoginAttempt.AttemptedAt,
		lockoutThreshold,
	)

	var count int
	since := time.Now().Add(-lockoutWindow)
	if err := l.pool.QueryRow(ctx, query, email, ip, since).Scan(&count); err != nil {
		return false, 0, err
	}

	if count >= lockoutThreshold {
		return true, lockoutRetryAfter, nil
	}
	return false, 0, nil
}
