// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yomira-app/yomira/internal/platform/apperr"
)

// Postgres SQLSTATE codes this package classifies explicitly.
const (
	sqlStateUniqueViolation    = "23505"
	sqlStateSerializationFail  = "40001"
	sqlStateLockNotAvailable   = "55P03"
	sqlStateDeadlockDetected   = "40P01"
	sqlStateCheckViolation     = "23514"
	sqlStateForeignKeyViolation = "23503"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			return &apperr.AppError{
				Code:       "CONFLICT",
				Message:    action + " conflicts with an existing record",
				HTTPStatus: 409,
				Cause:      err,
			}
		case sqlStateSerializationFail, sqlStateLockNotAvailable, sqlStateDeadlockDetected:
			// Transient contention: IsRetryable reports it as retryable; no
			// caller in this code retries on it.
			return &apperr.AppError{
				Code:       "CONFLICT",
				Message:    action + " could not complete due to a concurrent update, retry",
				HTTPStatus: 409,
				Cause:      err,
			}
		case sqlStateCheckViolation, sqlStateForeignKeyViolation:
			return apperr.ValidationError(action + " violates a data constraint")
		}
	}

	// Unknown query errors become Internal Server Errors.
	return apperr.Internal(err)
}

// IsRetryable reports whether err represents a transient condition (lock
// contention, serialization failure, deadlock) that a bounded-backoff retry
// inside the same logical request may resolve.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case sqlStateSerializationFail, sqlStateLockNotAvailable, sqlStateDeadlockDetected:
		return true
	default:
		return false
	}
}
