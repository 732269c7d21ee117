// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/folio/internal/platform/apperr"
)

// Wrap inspects a database error and converts it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// resource names the entity in 404 messages (e.g. "Book").
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// Already classified further down
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint mapping by SQLSTATE
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(fmt.Sprintf("%s already exists", resource)).WithCause(err)
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError("Referenced record does not exist").WithCause(err)
		case pgerrcode.InvalidTextRepresentation:
			return apperr.NotFound(resource)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a unique violation, optionally on
// a specific constraint. An empty constraint matches any.
func IsUniqueViolation(err error, constraint string) bool {
	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) || pgError.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgError.ConstraintName == constraint
}
