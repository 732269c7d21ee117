// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores and reads the per-request values set by middleware:
// the correlation ID, the request logger and the authenticated actor.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/folio/internal/platform/ctxkey"
	"github.com/taibuivan/folio/internal/platform/sec"
)

// lookup returns the value under key when it has type T and is not the zero value.
func lookup[T comparable](ctx context.Context, key any) (T, bool) {
	var zero T
	value, ok := ctx.Value(key).(T)
	if !ok || value == zero {
		return zero, false
	}
	return value, true
}

// # Request Tracing

// WithRequestID attaches the X-Request-ID value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the correlation ID, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := lookup[string](ctx, ctxkey.KeyRequestID)
	return id
}

// # Structured Logging

// WithLogger attaches the request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, or [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	return GetLoggerOr(ctx, slog.Default())
}

// GetLoggerOr returns the request logger, or fallback outside a request.
// Background renders use it with the component's own logger.
func GetLoggerOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := lookup[*slog.Logger](ctx, ctxkey.KeyLogger); ok {
		return logger
	}
	return fallback
}

// # Identity

// WithAuthUser attaches the claims of a verified bearer token.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetAuthUser returns the authenticated actor, or nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := lookup[*sec.AuthClaims](ctx, ctxkey.KeyUser)
	return claims
}
