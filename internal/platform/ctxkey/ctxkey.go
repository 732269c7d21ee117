// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the unexported-type context keys written by middleware.
package ctxkey

type key uint8

const (
	// KeyRequestID holds the X-Request-ID value.
	KeyRequestID key = iota + 1

	// KeyUser holds the verified [sec.AuthClaims].
	KeyUser

	// KeyLogger holds the request-scoped *slog.Logger.
	KeyLogger
)
