// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and token lifetimes.
  - Content: Draft session and render cache lifetimes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "folio-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "folio.app"

	// AccessTokenTTL is how long an access token issued at login stays valid.
	AccessTokenTTL = 12 * time.Hour

	// PasswordHashCost is the bcrypt work factor for stored passwords.
	PasswordHashCost = 12
)

// # Content

const (
	// DraftSessionTTL bounds how long an idle editor session survives in Redis.
	DraftSessionTTL = 24 * time.Hour

	// DefaultSiteCacheTTL is used when SITE_CACHE_TTL is not configured.
	DefaultSiteCacheTTL = 60 * time.Second

	// MaxUploadBytes caps the size of an uploaded cover image.
	MaxUploadBytes = 5 << 20

	// MaxRequestBodyBytes caps JSON request bodies (documents included).
	MaxRequestBodyBytes = 2 << 20
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixDraft      = "editor:draft:"
	RedisPrefixDraftOwner = "editor:draft_owner:"
	RedisPrefixSitePage   = "site:page:"
	RedisKeySiteGen       = "site:generation"
)
