// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account registration, login and the current-user lookup.

Access tokens are RS256 JWTs issued by [sec.TokenService]. There are no server
side sessions: a token is valid until it expires.
*/
package auth

import (
	"time"

	"github.com/taibuivan/folio/internal/platform/sec"
)

// # Domain Entities

// User represents a registered author or reader.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// # Field Identifiers

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
)

// # Constraints

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6

	// MinNameLength is the shortest accepted display name.
	MinNameLength = 2
)
