// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access. Only honoured when the admin override policy is wired.
	RoleAdmin UserRole = "admin"

	// Trusted writer; reserved for future editorial workflows.
	RoleEditor UserRole = "editor"

	// Default role for registered users. Members own what they author.
	RoleMember UserRole = "member"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// IsValid reports whether r is a known role.
func (r UserRole) IsValid() bool {
	return r.level() > 0
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleEditor:
		return 20
	case RoleMember:
		return 10
	default:
		return 0
	}
}
