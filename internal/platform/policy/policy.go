// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package policy decides whether an actor may mutate a resource.

Every mutating service method asks a [Policy] before touching storage. Policies
return one of three decisions so they can be composed: a role rule can grant
access early and otherwise stay out of the way of the ownership rule.

Composition:

	policy.FirstOf(policy.RoleOverride(sec.RoleAdmin), policy.Ownership{})

Handlers never compare identities themselves.
*/
package policy

import (
	"context"
	"log/slog"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/sec"
)

// # Vocabulary

// Decision is the outcome of a single [Policy] check.
type Decision int

const (
	// Abstain lets the next policy in a chain decide.
	Abstain Decision = iota
	// Allow grants the action.
	Allow
	// Deny refuses the action.
	Deny
)

// String implements fmt.Stringer for logs.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "abstain"
	}
}

// Action names a mutation.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actor is the authenticated identity performing the action.
type Actor struct {
	ID   string
	Role sec.UserRole
}

// ActorFromClaims converts verified token claims into an [Actor].
func ActorFromClaims(claims *sec.AuthClaims) Actor {
	return Actor{ID: claims.UserID, Role: sec.UserRole(claims.Role)}
}

// Resource is the target of the action.
type Resource struct {
	Type    string
	ID      string
	OwnerID string
}

// Policy is a single authorization rule.
type Policy interface {
	Check(ctx context.Context, actor Actor, action Action, resource Resource) Decision
}

// # Rules

// Ownership allows the recorded author and denies everyone else.
type Ownership struct{}

// Check implements [Policy].
func (Ownership) Check(_ context.Context, actor Actor, _ Action, resource Resource) Decision {
	if actor.ID != "" && actor.ID == resource.OwnerID {
		return Allow
	}
	return Deny
}

// roleOverride allows actors at or above a role and abstains otherwise.
type roleOverride struct {
	minimum sec.UserRole
}

// RoleOverride returns a [Policy] that allows actors whose role is at least minimum.
func RoleOverride(minimum sec.UserRole) Policy {
	return roleOverride{minimum: minimum}
}

// Check implements [Policy].
func (rule roleOverride) Check(_ context.Context, actor Actor, _ Action, _ Resource) Decision {
	if actor.Role.AtLeast(rule.minimum) {
		return Allow
	}
	return Abstain
}

// chain evaluates policies in order.
type chain []Policy

// FirstOf returns a [Policy] whose decision is the first non-abstaining
// decision of policies. If every policy abstains, it denies.
func FirstOf(policies ...Policy) Policy {
	return chain(policies)
}

// Check implements [Policy].
func (policies chain) Check(ctx context.Context, actor Actor, action Action, resource Resource) Decision {
	for _, p := range policies {
		if decision := p.Check(ctx, actor, action, resource); decision != Abstain {
			return decision
		}
	}
	return Deny
}

// # Enforcement

// Authorize runs p and converts anything but Allow into a 403.
func Authorize(ctx context.Context, p Policy, actor Actor, action Action, resource Resource) error {
	decision := p.Check(ctx, actor, action, resource)
	if decision == Allow {
		return nil
	}

	ctxutil.GetLogger(ctx).WarnContext(ctx, "policy_denied",
		slog.String("actor_id", actor.ID),
		slog.String("action", string(action)),
		slog.String("resource_type", resource.Type),
		slog.String("resource_id", resource.ID),
		slog.String("decision", decision.String()),
	)

	return apperr.Forbidden("You are not allowed to " + string(action) + " this " + resource.Type)
}

// Default returns the policy used by the server.
// With adminOverride, admins may mutate any resource.
func Default(adminOverride bool) Policy {
	if adminOverride {
		return FirstOf(RoleOverride(sec.RoleAdmin), Ownership{})
	}
	return Ownership{}
}
