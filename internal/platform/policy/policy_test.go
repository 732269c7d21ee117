// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package policy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/policy"
	"github.com/taibuivan/folio/internal/platform/sec"
)

const (
	ownerID    = "0190b5c4-7d1e-7a3b-9c2d-000000000001"
	strangerID = "0190b5c4-7d1e-7a3b-9c2d-000000000002"
)

var page = policy.Resource{Type: "page", ID: "0190b5c4-7d1e-7a3b-9c2d-0000000000aa", OwnerID: ownerID}

/*
TestPolicies checks each rule and the default composition.
*/
func TestPolicies(t *testing.T) {
	owner := policy.Actor{ID: ownerID, Role: sec.RoleMember}
	stranger := policy.Actor{ID: strangerID, Role: sec.RoleEditor}
	admin := policy.Actor{ID: strangerID, Role: sec.RoleAdmin}

	tests := []struct {
		name   string
		policy policy.Policy
		actor  policy.Actor
		want   policy.Decision
	}{
		{"ownership_owner", policy.Ownership{}, owner, policy.Allow},
		{"ownership_stranger", policy.Ownership{}, stranger, policy.Deny},
		{"ownership_anonymous", policy.Ownership{}, policy.Actor{}, policy.Deny},
		{"override_admin", policy.RoleOverride(sec.RoleAdmin), admin, policy.Allow},
		{"override_editor_abstains", policy.RoleOverride(sec.RoleAdmin), stranger, policy.Abstain},
		{"first_of_empty_denies", policy.FirstOf(), owner, policy.Deny},
		{"first_of_falls_through", policy.FirstOf(policy.RoleOverride(sec.RoleAdmin), policy.Ownership{}), owner, policy.Allow},
		{"default_ignores_admin", policy.Default(false), admin, policy.Deny},
		{"default_override_admin", policy.Default(true), admin, policy.Allow},
		{"default_override_stranger", policy.Default(true), stranger, policy.Deny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Check(context.Background(), tt.actor, policy.ActionUpdate, page))
		})
	}
}

/*
TestAuthorize returns a 403 for anything that is not an explicit allow.
*/
func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	owner := policy.Actor{ID: ownerID, Role: sec.RoleMember}
	stranger := policy.Actor{ID: strangerID, Role: sec.RoleMember}

	assert.NoError(t, policy.Authorize(ctx, policy.Ownership{}, owner, policy.ActionDelete, page))

	err := policy.Authorize(ctx, policy.Ownership{}, stranger, policy.ActionDelete, page)
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))
}
