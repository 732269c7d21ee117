// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "Manual de Usuario", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("name", tt.value)

			if !tt.hasError {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
				return
			}

			ae := apperr.As(v.Err())
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Equal(t, 400, ae.HTTPStatus)
			assert.Equal(t, "name", ae.Details[0].Field)
		})
	}
}

/*
TestValidator_Formats checks the format rules used by the content domains.
*/
func TestValidator_Formats(t *testing.T) {
	tests := []struct {
		name  string
		apply func(v *validate.Validator)
		valid bool
	}{
		{"email_ok", func(v *validate.Validator) { v.Email("email", "ana@folio.app") }, true},
		{"email_missing_domain", func(v *validate.Validator) { v.Email("email", "ana@") }, false},
		{"url_ok", func(v *validate.Validator) { v.URL("cover", "https://cdn.folio.app/c.png") }, true},
		{"url_relative", func(v *validate.Validator) { v.URL("cover", "/c.png") }, false},
		{"url_javascript", func(v *validate.Validator) { v.URL("cover", "javascript:alert(1)") }, false},
		{"slug_ok", func(v *validate.Validator) { v.Slug("slug", "api-reference-2") }, true},
		{"slug_trailing_hyphen", func(v *validate.Validator) { v.Slug("slug", "api-") }, false},
		{"uuid_ok", func(v *validate.Validator) { v.UUID("id", "0190b5c4-7d1e-7a3b-9c2d-1e2f3a4b5c6d") }, true},
		{"uuid_bad", func(v *validate.Validator) { v.UUID("id", "42") }, false},
		{"color_short", func(v *validate.Validator) { v.Color("color", "#fff") }, true},
		{"color_long", func(v *validate.Validator) { v.Color("color", "#0EA5E9") }, true},
		{"color_named", func(v *validate.Validator) { v.Color("color", "blue") }, false},
		{"oneof_ok", func(v *validate.Validator) { v.OneOf("type", "page", "page", "article") }, true},
		{"oneof_bad", func(v *validate.Validator) { v.OneOf("type", "book", "page", "article") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			tt.apply(v)
			assert.Equal(t, !tt.valid, v.HasErrors())
		})
	}
}

/*
TestValidator_Text reports one failure per field for names and titles.
*/
func TestValidator_Text(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError string
	}{
		{"ok", "Quickstart", ""},
		{"blank", "  ", "This field is required"},
		{"too_long", "Ñandú en el café", "Maximum 10 characters"},
		{"multibyte_within_limit", "Ñandú café", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&validate.Validator{}).Text("title", tt.value, 10).Err()
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}
			ae := apperr.As(err)
			require.NotNil(t, ae)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, tt.wantError, ae.Details[0].Message)
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	err := (&validate.Validator{}).
		Required("name", "").
		MinLen("name", "a", 2).
		Email("email", "not-an-email").
		MaxLen("title", "0123456789", 5).
		Err()

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 4)
}
