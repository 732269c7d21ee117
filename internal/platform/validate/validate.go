// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field errors for a request and returns them as a
// single VALIDATION_ERROR carrying one detail per failed field.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/folio/internal/platform/apperr"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	uuidPattern  = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator accumulates failures. Rules chain and never stop early, so one
// response reports every bad field. Not safe for concurrent use.
type Validator struct {
	errs []apperr.FieldError
}

// # Text

// Required fails on an empty or whitespace-only value.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) != "", "This field is required")
}

// Text is [Validator.Required] plus [Validator.MaxLen], the rule for names and titles.
// Only the first failure is reported for field.
func (v *Validator) Text(field, value string, max int) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.fail(field, "This field is required")
	}
	return v.MaxLen(field, value, max)
}

// MaxLen counts characters, not bytes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) <= max, fmt.Sprintf("Maximum %d characters", max))
}

// MinLen counts characters, not bytes.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) >= min, fmt.Sprintf("Minimum %d characters", min))
}

// # Formats

// Email accepts a bare RFC 5322 address.
func (v *Validator) Email(field, value string) *Validator {
	_, err := mail.ParseAddress(value)
	return v.check(field, err == nil, "Must be a valid email address")
}

// URL accepts absolute http and https URLs only.
func (v *Validator) URL(field, value string) *Validator {
	parsed, err := url.Parse(value)
	valid := err == nil && parsed.Host != "" && (parsed.Scheme == "http" || parsed.Scheme == "https")
	return v.check(field, valid, "Must be a valid http(s) URL")
}

// Slug accepts lowercase ASCII words joined by single hyphens.
func (v *Validator) Slug(field, value string) *Validator {
	return v.check(field, slugPattern.MatchString(value), "Must be a valid URL slug (lowercase letters, digits, hyphens only)")
}

// UUID accepts a canonical UUID in either case.
func (v *Validator) UUID(field, value string) *Validator {
	return v.check(field, IsUUID(value), "Must be a valid UUID")
}

// Color accepts #rgb and #rrggbb.
func (v *Validator) Color(field, value string) *Validator {
	return v.check(field, colorPattern.MatchString(value), "Must be a hex color (#rgb or #rrggbb)")
}

// OneOf accepts only the listed values.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.check(field, slices.Contains(allowed, value), "Must be one of: "+strings.Join(allowed, ", "))
}

// Custom records message when failed is true.
//
//	v.Custom("content", len(raw) == 0, "Is required")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(field, !failed, message)
}

// # Result

// Err returns nil when every rule passed.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) check(field string, ok bool, message string) *Validator {
	if !ok {
		v.fail(field, message)
	}
	return v
}

func (v *Validator) fail(field, message string) *Validator {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	return v
}

// IsUUID reports whether s is a canonical UUID string.
func IsUUID(s string) bool {
	return uuidPattern.MatchString(strings.ToLower(s))
}
