// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

The body is capped at [constants.MaxRequestBodyBytes].

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	body := http.MaxBytesReader(nil, request.Body, constants.MaxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter that must hold a UUID.

Returns:
  - string: The identifier
  - error: apperr.NotFound(resource) when the value is not a UUID, since such
    a row cannot exist
*/
func ID(request *http.Request, name, resource string) (string, error) {
	value := chi.URLParam(request, name)
	if !validate.IsUUID(value) {
		return "", apperr.NotFound(resource)
	}
	return value, nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
QueryBool parses a boolean query parameter ("true", "1", "yes").
Anything else, including absence, is false.
*/
func QueryBool(request *http.Request, name string) bool {
	raw := strings.ToLower(strings.TrimSpace(request.URL.Query().Get(name)))
	if raw == "yes" {
		return true
	}
	value, err := strconv.ParseBool(raw)
	return err == nil && value
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.
*/
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
