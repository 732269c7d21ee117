// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package testkit holds helpers shared by handler tests.

It wires the same Authenticate middleware the server uses, backed by a map of
opaque tokens to claims, so tests exercise the real 401/403 paths without RSA keys.
*/
package testkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/activity"
	"github.com/taibuivan/folio/internal/platform/middleware"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/pkg/pagination"
)

// Fixed identities used across tests.
const (
	OwnerID    = "0190b5c4-7d1e-7a3b-9c2d-00000000000a"
	StrangerID = "0190b5c4-7d1e-7a3b-9c2d-00000000000b"
	AdminID    = "0190b5c4-7d1e-7a3b-9c2d-00000000000c"

	OwnerToken    = "owner-token"
	StrangerToken = "stranger-token"
	AdminToken    = "admin-token"
)

// Verifier maps opaque tokens to claims.
type Verifier map[string]*sec.AuthClaims

// VerifyToken implements middleware.TokenVerifier.
func (verifier Verifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	claims, found := verifier[token]
	if !found {
		return nil, errors.New("testkit: unknown token")
	}
	return claims, nil
}

// DefaultVerifier knows the owner, stranger and admin tokens.
func DefaultVerifier() Verifier {
	return Verifier{
		OwnerToken:    {UserID: OwnerID, Name: "Owner", Role: string(sec.RoleMember)},
		StrangerToken: {UserID: StrangerID, Name: "Stranger", Role: string(sec.RoleMember)},
		AdminToken:    {UserID: AdminID, Name: "Admin", Role: string(sec.RoleAdmin)},
	}
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Router returns a chi router with Authenticate installed and routes mounted at pattern.
func Router(pattern string, routes http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(DefaultVerifier()))
	router.Mount(pattern, routes)
	return router
}

// Do sends a request with an optional JSON body and bearer token.
func Do(t *testing.T, handler http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

// Data decodes the {"data": ...} envelope into target.
func Data(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope), recorder.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, target))
}

// Meta decodes the pagination block of a paginated envelope.
func Meta(t *testing.T, recorder *httptest.ResponseRecorder) pagination.Meta {
	t.Helper()
	envelope := struct {
		Meta pagination.Meta `json:"meta"`
	}{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope), recorder.Body.String())
	return envelope.Meta
}

// ErrorCode returns the "code" of an error envelope.
func ErrorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	envelope := struct {
		Code string `json:"code"`
	}{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope), recorder.Body.String())
	return envelope.Code
}

// Claims returns the claims behind token, for service-level tests.
func Claims(token string) *sec.AuthClaims {
	return DefaultVerifier()[token]
}

// Recorder captures activity entries in memory.
type Recorder struct {
	mu      sync.Mutex
	Entries []activity.Entry
}

// Record implements activity.Recorder.
func (recorder *Recorder) Record(_ context.Context, entry activity.Entry) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.Entries = append(recorder.Entries, entry)
	return nil
}

// Actions returns the recorded actions in order.
func (recorder *Recorder) Actions() []activity.Action {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	actions := make([]activity.Action, 0, len(recorder.Entries))
	for _, entry := range recorder.Entries {
		actions = append(actions, entry.Action)
	}
	return actions
}
