// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/config"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/middleware"
	"github.com/taibuivan/folio/internal/platform/testkit"
)

// whoami answers with the actor's user ID, or "anonymous".
var whoami = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	if claims := ctxutil.GetAuthUser(request.Context()); claims != nil {
		_, _ = writer.Write([]byte(claims.UserID))
		return
	}
	_, _ = writer.Write([]byte("anonymous"))
})

func serve(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAuthenticate lets anonymous requests through and rejects bad tokens.
*/
func TestAuthenticate(t *testing.T) {
	handler := middleware.Authenticate(testkit.DefaultVerifier())(whoami)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"anonymous", "", http.StatusOK, "anonymous"},
		{"bearer", "Bearer " + testkit.OwnerToken, http.StatusOK, testkit.OwnerID},
		{"lowercase_scheme", "bearer " + testkit.OwnerToken, http.StatusOK, testkit.OwnerID},
		{"basic_scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ""},
		{"empty_token", "Bearer  ", http.StatusUnauthorized, ""},
		{"unknown_token", "Bearer forged", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				request.Header.Set(constants.HeaderAuthorization, tt.header)
			}

			recorder := serve(handler, request)
			require.Equal(t, tt.wantCode, recorder.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, recorder.Body.String())
			} else {
				assert.Equal(t, "UNAUTHORIZED", testkit.ErrorCode(t, recorder))
			}
		})
	}
}

/*
TestRequireAuth blocks anonymous callers after Authenticate.
*/
func TestRequireAuth(t *testing.T) {
	handler := middleware.Authenticate(testkit.DefaultVerifier())(middleware.RequireAuth(whoami))

	recorder := serve(handler, httptest.NewRequest(http.MethodPost, "/api/books", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodPost, "/api/books", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+testkit.StrangerToken)
	recorder = serve(handler, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, testkit.StrangerID, recorder.Body.String())
}

/*
TestRateLimit rejects a client once its burst is spent and keeps others apart.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	handler := middleware.RateLimit(ctx, 0.001, 2)(whoami)
	from := func(ip string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderXRealIP, ip)
		return serve(handler, request)
	}

	assert.Equal(t, http.StatusOK, from("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, from("10.0.0.1").Code)

	limited := from("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", testkit.ErrorCode(t, limited))

	assert.Equal(t, http.StatusOK, from("10.0.0.2").Code)
}

/*
TestPanicRecovery turns a handler panic into a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(testkit.Logger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("renderer exploded")
	}))

	recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/books/guide", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "INTERNAL_ERROR", testkit.ErrorCode(t, recorder))
}

/*
TestRequestID reuses the caller's ID and mints one otherwise.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "req-42")
	recorder := serve(handler, request)
	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", recorder.Header().Get(constants.HeaderXRequestID))

	recorder = serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestCORS allows configured origins in production and answers preflights.
*/
func TestCORS(t *testing.T) {
	production := &config.Config{Environment: "production", AllowedOriginSuffix: "folio.app"}
	handler := middleware.CORS(production)(whoami)

	tests := []struct {
		name        string
		method      string
		origin      string
		wantCode    int
		wantAllowed bool
	}{
		{"no_origin", http.MethodGet, "", http.StatusOK, false},
		{"subdomain", http.MethodGet, "https://docs.folio.app", http.StatusOK, true},
		{"foreign", http.MethodGet, "https://evil.example", http.StatusOK, false},
		{"preflight", http.MethodOptions, "https://folio.app", http.StatusNoContent, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, "/api/books", nil)
			if tt.origin != "" {
				request.Header.Set(constants.HeaderOrigin, tt.origin)
			}

			recorder := serve(handler, request)
			assert.Equal(t, tt.wantCode, recorder.Code)
			if tt.wantAllowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
