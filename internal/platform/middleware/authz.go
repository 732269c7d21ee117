// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/internal/platform/sec"
)

// TokenVerifier turns a bearer token into claims. [sec.TokenService] is the
// production implementation.
type TokenVerifier interface {
	VerifyToken(token string) (*sec.AuthClaims, error)
}

/*
Authenticate resolves the actor from "Authorization: Bearer <token>".

  - No header: the request continues anonymously.
  - Wrong scheme, empty token, bad signature or expiry: 401.
  - Valid token: the claims are stored with [ctxutil.WithAuthUser].

The public site and every GET of the API work anonymously, so nothing here
demands a token. That is [RequireAuth]'s job.
*/
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header := request.Header.Get(constants.HeaderAuthorization)
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			token, ok := bearer(header)
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
		})
	}
}

// bearer extracts the token of a case-insensitive "Bearer" header.
func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return token, true
}

// RequireAuth answers 401 unless [Authenticate] stored an actor.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
