// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/middleware"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/testkit"
	"github.com/taibuivan/folio/internal/users/auth"
)

// # Fakes

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*auth.User{}}
}

func (repo *fakeUsers) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return auth.ErrEmailTaken
		}
	}
	user.CreatedAt, user.UpdatedAt = time.Now(), time.Now()
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *fakeUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, found := repo.users[id]; found {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "token-for-" + userID, nil
}

func newService() *auth.Service {
	return auth.NewService(newFakeUsers(), fakeTokens{}, testkit.Logger()).WithHasher(sec.HashPasswordFast)
}

// # Service

/*
TestService_Register covers validation and the duplicate email rule.
*/
func TestService_Register(t *testing.T) {
	service := newService()
	ctx := context.Background()

	user, err := service.Register(ctx, auth.RegisterInput{Email: "ana@folio.app", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleMember, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	tests := []struct {
		name  string
		input auth.RegisterInput
		field string
	}{
		{"duplicate_email", auth.RegisterInput{Email: "ANA@folio.app", Password: "secret1", Name: "Ana"}, auth.FieldEmail},
		{"bad_email", auth.RegisterInput{Email: "ana", Password: "secret1", Name: "Ana"}, auth.FieldEmail},
		{"short_password", auth.RegisterInput{Email: "bo@folio.app", Password: "12345", Name: "Bo"}, auth.FieldPassword},
		{"short_name", auth.RegisterInput{Email: "bo@folio.app", Password: "secret1", Name: " B "}, auth.FieldName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(ctx, tt.input)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, 400, ae.HTTPStatus)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}
}

/*
TestService_Login issues a token for valid credentials only.
*/
func TestService_Login(t *testing.T) {
	service := newService()
	ctx := context.Background()

	user, err := service.Register(ctx, auth.RegisterInput{Email: "ana@folio.app", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)

	result, err := service.Login(ctx, auth.LoginInput{Email: "ana@folio.app", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+user.ID, result.AccessToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Positive(t, result.ExpiresIn)

	for _, input := range []auth.LoginInput{
		{Email: "ana@folio.app", Password: "wrong-pass"},
		{Email: "nobody@folio.app", Password: "secret1"},
	} {
		_, err := service.Login(ctx, input)
		assert.True(t, apperr.HasCode(err, "UNAUTHORIZED"))
	}
}

// # HTTP

/*
TestHandler_RegisterLoginMe walks the account flow over HTTP.
*/
func TestHandler_RegisterLoginMe(t *testing.T) {
	users := newFakeUsers()
	service := auth.NewService(users, fakeTokens{}, testkit.Logger()).WithHasher(sec.HashPasswordFast)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(testkit.Verifier{}))
	auth.NewHandler(service).Mount(router)

	recorder := testkit.Do(t, router, http.MethodPost, "/register",
		map[string]string{"email": "ana@folio.app", "password": "secret1", "name": "Ana"}, "")
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "password")

	var created auth.User
	testkit.Data(t, recorder, &created)

	recorder = testkit.Do(t, router, http.MethodPost, "/register",
		map[string]string{"email": "ana@folio.app", "password": "secret1", "name": "Ana"}, "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = testkit.Do(t, router, http.MethodPost, "/login",
		map[string]string{"email": "ana@folio.app", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var login auth.LoginResult
	testkit.Data(t, recorder, &login)
	assert.Equal(t, created.ID, login.User.ID)

	recorder = testkit.Do(t, router, http.MethodGet, "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_Me returns the authenticated account.
*/
func TestHandler_Me(t *testing.T) {
	users := newFakeUsers()
	require.NoError(t, users.Create(context.Background(), &auth.User{
		ID: testkit.OwnerID, Email: "owner@folio.app", Name: "Owner", Role: sec.RoleMember,
	}))

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(testkit.DefaultVerifier()))
	auth.NewHandler(auth.NewService(users, fakeTokens{}, testkit.Logger())).Mount(router)

	recorder := testkit.Do(t, router, http.MethodGet, "/me", nil, testkit.OwnerToken)
	require.Equal(t, http.StatusOK, recorder.Code)

	var me auth.User
	testkit.Data(t, recorder, &me)
	assert.Equal(t, "owner@folio.app", me.Email)

	recorder = testkit.Do(t, router, http.MethodGet, "/me", nil, "forged")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
