// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, name, role string, timeToLive time.Duration) (string, error)
}

// PasswordHasher hashes new passwords. Tests swap in a cheap cost.
type PasswordHasher func(plainTextPassword string) (string, error)

// Service implements account use cases.
type Service struct {
	users  UserRepository
	tokens TokenProvider
	hash   PasswordHasher
	logger *slog.Logger
}

// NewService constructs a new [Service] hashing with [sec.HashPassword].
func NewService(users UserRepository, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, hash: sec.HashPassword, logger: logger}
}

// WithHasher replaces the password hasher and returns the service.
func (service *Service) WithHasher(hash PasswordHasher) *Service {
	service.hash = hash
	return service
}

// # Registration Flow

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

/*
Register validates, hashes, and persists a new member account.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: ValidationError (including a duplicate email) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MinLen(FieldName, input.Name, MinNameLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Early duplicate check for a friendly field error; the unique key decides races.
	if _, err := service.users.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.FieldInvalid(FieldEmail, "Email is already registered")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	hashedPassword, err := service.hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		Role:         sec.RoleMember,
	}

	if err := service.users.Create(context, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperr.FieldInvalid(FieldEmail, "Email is already registered")
		}
		return nil, err
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
	User        *User  `json:"user"`
}

/*
Login validates credentials and issues an access token.

Returns:
  - *LoginResult: Token and profile
  - error: Unauthorized with a generic message for any bad credential
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Generic message to prevent account enumeration
	user, err := service.users.FindByEmail(context, strings.TrimSpace(input.Email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Name, string(user.Role), constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))

	return &LoginResult{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(constants.AccessTokenTTL.Seconds()),
		User:        user,
	}, nil
}

// Me returns the account of the authenticated user.
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.users.FindByID(context, userID)
}
