// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
)

// ErrEmailTaken is returned by [UserRepository.Create] when the email is already registered.
var ErrEmailTaken = errors.New("auth: email already registered")

// UserRepository defines the persistence contract for accounts.
type UserRepository interface {

	/*
		Create persists a new account.

		Parameters:
		  - context: context.Context
		  - user: *User (ID and PasswordHash already set)

		Returns:
		  - error: ErrEmailTaken on a duplicate email, or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByEmail returns the account registered with email.

		Returns:
		  - *User: The account, including its password hash
		  - error: NotFound if no account matches
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByID returns the account with the given UUID.

		Returns:
		  - *User: The account
		  - error: NotFound if no account matches
	*/
	FindByID(context context.Context, id string) (*User, error)
}
