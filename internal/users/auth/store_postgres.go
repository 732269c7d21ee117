// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
)

// userRepository implements [UserRepository] using pgx.
type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a PostgreSQL backed account store.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

var userColumns = strings.Join(schema.UserAccount.Columns(), ", ")

// Create implements [UserRepository].
func (repository *userRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Name,
		schema.UserAccount.Password, schema.UserAccount.Role,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if dberr.IsUniqueViolation(err, schema.UserAccount.EmailKey) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("postgres: failed to create account: %w", err)
	}
	return nil
}

// FindByEmail implements [UserRepository].
func (repository *userRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1)`,
		userColumns, schema.UserAccount.Table, schema.UserAccount.Email)
	return repository.scanOne(context, query, email)
}

// FindByID implements [UserRepository].
func (repository *userRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, schema.UserAccount.Table, schema.UserAccount.ID)
	return repository.scanOne(context, query, id)
}

func (repository *userRepository) scanOne(context context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}
