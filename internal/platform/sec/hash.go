// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/folio/internal/platform/constants"
)

// HashPassword hashes a plain-text password using bcrypt at [constants.PasswordHashCost].
func HashPassword(plainTextPassword string) (string, error) {
	return hashPasswordWithCost(plainTextPassword, constants.PasswordHashCost)
}

// HashPasswordFast hashes with bcrypt's minimum cost. Tests use it to stay quick.
func HashPasswordFast(plainTextPassword string) (string, error) {
	return hashPasswordWithCost(plainTextPassword, bcrypt.MinCost)
}

func hashPasswordWithCost(plainTextPassword string, cost int) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
