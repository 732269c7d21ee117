// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec holds password hashing, RS256 access tokens and account roles.
//
// The auth service signs through its TokenProvider interface and the
// middleware verifies through TokenVerifier; neither sees a key.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT access token.
//
// The actor identity and role travel inside the token, so the Authenticate
// middleware rebuilds the actor without a database round trip.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
	Name   string `json:"nam"`
	Role   string `json:"rol"`
}

// TokenService handles generation and verification of JWT tokens using RS256.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService loads the RS256 key pair from PEM files.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKey, err := readPEM(privateKeyPath, jwt.ParseRSAPrivateKeyFromPEM)
	if err != nil {
		return nil, err
	}
	publicKey, err := readPEM(publicKeyPath, jwt.ParseRSAPublicKeyFromPEM)
	if err != nil {
		return nil, err
	}
	return NewTokenServiceFromKeys(privateKey, publicKey, issuer), nil
}

func readPEM[K any](path string, parse func([]byte) (K, error)) (K, error) {
	var zero K
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("sec: failed to read key %s: %w", path, err)
	}
	key, err := parse(data)
	if err != nil {
		return zero, fmt.Errorf("sec: failed to parse key %s: %w", path, err)
	}
	return key, nil
}

// NewTokenServiceFromKeys builds a TokenService from already parsed keys.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
	}
}

// GenerateAccessToken creates a new JWT access token for a user.
func (service *TokenService) GenerateAccessToken(userID, name, role string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
		Name:   name,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature, issuer, expiry and role of a JWT string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.publicKey, nil
	}, jwt.WithIssuer(service.issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.UserID == "" || !UserRole(claims.Role).IsValid() {
		return nil, errors.New("sec: invalid token claims")
	}

	return claims, nil
}
