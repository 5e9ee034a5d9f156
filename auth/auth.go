// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const bearerPrefix = "Bearer "

var (
	ErrMissingToken = errors.New("token is missing")
	ErrInvalidToken = errors.New("invalid token")
)

// BearerHeader formats a credential for the Authorization header
func BearerHeader(token string) string {
	return bearerPrefix + token
}

// ParseBearer extracts the credential from an Authorization header value.
// A value without the "Bearer " prefix is taken as the bare token, which is
// what the voting service accepts too.
func ParseBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrInvalidToken
	}
	return token, nil
}

// GenerateToken creates a random opaque credential
func GenerateToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// Fingerprint returns a short one-way hash of a credential, safe to log.
// Empty tokens fingerprint to "-".
func Fingerprint(token string) string {
	if token == "" {
		return "-"
	}
	sum := sha256.Sum256([]byte(token))
	// First 6 bytes (12 hex chars) is enough to tell sessions apart in logs
	return hex.EncodeToString(sum[:6])
}
