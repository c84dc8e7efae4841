// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the claim set carried by access tokens.
//
// The "sub" claim holds the username. Role is the profile role at issue
// time; the server replaces it with the stored role when parsing.
type TokenClaims struct {
	jwt.RegisteredClaims

	Role Role `json:"role,omitempty"`
}

// Token is an issued or parsed access token.
type Token struct {
	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// Username is the subject of the token.
	Username string `json:"username"`

	// Role is the role of the subject.
	Role Role `json:"role"`

	// IssuedAt is the "iat" claim, truncated to seconds.
	IssuedAt time.Time `json:"-"`

	// ExpiresAt is the expiry of the token.
	ExpiresAt time.Time `json:"expires_at"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}

// IsAdmin reports whether the token was issued to an administrator.
func (t Token) IsAdmin() bool {
	return t.Role == RoleAdmin
}
