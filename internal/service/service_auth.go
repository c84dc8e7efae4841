// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-account-keeper/internal/config"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/store"
	"github.com/MKhiriev/go-account-keeper/internal/utils"
	"github.com/MKhiriev/go-account-keeper/models"
)

// authService is the concrete implementation of AuthService.
// It issues and verifies HMAC-SHA256 signed JWTs carrying the username and
// role of the caller. Parsed tokens are checked against the profile store.
type authService struct {
	profiles store.ProfileRepository

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService populated with token
// parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(cfg config.App, profiles store.ProfileRepository, logger *logger.Logger) AuthService {
	return &authService{
		profiles:      profiles,
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim and the user's role, and expires after
// tokenDuration.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.Username, user.Role, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*authService.CreateToken").Str("username", user.Username).Msg("error creating token")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid so that callers do not need to inspect
// low-level JWT errors.
//
// The subject must still have a profile created no later than the token was
// issued, so tokens of a deleted user do not carry over to a new account
// with the same name. The returned Role is the stored one.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Debug().Err(err).Str("func", "*authService.ParseToken").Msg("rejected token")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	user, err := a.profiles.Fetch(ctx, token.Username)
	if errors.Is(err, store.ErrProfileNotFound) {
		log.Debug().Str("func", "*authService.ParseToken").Str("username", token.Username).Msg("token subject no longer exists")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.ParseToken").Str("username", token.Username).Msg("error loading token subject")
		return models.Token{}, fmt.Errorf("error loading token subject: %w", err)
	}

	if token.IssuedAt.Before(user.CreatedAt.Truncate(time.Second)) {
		log.Debug().Str("func", "*authService.ParseToken").Str("username", token.Username).Msg("token predates the account")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	token.Role = user.Role
	return token, nil
}
