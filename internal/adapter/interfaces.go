// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the admin client of the account service.
//
// [AccountAdapter] mirrors the HTTP API one method per route. Non-2xx
// responses are mapped back to sentinel errors (see errors.go) so callers
// can use [errors.Is] instead of inspecting status codes.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-account-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/account_adapter_mock.go -package=mock

// AccountAdapter talks to the account service on behalf of an operator.
type AccountAdapter interface {
	// SetToken stores the bearer token attached to authenticated requests.
	SetToken(token string)

	// Token returns the stored bearer token, or "" if none was set.
	Token() string

	// Create registers a new user.
	Create(ctx context.Context, user models.User, password string) error

	// Login authenticates and stores the returned bearer token.
	Login(ctx context.Context, username, password string) (models.Token, error)

	Get(ctx context.Context, username string) (models.User, error)
	Delete(ctx context.Context, username string) error
	Rename(ctx context.Context, oldUsername, newUsername string) error
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
	ChangeAttribute(ctx context.Context, username string, field models.Field, value string) error

	// Reconciliation returns flagged usernames, plus a fresh audit when
	// audit is true. Requires an ADMIN token.
	Reconciliation(ctx context.Context, audit bool) (models.ReconciliationReport, error)
}
