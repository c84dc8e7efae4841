// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=LifecycleServiceWrapper

import (
	"context"

	"github.com/MKhiriev/go-account-keeper/models"
)

// LifecycleService keeps a user consistent across the profile store and the
// identity store. Every multi-store operation is run as a saga.
type LifecycleService interface {
	CreateUser(ctx context.Context, user models.User, password string) error
	DeleteUser(ctx context.Context, username string) error
	RenameUser(ctx context.Context, oldUsername, newUsername string) error
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
	ChangeAttribute(ctx context.Context, username string, field models.Field, value string) error
	Authenticate(ctx context.Context, username, password string) (bool, error)
	GetUser(ctx context.Context, username string) (models.User, error)
}

// LifecycleServiceWrapper defines middleware composition for LifecycleService.
// Implementations wrap an existing LifecycleService to add behavior such as
// validation.
type LifecycleServiceWrapper interface {
	Wrap(LifecycleService) LifecycleService // returns a decorated LifecycleService applying additional behavior
}

type AuthService interface {
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// ReconciliationService tracks usernames whose stores may disagree.
type ReconciliationService interface {
	// Flag records username after a failed compensation.
	Flag(ctx context.Context, username, operation string, cause error)
	// Flagged returns every flagged username.
	Flagged(ctx context.Context) []models.Discrepancy
	// Audit compares the username sets of both stores. It only reports;
	// nothing is repaired.
	Audit(ctx context.Context) ([]models.Discrepancy, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
