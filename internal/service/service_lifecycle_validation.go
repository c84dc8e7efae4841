// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-account-keeper/internal/store"
	"github.com/MKhiriev/go-account-keeper/internal/validators"
	"github.com/MKhiriev/go-account-keeper/models"
)

// LifecycleValidationService normalizes usernames, rejects reserved names
// and validates attributes before anything reaches the inner service.
type LifecycleValidationService struct {
	inner     LifecycleService
	validator validators.Validator
	reserved  *validators.ReservedGuard
}

func NewLifecycleValidationService(reserved *validators.ReservedGuard) LifecycleServiceWrapper {
	return &LifecycleValidationService{
		validator: validators.NewUserValidator(),
		reserved:  reserved,
	}
}

func (v *LifecycleValidationService) CreateUser(ctx context.Context, user models.User, password string) error {
	username, err := v.subject(user.Username)
	if err != nil {
		return err
	}
	user.Username = username

	if err := v.validator.Validate(ctx, models.CreateUserRequest{User: user, Password: password}); err != nil {
		return fmt.Errorf("error during user validation before creating: %w", err)
	}

	if user.PreferredLanguage != "" {
		if user.PreferredLanguage, err = validators.ValidateLanguageCode(user.PreferredLanguage.String()); err != nil {
			return err
		}
	}
	if user.Role != "" {
		if user.Role, err = validators.ValidateRole(user.Role.String()); err != nil {
			return err
		}
	}
	user.PasswordHash = ""

	return v.inner.CreateUser(ctx, user, password)
}

func (v *LifecycleValidationService) DeleteUser(ctx context.Context, username string) error {
	username, err := v.subject(username)
	if err != nil {
		return err
	}

	return v.inner.DeleteUser(ctx, username)
}

func (v *LifecycleValidationService) RenameUser(ctx context.Context, oldUsername, newUsername string) error {
	oldUsername, err := v.subject(oldUsername)
	if err != nil {
		return err
	}
	newUsername, err = v.subject(newUsername)
	if err != nil {
		return err
	}
	if oldUsername == newUsername {
		return fmt.Errorf("%w: %q", store.ErrAlreadyExists, newUsername)
	}

	return v.inner.RenameUser(ctx, oldUsername, newUsername)
}

func (v *LifecycleValidationService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	username, err := v.subject(username)
	if err != nil {
		return err
	}
	if err := validators.ValidatePassword(newPassword); err != nil {
		return err
	}

	return v.inner.ChangePassword(ctx, username, oldPassword, newPassword)
}

func (v *LifecycleValidationService) ChangeAttribute(ctx context.Context, username string, field models.Field, value string) error {
	username, err := v.subject(username)
	if err != nil {
		return err
	}

	canonical, err := validators.ValidateAttribute(field, value)
	if err != nil {
		return err
	}

	return v.inner.ChangeAttribute(ctx, username, field, canonical)
}

func (v *LifecycleValidationService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	username, err := v.subject(username)
	if err != nil {
		return false, err
	}

	return v.inner.Authenticate(ctx, username, password)
}

func (v *LifecycleValidationService) GetUser(ctx context.Context, username string) (models.User, error) {
	username, err := validators.NormalizeUsername(username)
	if err != nil {
		return models.User{}, err
	}

	return v.inner.GetUser(ctx, username)
}

func (v *LifecycleValidationService) Wrap(wrapper LifecycleService) LifecycleService {
	v.inner = wrapper
	return v
}

// subject returns the canonical form of a username that an operation acts
// on, refusing reserved accounts.
func (v *LifecycleValidationService) subject(raw string) (string, error) {
	username, err := validators.NormalizeUsername(raw)
	if err != nil {
		return "", err
	}
	if err := v.reserved.Check(username); err != nil {
		return "", err
	}

	return username, nil
}
