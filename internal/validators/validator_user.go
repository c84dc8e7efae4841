// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"

	"github.com/MKhiriev/go-account-keeper/models"
)

// Field name constants used to restrict [UserValidator.Validate] to a subset
// of checks. Attribute fields reuse the names of [models.Field].
const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// UserValidator validates user records and create requests.
// Empty optional attributes are accepted; present ones must be valid.
type UserValidator struct{}

func NewUserValidator() Validator {
	return &UserValidator{}
}

func (v *UserValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.User:
		return v.validateUser(ctx, value, fields...)
	case *models.User:
		return v.validateUser(ctx, *value, fields...)

	case models.CreateUserRequest:
		return v.validateCreateRequest(ctx, value, fields...)
	case *models.CreateUserRequest:
		return v.validateCreateRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *UserValidator) validateUser(_ context.Context, user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername}
		for _, f := range models.Fields {
			fields = append(fields, f.String())
		}
	}

	for _, f := range fields {
		if f == FieldUsername {
			if _, err := NormalizeUsername(user.Username); err != nil {
				return err
			}
			continue
		}

		field := models.Field(f)
		if !field.IsValid() {
			return ErrUnknownField
		}

		value := attributeValue(user, field)
		if value == "" {
			continue
		}
		if _, err := ValidateAttribute(field, value); err != nil {
			return err
		}
	}

	return nil
}

func (v *UserValidator) validateCreateRequest(ctx context.Context, request models.CreateUserRequest, fields ...string) error {
	if len(fields) == 0 {
		if err := ValidatePassword(request.Password); err != nil {
			return err
		}
		return v.validateUser(ctx, request.User)
	}

	userFields := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == FieldPassword {
			if err := ValidatePassword(request.Password); err != nil {
				return err
			}
			continue
		}
		userFields = append(userFields, f)
	}
	if len(userFields) == 0 {
		return nil
	}

	return v.validateUser(ctx, request.User, userFields...)
}

func attributeValue(user models.User, field models.Field) string {
	switch field {
	case models.FieldDisplayName:
		return user.DisplayName
	case models.FieldBirthDate:
		return user.BirthDate
	case models.FieldGender:
		return user.Gender
	case models.FieldEmail:
		return user.Email
	case models.FieldPreferredLanguage:
		return user.PreferredLanguage.String()
	case models.FieldRole:
		return user.Role.String()
	}
	return ""
}
