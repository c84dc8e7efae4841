// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/go-account-keeper/models"
)

// BirthDateLayout is the only accepted birth date format (DD-MM-YYYY).
const BirthDateLayout = "02-01-2006"

const maxFreeFormLength = 256

var (
	usernamePattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,31}$`)
	birthDatePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	emailPattern     = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)+$`)
	languagePattern  = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

// NormalizeUsername trims and lowercases raw and checks the result against
// the username syntax: 1 to 32 characters out of [a-z0-9._-], starting with
// a letter or digit.
func NormalizeUsername(raw string) (string, error) {
	username := strings.ToLower(strings.TrimSpace(raw))
	if !usernamePattern.MatchString(username) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}
	return username, nil
}

// ValidateBirthDate requires DD-MM-YYYY and a real calendar date.
// "2020-01-01" and "31-02-2020" are both rejected.
func ValidateBirthDate(s string) error {
	if !birthDatePattern.MatchString(s) {
		return fmt.Errorf("%w: birth date must be DD-MM-YYYY", ErrBadFormat)
	}
	if _, err := time.Parse(BirthDateLayout, s); err != nil {
		return fmt.Errorf("%w: birth date is not a calendar date", ErrBadFormat)
	}
	return nil
}

// ValidateEmail accepts simple local@domain.tld addresses.
func ValidateEmail(s string) error {
	if !emailPattern.MatchString(s) {
		return fmt.Errorf("%w: email must be local@domain.tld", ErrBadFormat)
	}
	return nil
}

// ValidateLanguageCode returns the canonical language for a two-letter code
// in any case. Anything that is not two letters is a format error; a
// well-formed code outside the supported set is ErrUnsupportedLanguage.
func ValidateLanguageCode(s string) (models.Language, error) {
	if !languagePattern.MatchString(s) {
		return "", fmt.Errorf("%w: language code must have two letters", ErrBadFormat)
	}

	lang, ok := models.ParseLanguage(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	return lang, nil
}

// ValidateRole returns the canonical role for s in any case.
func ValidateRole(s string) (models.Role, error) {
	role, ok := models.ParseRole(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return role, nil
}

// ValidatePassword rejects empty passwords.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// ValidateAttribute checks value against the rules of field and returns the
// value to store. Enumerated attributes are returned in canonical form.
func ValidateAttribute(field models.Field, value string) (string, error) {
	switch field {
	case models.FieldBirthDate:
		return value, ValidateBirthDate(value)
	case models.FieldEmail:
		return value, ValidateEmail(value)
	case models.FieldPreferredLanguage:
		lang, err := ValidateLanguageCode(value)
		return lang.String(), err
	case models.FieldRole:
		role, err := ValidateRole(value)
		return role.String(), err
	case models.FieldDisplayName, models.FieldGender:
		if utf8.RuneCountInString(value) > maxFreeFormLength {
			return "", fmt.Errorf("%w: %s is too long", ErrBadFormat, field)
		}
		return value, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}
