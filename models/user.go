// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User is the profile-store representation of an account. It carries the
// descriptive attributes of a person; credentials and the home directory
// live in the identity store (see [Account]).
//
// The username is the join key between both stores and is immutable once
// set: a rename produces a new logical identity and removes the old one.
type User struct {
	// Username is the canonical (lowercase) unique account name.
	Username string `json:"username"`

	// DisplayName is the human-readable name shown in UI.
	DisplayName string `json:"display_name"`

	// Email is the contact address in `local@domain.tld` form.
	Email string `json:"email"`

	// BirthDate is stored as entered, in DD-MM-YYYY form.
	BirthDate string `json:"birth_date"`

	// Gender is a free-form attribute.
	Gender string `json:"gender"`

	// PreferredLanguage defaults to [LanguageEN] when empty.
	PreferredLanguage Language `json:"preferred_language"`

	// Role defaults to [RoleUser] when empty.
	Role Role `json:"role"`

	// PasswordHash is the salted hash produced by the credential hasher.
	// It is never serialized to clients and must never be logged.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WithDefaults returns a copy of u with the enumerated attributes set to
// their defaults when they were left empty.
func (u User) WithDefaults() User {
	if u.PreferredLanguage == "" {
		u.PreferredLanguage = LanguageEN
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return u
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "profiles"
}
