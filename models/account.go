// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// AuthorityWrite grants write access to the account's home directory.
const AuthorityWrite = "write"

// Account is the identity-store representation of a user: the credential
// used by the file service and the home directory it is confined to.
type Account struct {
	// Username is the canonical account name, shared with [User.Username].
	Username string `json:"username"`

	// PasswordHash is the identity store's own salted hash of the password.
	PasswordHash string `json:"-"`

	// HomeDirectory is the canonical location of the account's files,
	// relative to the identity root ("" means the root itself).
	HomeDirectory string `json:"home_directory"`

	// Authorities lists the permissions granted to the account.
	Authorities []string `json:"authorities"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}
