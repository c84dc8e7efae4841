// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-account-keeper/models"
)

// ProfileRepository is the profile store: descriptive attributes and the
// password hash of every user, keyed by username.
type ProfileRepository interface {
	Exists(ctx context.Context, username string) (bool, error)
	// Create inserts user. A zero CreatedAt is set by the database.
	Create(ctx context.Context, user models.User) (models.User, error)
	// Delete removes the record and returns it as it was before deletion.
	Delete(ctx context.Context, username string) (models.User, error)
	Rename(ctx context.Context, oldUsername, newUsername string) error
	UpdateField(ctx context.Context, username string, field models.Field, value string) error
	Fetch(ctx context.Context, username string) (models.User, error)
	// UpdatePasswordHash replaces the hash only while the stored one still
	// equals oldHash.
	UpdatePasswordHash(ctx context.Context, username, newHash, oldHash string) error
	ListUsernames(ctx context.Context) ([]string, error)
}

// AccountRepository is the identity store's account registry.
type AccountRepository interface {
	Exists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, account models.Account) error
	Get(ctx context.Context, username string) (models.Account, error)
	// Rename moves the account row to newUsername with newHome as its home
	// directory, keeping every other column.
	Rename(ctx context.Context, oldUsername, newUsername, newHome string) error
	// ReplacePasswordHash deletes and recreates the row with newHash in one
	// transaction.
	ReplacePasswordHash(ctx context.Context, username, newHash string) error
	Delete(ctx context.Context, username string) error
	// Upsert creates or overwrites an account. Used by bootstrap only.
	Upsert(ctx context.Context, account models.Account) error
	ListUsernames(ctx context.Context) ([]string, error)
}

// HomeDirectoryStorage manages home directories below the identity root.
// Directories are addressed by slash-separated paths relative to the root;
// the empty path is the root itself.
type HomeDirectoryStorage interface {
	// Create makes dir and the given subdirectories. It fails with
	// ErrHomeDirectoryExists when dir is already present.
	Create(ctx context.Context, dir string, subdirs ...string) error
	Exists(ctx context.Context, dir string) (bool, error)
	// Migrate copies the contents of from into to and then removes from.
	// A failure part-way leaves both directories in place.
	Migrate(ctx context.Context, from, to string) error
	Delete(ctx context.Context, dir string) error
}

// IdentityStore owns credentials and home directories.
//
// Plaintext passwords are passed as byte slices; the store hashes them with
// its own hasher and never keeps them. Callers clear the slices afterwards.
type IdentityStore interface {
	Exists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, username string, password []byte) error
	Rename(ctx context.Context, oldUsername, newUsername string) error
	Delete(ctx context.Context, username string) error
	ReplacePassword(ctx context.Context, username string, password []byte) error
	Get(ctx context.Context, username string) (models.Account, error)
	ListUsernames(ctx context.Context) ([]string, error)
	// Provision creates or refreshes a reserved account together with its
	// home directory and extra subdirectories. It is idempotent.
	Provision(ctx context.Context, account models.Account, password []byte, extraDirs ...string) error
}
