// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"fmt"
)

// Base sentinels shared by both stores. Callers should use [errors.Is]
// against these rather than the store-specific variants below.
var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a record with the same key exists.
	ErrAlreadyExists = errors.New("already exists")
)

// Store-specific variants of the base sentinels.
var (
	ErrProfileNotFound      = fmt.Errorf("profile %w", ErrNotFound)
	ErrProfileAlreadyExists = fmt.Errorf("profile %w", ErrAlreadyExists)

	ErrAccountNotFound      = fmt.Errorf("account %w", ErrNotFound)
	ErrAccountAlreadyExists = fmt.Errorf("account %w", ErrAlreadyExists)

	ErrHomeDirectoryNotFound = fmt.Errorf("home directory %w", ErrNotFound)
	ErrHomeDirectoryExists   = fmt.Errorf("home directory %w", ErrAlreadyExists)

	// ErrPasswordHashMismatch is returned by a conditional password hash
	// update when the stored hash no longer equals the expected one, i.e.
	// the record changed concurrently.
	ErrPasswordHashMismatch = fmt.Errorf("password hash changed concurrently: %w", ErrNotFound)
)

var (
	// ErrUnknownField is returned when an update targets a column outside
	// the profile field whitelist.
	ErrUnknownField = errors.New("unknown profile field")

	// ErrInvalidHomeDirectory is returned for home directory paths that
	// escape the identity root.
	ErrInvalidHomeDirectory = errors.New("invalid home directory")
)

// Low-level database operation errors. These are wrapped by repository
// methods when a SQL-level operation fails before any domain logic can be
// applied.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrScanningRows         = errors.New("failed to scan rows")
)
