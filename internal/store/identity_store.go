// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/MKhiriev/go-account-keeper/internal/crypto"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/models"
)

// identityStore implements [IdentityStore] on top of an account registry and
// a home directory storage. Regular accounts live in "<root>/<username>".
type identityStore struct {
	accounts AccountRepository
	homes    HomeDirectoryStorage
	hasher   crypto.PasswordHasher
	logger   *logger.Logger
}

// NewIdentityStore constructs an [IdentityStore]. Passwords are hashed with
// hasher, independently of the profile store's hash.
func NewIdentityStore(accounts AccountRepository, homes HomeDirectoryStorage, hasher crypto.PasswordHasher, logger *logger.Logger) IdentityStore {
	logger.Debug().Msg("creating identity store")
	return &identityStore{
		accounts: accounts,
		homes:    homes,
		hasher:   hasher,
		logger:   logger,
	}
}

func (s *identityStore) Exists(ctx context.Context, username string) (bool, error) {
	return s.accounts.Exists(ctx, username)
}

// Create makes a fresh home directory first and then the account row. A
// directory left behind by an earlier account of the same name is never
// handed to the new one: Create fails with [ErrHomeDirectoryExists] and an
// operator has to clear it. If the row cannot be written the new directory is
// removed again.
func (s *identityStore) Create(ctx context.Context, username string, password []byte) error {
	log := logger.FromContext(ctx)

	exists, err := s.accounts.Exists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return ErrAccountAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.homes.Create(ctx, username); err != nil {
		if errors.Is(err, ErrHomeDirectoryExists) {
			log.Warn().Str("func", "*identityStore.Create").Str("username", username).Msg("stale home directory in the way, refusing to reuse it")
		}
		return err
	}

	err = s.accounts.Create(ctx, models.Account{
		Username:      username,
		PasswordHash:  hash,
		HomeDirectory: username,
		Authorities:   []string{models.AuthorityWrite},
	})
	if err != nil {
		if rmErr := s.homes.Delete(ctx, username); rmErr != nil {
			log.Err(rmErr).Str("func", "*identityStore.Create").Str("username", username).Msg("error removing home directory after failed create")
		}
		return err
	}

	return nil
}

// Rename moves the account row and then migrates the home directory. If the
// migration fails the row is moved back and the error returned. The home
// storage guarantees that a failed migration leaves no destination behind.
func (s *identityStore) Rename(ctx context.Context, oldUsername, newUsername string) error {
	log := logger.FromContext(ctx)

	account, err := s.accounts.Get(ctx, oldUsername)
	if err != nil {
		return err
	}

	exists, err := s.accounts.Exists(ctx, newUsername)
	if err != nil {
		return err
	}
	if exists {
		return ErrAccountAlreadyExists
	}

	newHome := account.HomeDirectory
	if account.HomeDirectory == oldUsername {
		newHome = newUsername
	}

	if err := s.accounts.Rename(ctx, oldUsername, newUsername, newHome); err != nil {
		return err
	}

	if newHome == account.HomeDirectory {
		return nil
	}

	if err := s.homes.Migrate(ctx, account.HomeDirectory, newHome); err != nil {
		log.Err(err).Str("func", "*identityStore.Rename").
			Str("old_username", oldUsername).
			Str("new_username", newUsername).
			Msg("home directory migration failed, moving account back")

		if rbErr := s.accounts.Rename(ctx, newUsername, oldUsername, account.HomeDirectory); rbErr != nil {
			return errors.Join(err, fmt.Errorf("error moving account back: %w", rbErr))
		}
		return err
	}

	return nil
}

// Delete removes the account row and then its home directory. A failed
// directory removal is logged; the account deletion stands.
func (s *identityStore) Delete(ctx context.Context, username string) error {
	account, err := s.accounts.Get(ctx, username)
	if err != nil {
		return err
	}

	if err := s.accounts.Delete(ctx, username); err != nil {
		return err
	}

	if account.HomeDirectory == "" {
		return nil
	}

	if err := s.homes.Delete(ctx, account.HomeDirectory); err != nil && !errors.Is(err, ErrHomeDirectoryNotFound) {
		logger.FromContext(ctx).Err(err).Str("func", "*identityStore.Delete").Str("username", username).Msg("error removing home directory")
	}

	return nil
}

func (s *identityStore) ReplacePassword(ctx context.Context, username string, password []byte) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return s.accounts.ReplacePasswordHash(ctx, username, hash)
}

func (s *identityStore) Get(ctx context.Context, username string) (models.Account, error) {
	return s.accounts.Get(ctx, username)
}

func (s *identityStore) ListUsernames(ctx context.Context) ([]string, error) {
	return s.accounts.ListUsernames(ctx)
}

// Provision writes account with a fresh hash of password and makes sure its
// home directory and extraDirs exist. Running it again refreshes the
// password and keeps existing files.
func (s *identityStore) Provision(ctx context.Context, account models.Account, password []byte, extraDirs ...string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	account.PasswordHash = hash

	err = s.homes.Create(ctx, account.HomeDirectory, extraDirs...)
	if errors.Is(err, ErrHomeDirectoryExists) {
		nested := make([]string, 0, len(extraDirs))
		for _, dir := range extraDirs {
			nested = append(nested, path.Join(account.HomeDirectory, dir))
		}
		err = s.homes.Create(ctx, "", nested...)
	}
	if err != nil {
		return fmt.Errorf("error provisioning home directory: %w", err)
	}

	if err := s.accounts.Upsert(ctx, account); err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Str("func", "*identityStore.Provision").Str("username", account.Username).Msg("account provisioned")
	return nil
}
