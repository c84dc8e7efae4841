// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-account-keeper/internal/config"
	"github.com/MKhiriev/go-account-keeper/internal/crypto"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
)

// Storages groups both backing stores so they can be passed to the service
// layer as one value.
type Storages struct {
	// ProfileRepository is the PostgreSQL-backed profile store.
	ProfileRepository ProfileRepository

	// IdentityStore is the account registry plus home directories.
	IdentityStore IdentityStore

	closers []func() error
}

// NewStorages connects both stores and runs their migrations:
//  1. Opens PostgreSQL for the profile store and migrates "profiles".
//  2. Opens SQLite for the account registry and migrates "accounts".
//  3. Builds the home directory storage selected by cfg.Identity.HomeBackend.
//
// hasher is the identity store's own password hasher.
func NewStorages(ctx context.Context, cfg config.Storage, hasher crypto.PasswordHasher, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	profilesDB, err := NewConnectPostgres(ctx, cfg.Profiles, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}
	if err := profilesDB.Migrate(ctx); err != nil {
		profilesDB.Close()
		return nil, fmt.Errorf("profile store migration failed: %w", err)
	}

	accountsDB, err := NewConnectSQLite(ctx, cfg.Identity, logger)
	if err != nil {
		profilesDB.Close()
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}
	if err := accountsDB.Migrate(ctx); err != nil {
		profilesDB.Close()
		accountsDB.Close()
		return nil, fmt.Errorf("account registry migration failed: %w", err)
	}

	homes, err := newHomeDirectoryStorage(ctx, cfg.Identity, logger)
	if err != nil {
		profilesDB.Close()
		accountsDB.Close()
		return nil, err
	}

	return &Storages{
		ProfileRepository: NewProfileRepository(profilesDB, logger),
		IdentityStore:     NewIdentityStore(NewAccountRepository(accountsDB, logger), homes, hasher, logger),
		closers:           []func() error{profilesDB.Close, accountsDB.Close},
	}, nil
}

// Close releases both database connections.
func (s *Storages) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		errs = append(errs, closeFn())
	}

	return errors.Join(errs...)
}

func newHomeDirectoryStorage(ctx context.Context, cfg config.Identity, logger *logger.Logger) (HomeDirectoryStorage, error) {
	switch cfg.HomeBackend {
	case config.HomeBackendS3:
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("s3 client error: %w", err)
		}
		return NewS3HomeStorage(client, cfg.S3.Bucket, cfg.Root, logger), nil
	case config.HomeBackendLocal, "":
		return NewLocalHomeStorage(cfg.Root, logger)
	default:
		return nil, fmt.Errorf("unknown home directory backend %q", cfg.HomeBackend)
	}
}
