// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-account-keeper/internal/crypto"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/store"
	"github.com/MKhiriev/go-account-keeper/models"
)

// Operation names used in errors, logs and metrics.
const (
	OpCreateUser      = "create_user"
	OpDeleteUser      = "delete_user"
	OpRenameUser      = "rename_user"
	OpChangePassword  = "change_password"
	OpChangeAttribute = "change_attribute"
)

// lifecycleService is the saga coordinator. It expects canonical input;
// validation and the reserved-name guard live in [LifecycleValidationService].
//
// Step 1 of every saga runs against the profile store and step 2 against
// the identity store.
type lifecycleService struct {
	profiles   store.ProfileRepository
	identity   store.IdentityStore
	hasher     crypto.PasswordHasher
	locks      *KeyedMutex
	reconciler ReconciliationService
	metrics    *Metrics
	logger     *logger.Logger
}

// NewLifecycleService constructs the coordinator. hasher produces the
// profile store's password hash; the identity store hashes on its own.
// reconciler and metrics may be nil.
func NewLifecycleService(
	profiles store.ProfileRepository,
	identity store.IdentityStore,
	hasher crypto.PasswordHasher,
	reconciler ReconciliationService,
	metrics *Metrics,
	logger *logger.Logger,
) LifecycleService {
	return &lifecycleService{
		profiles:   profiles,
		identity:   identity,
		hasher:     hasher,
		locks:      NewKeyedMutex(),
		reconciler: reconciler,
		metrics:    metrics,
		logger:     logger,
	}
}

func (s *lifecycleService) CreateUser(ctx context.Context, user models.User, password string) error {
	defer s.locks.Lock(user.Username)()

	plaintext := []byte(password)
	defer clear(plaintext)

	user = user.WithDefaults()

	return s.execute(ctx, saga{
		operation: OpCreateUser,
		username:  user.Username,
		steps: []step{
			{
				name: "create profile",
				forward: func(ctx context.Context) error {
					hash, err := s.hasher.Hash(plaintext)
					if err != nil {
						return fmt.Errorf("error hashing password: %w", err)
					}
					user.PasswordHash = hash
					_, err = s.profiles.Create(ctx, user)
					return err
				},
				compensate: func(ctx context.Context) error {
					_, err := s.profiles.Delete(ctx, user.Username)
					return err
				},
			},
			{
				name: "create identity account",
				forward: func(ctx context.Context) error {
					return s.identity.Create(ctx, user.Username, plaintext)
				},
			},
		},
	})
}

func (s *lifecycleService) DeleteUser(ctx context.Context, username string) error {
	defer s.locks.Lock(username)()

	var retained models.User

	return s.execute(ctx, saga{
		operation: OpDeleteUser,
		username:  username,
		steps: []step{
			{
				name: "delete profile",
				forward: func(ctx context.Context) error {
					deleted, err := s.profiles.Delete(ctx, username)
					if err != nil {
						return err
					}
					retained = deleted
					return nil
				},
				compensate: func(ctx context.Context) error {
					_, err := s.profiles.Create(ctx, retained)
					return err
				},
			},
			{
				name: "delete identity account",
				forward: func(ctx context.Context) error {
					return s.identity.Delete(ctx, username)
				},
			},
		},
	})
}

func (s *lifecycleService) RenameUser(ctx context.Context, oldUsername, newUsername string) error {
	defer s.locks.Lock(oldUsername, newUsername)()

	return s.execute(ctx, saga{
		operation: OpRenameUser,
		username:  oldUsername,
		related:   []string{newUsername},
		steps: []step{
			{
				name: "rename profile",
				forward: func(ctx context.Context) error {
					return s.profiles.Rename(ctx, oldUsername, newUsername)
				},
				compensate: func(ctx context.Context) error {
					return s.profiles.Rename(ctx, newUsername, oldUsername)
				},
			},
			{
				name: "rename identity account",
				forward: func(ctx context.Context) error {
					return s.identity.Rename(ctx, oldUsername, newUsername)
				},
			},
		},
	})
}

// ChangePassword rejects with [ErrIncorrectPassword] when oldPassword does
// not match the stored hash.
func (s *lifecycleService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	defer s.locks.Lock(username)()

	oldPlaintext := []byte(oldPassword)
	newPlaintext := []byte(newPassword)
	defer clear(oldPlaintext)
	defer clear(newPlaintext)

	var previousHash, newHash string

	return s.execute(ctx, saga{
		operation: OpChangePassword,
		username:  username,
		steps: []step{
			{
				name: "update profile password hash",
				forward: func(ctx context.Context) error {
					user, err := s.profiles.Fetch(ctx, username)
					if err != nil {
						return err
					}

					ok, err := s.hasher.Verify(oldPlaintext, user.PasswordHash)
					if err != nil {
						return fmt.Errorf("error verifying password: %w", err)
					}
					if !ok {
						return ErrIncorrectPassword
					}

					newHash, err = s.hasher.Hash(newPlaintext)
					if err != nil {
						return fmt.Errorf("error hashing password: %w", err)
					}

					previousHash = user.PasswordHash
					return s.profiles.UpdatePasswordHash(ctx, username, newHash, previousHash)
				},
				compensate: func(ctx context.Context) error {
					return s.profiles.UpdatePasswordHash(ctx, username, previousHash, newHash)
				},
			},
			{
				name: "replace identity password",
				forward: func(ctx context.Context) error {
					return s.identity.ReplacePassword(ctx, username, newPlaintext)
				},
			},
		},
	})
}

func (s *lifecycleService) ChangeAttribute(ctx context.Context, username string, field models.Field, value string) error {
	defer s.locks.Lock(username)()

	return s.execute(ctx, saga{
		operation: OpChangeAttribute,
		username:  username,
		steps: []step{
			{
				name: "update profile " + field.String(),
				forward: func(ctx context.Context) error {
					return s.profiles.UpdateField(ctx, username, field, value)
				},
			},
		},
	})
}

func (s *lifecycleService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	log := logger.FromContext(ctx)

	plaintext := []byte(password)
	defer clear(plaintext)

	user, err := s.profiles.Fetch(ctx, username)
	if err != nil {
		return false, err
	}

	ok, err := s.hasher.Verify(plaintext, user.PasswordHash)
	if err != nil {
		log.Err(err).Str("func", "*lifecycleService.Authenticate").Str("username", username).Msg("stored password hash is unreadable")
		return false, fmt.Errorf("error verifying password: %w", err)
	}

	return ok, nil
}

func (s *lifecycleService) GetUser(ctx context.Context, username string) (models.User, error) {
	user, err := s.profiles.Fetch(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = ""

	return user, nil
}

// execute runs sg, records its outcome and flags the username when the
// stores were left inconsistent.
func (s *lifecycleService) execute(ctx context.Context, sg saga) error {
	started := time.Now()
	outcome, err := sg.run(ctx)
	s.metrics.observe(sg.operation, outcome, time.Since(started))

	log := logger.FromContext(ctx)
	switch outcome {
	case OutcomeCommitted:
		log.Info().Str("operation", sg.operation).Str("username", sg.username).Msg("operation committed")
	case OutcomeRolledBack:
		log.Warn().Err(err).Str("operation", sg.operation).Str("username", sg.username).Msg("operation rolled back")
	case OutcomeInconsistent:
		if s.reconciler != nil {
			flagCtx := context.WithoutCancel(ctx)
			s.reconciler.Flag(flagCtx, sg.username, sg.operation, err)
			for _, name := range sg.related {
				s.reconciler.Flag(flagCtx, name, sg.operation, err)
			}
		}
	}

	return err
}
