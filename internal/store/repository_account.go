// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/models"
)

// accountRepository is the SQLite-backed implementation of
// [AccountRepository] over the "accounts" table. Authorities are stored as a
// comma separated list.
type accountRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewAccountRepository constructs an [AccountRepository] backed by db.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, existsAccount, username).Scan(&exists); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*accountRepository.Exists").Msg("error checking account")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return exists, nil
}

func (r *accountRepository) Create(ctx context.Context, account models.Account) error {
	_, err := r.db.ExecContext(ctx, createAccount, accountArgs(account)...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*accountRepository.Create").Msg("error inserting account")
		if isSQLiteUniqueViolation(err) {
			return ErrAccountAlreadyExists
		}
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

func (r *accountRepository) Upsert(ctx context.Context, account models.Account) error {
	if _, err := r.db.ExecContext(ctx, upsertAccount, accountArgs(account)...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*accountRepository.Upsert").Msg("error upserting account")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

func (r *accountRepository) Get(ctx context.Context, username string) (models.Account, error) {
	account, err := scanAccount(r.db.QueryRowContext(ctx, getAccount, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", "*accountRepository.Get").Msg("error fetching account")
		return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return account, nil
}

// Rename copies the row under the new key and deletes the old one in a
// single transaction.
func (r *accountRepository) Rename(ctx context.Context, oldUsername, newUsername, newHome string) error {
	return r.inTx(ctx, "*accountRepository.Rename", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, copyAccountAs, newUsername, newHome, oldUsername)
		if err != nil {
			if isSQLiteUniqueViolation(err) {
				return ErrAccountAlreadyExists
			}
			return fmt.Errorf("unexpected DB error: %w", err)
		}
		if err := expectOneRow(result, ErrAccountNotFound); err != nil {
			return err
		}

		result, err = tx.ExecContext(ctx, deleteAccount, oldUsername)
		if err != nil {
			return fmt.Errorf("unexpected DB error: %w", err)
		}
		return expectOneRow(result, ErrAccountNotFound)
	})
}

// ReplacePasswordHash deletes the account and recreates it with newHash,
// keeping every other column. Both statements run in one transaction, so a
// failed recreate leaves the previous row in place.
func (r *accountRepository) ReplacePasswordHash(ctx context.Context, username, newHash string) error {
	return r.inTx(ctx, "*accountRepository.ReplacePasswordHash", func(tx *sql.Tx) error {
		account, err := scanAccount(tx.QueryRowContext(ctx, getAccount, username))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("unexpected DB error: %w", err)
		}

		result, err := tx.ExecContext(ctx, deleteAccount, username)
		if err != nil {
			return fmt.Errorf("unexpected DB error: %w", err)
		}
		if err := expectOneRow(result, ErrAccountNotFound); err != nil {
			return err
		}

		account.PasswordHash = newHash
		if _, err := tx.ExecContext(ctx, createAccount, accountArgs(account)...); err != nil {
			return fmt.Errorf("unexpected DB error: %w", err)
		}
		return nil
	})
}

func (r *accountRepository) Delete(ctx context.Context, username string) error {
	result, err := r.db.ExecContext(ctx, deleteAccount, username)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*accountRepository.Delete").Msg("error deleting account")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return expectOneRow(result, ErrAccountNotFound)
}

func (r *accountRepository) ListUsernames(ctx context.Context) ([]string, error) {
	return listUsernames(ctx, r.db, listAccountUsernames)
}

func (r *accountRepository) inTx(ctx context.Context, funcName string, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err := fn(tx); err != nil {
		log.Err(err).Str("func", funcName).Msg("rolling back transaction")
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Err(rbErr).Str("func", funcName).Msg("error rolling back transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func accountArgs(account models.Account) []any {
	createdAt := account.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return []any{
		account.Username,
		account.PasswordHash,
		account.HomeDirectory,
		strings.Join(account.Authorities, ","),
		createdAt,
	}
}

func scanAccount(row *sql.Row) (models.Account, error) {
	var (
		account     models.Account
		authorities string
	)

	if err := row.Scan(&account.Username, &account.PasswordHash, &account.HomeDirectory, &authorities, &account.CreatedAt); err != nil {
		return models.Account{}, err
	}

	if authorities != "" {
		account.Authorities = strings.Split(authorities, ",")
	}

	return account, nil
}
