// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/models"
)

// profileRepository is the PostgreSQL-backed implementation of
// [ProfileRepository] over the "profiles" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type profileRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewProfileRepository constructs a [ProfileRepository] backed by db.
func NewProfileRepository(db *DB, logger *logger.Logger) ProfileRepository {
	logger.Debug().Msg("creating profile repository")
	return &profileRepository{
		db:     db,
		logger: logger,
	}
}

func (r *profileRepository) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, existsProfile, username).Scan(&exists); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*profileRepository.Exists").Msg("error checking profile")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return exists, nil
}

// Create inserts user and returns it with the timestamps assigned by the
// database. A unique violation maps to [ErrProfileAlreadyExists].
func (r *profileRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	var createdAt sql.NullTime
	if !user.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: user.CreatedAt, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, createProfile,
		user.Username,
		user.DisplayName,
		user.Email,
		user.BirthDate,
		user.Gender,
		user.PreferredLanguage.String(),
		user.Role.String(),
		user.PasswordHash,
		createdAt,
	)

	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		log.Err(err).Str("func", "*profileRepository.Create").Msg("error inserting profile")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrProfileAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return user, nil
}

// Delete removes the profile and returns the deleted record, including its
// password hash, so that it can be restored.
func (r *profileRepository) Delete(ctx context.Context, username string) (models.User, error) {
	user, err := scanProfile(r.db.QueryRowContext(ctx, deleteProfile, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrProfileNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", "*profileRepository.Delete").Msg("error deleting profile")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

func (r *profileRepository) Rename(ctx context.Context, oldUsername, newUsername string) error {
	result, err := r.db.ExecContext(ctx, renameProfile, oldUsername, newUsername)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*profileRepository.Rename").Msg("error renaming profile")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return ErrProfileAlreadyExists
		default:
			return fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return expectOneRow(result, ErrProfileNotFound)
}

// UpdateField sets a single whitelisted column. The UPDATE is assembled with
// squirrel since the column name varies per call.
func (r *profileRepository) UpdateField(ctx context.Context, username string, field models.Field, value string) error {
	log := logger.FromContext(ctx)

	if !field.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	query, args, err := sq.Update(models.User{}.TableName()).
		Set(field.String(), value).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"username": username}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*profileRepository.UpdateField").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*profileRepository.UpdateField").Str("field", field.String()).Msg("error updating profile")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return expectOneRow(result, ErrProfileNotFound)
}

func (r *profileRepository) Fetch(ctx context.Context, username string) (models.User, error) {
	user, err := scanProfile(r.db.QueryRowContext(ctx, fetchProfile, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrProfileNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", "*profileRepository.Fetch").Msg("error fetching profile")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

// UpdatePasswordHash is a compare-and-swap on the password hash. When no row
// matched, a follow-up existence check tells a missing profile
// ([ErrProfileNotFound]) from a concurrent change ([ErrPasswordHashMismatch]).
func (r *profileRepository) UpdatePasswordHash(ctx context.Context, username, newHash, oldHash string) error {
	result, err := r.db.ExecContext(ctx, updateProfilePasswordHash, username, newHash, oldHash)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*profileRepository.UpdatePasswordHash").Msg("error updating password hash")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	err = expectOneRow(result, ErrProfileNotFound)
	if !errors.Is(err, ErrProfileNotFound) {
		return err
	}

	exists, existsErr := r.Exists(ctx, username)
	if existsErr != nil {
		return existsErr
	}
	if exists {
		return ErrPasswordHashMismatch
	}

	return ErrProfileNotFound
}

func (r *profileRepository) ListUsernames(ctx context.Context) ([]string, error) {
	return listUsernames(ctx, r.db, listProfileUsernames)
}

func scanProfile(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.Username,
		&user.DisplayName,
		&user.Email,
		&user.BirthDate,
		&user.Gender,
		&user.PreferredLanguage,
		&user.Role,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	return user, err
}

func expectOneRow(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return notFound
	}

	return nil
}

func listUsernames(ctx context.Context, db *DB, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	usernames := make([]string, 0)
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		usernames = append(usernames, username)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return usernames, nil
}
