// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-account-keeper/internal/logger"
)

const (
	homeDirPerm  fs.FileMode = 0o750
	homeFilePerm fs.FileMode = 0o640
)

// localHomeStorage keeps home directories on the local filesystem below
// root.
type localHomeStorage struct {
	root      string
	removeAll func(path string) error
	logger    *logger.Logger
}

// NewLocalHomeStorage creates root if needed and returns a
// [HomeDirectoryStorage] over it.
func NewLocalHomeStorage(root string, logger *logger.Logger) (HomeDirectoryStorage, error) {
	if err := os.MkdirAll(root, homeDirPerm); err != nil {
		logger.Err(err).Str("func", "NewLocalHomeStorage").Msg("error creating identity root")
		return nil, fmt.Errorf("error creating identity root: %w", err)
	}

	logger.Debug().Str("root", root).Msg("creating local home directory storage")
	return &localHomeStorage{
		root:      root,
		removeAll: os.RemoveAll,
		logger:    logger,
	}, nil
}

func (s *localHomeStorage) Create(ctx context.Context, dir string, subdirs ...string) error {
	target, err := s.path(dir)
	if err != nil {
		return err
	}

	if dir != "" {
		if err := os.Mkdir(target, homeDirPerm); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return ErrHomeDirectoryExists
			}
			logger.FromContext(ctx).Err(err).Str("func", "*localHomeStorage.Create").Msg("error creating home directory")
			return fmt.Errorf("error creating home directory: %w", err)
		}
	}

	for _, sub := range subdirs {
		if !filepath.IsLocal(filepath.FromSlash(sub)) {
			return fmt.Errorf("%w: %q", ErrInvalidHomeDirectory, sub)
		}
		if err := os.MkdirAll(filepath.Join(target, filepath.FromSlash(sub)), homeDirPerm); err != nil {
			return fmt.Errorf("error creating %s: %w", sub, err)
		}
	}

	return nil
}

func (s *localHomeStorage) Exists(_ context.Context, dir string) (bool, error) {
	target, err := s.path(dir)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(target)
	switch {
	case err == nil:
		return info.IsDir(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Migrate copies from into to file by file and then removes from. A missing
// source yields an empty destination. A failed copy removes the partial
// destination and leaves the source untouched. Once the copy is complete the
// migration counts as done: a failed source removal is only logged.
func (s *localHomeStorage) Migrate(ctx context.Context, from, to string) error {
	log := logger.FromContext(ctx)

	src, err := s.path(from)
	if err != nil {
		return err
	}
	dst, err := s.path(to)
	if err != nil {
		return err
	}
	if from == "" || to == "" {
		return fmt.Errorf("%w: cannot migrate the identity root", ErrInvalidHomeDirectory)
	}

	if err := os.Mkdir(dst, homeDirPerm); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrHomeDirectoryExists
		}
		return fmt.Errorf("error creating home directory: %w", err)
	}

	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("func", "*localHomeStorage.Migrate").Str("from", from).Msg("source home directory missing, created empty destination")
		return nil
	}

	if err := copyTree(ctx, src, dst); err != nil {
		log.Err(err).Str("func", "*localHomeStorage.Migrate").Str("from", from).Str("to", to).Msg("home directory copy failed, removing partial destination")
		if rmErr := s.removeAll(dst); rmErr != nil {
			log.Err(rmErr).Str("func", "*localHomeStorage.Migrate").Str("to", to).Msg("error removing partial destination")
			return errors.Join(fmt.Errorf("error copying home directory: %w", err), fmt.Errorf("error removing partial destination: %w", rmErr))
		}
		return fmt.Errorf("error copying home directory: %w", err)
	}

	if err := s.removeAll(src); err != nil {
		log.Err(err).Str("func", "*localHomeStorage.Migrate").Str("from", from).Msg("home directory migrated, old directory left behind")
	}

	return nil
}

func (s *localHomeStorage) Delete(ctx context.Context, dir string) error {
	if dir == "" {
		return fmt.Errorf("%w: cannot delete the identity root", ErrInvalidHomeDirectory)
	}

	target, err := s.path(dir)
	if err != nil {
		return err
	}

	if _, err := os.Stat(target); errors.Is(err, fs.ErrNotExist) {
		return ErrHomeDirectoryNotFound
	}

	if err := s.removeAll(target); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*localHomeStorage.Delete").Msg("error removing home directory")
		return fmt.Errorf("error removing home directory: %w", err)
	}

	return nil
}

func (s *localHomeStorage) path(dir string) (string, error) {
	if dir == "" {
		return s.root, nil
	}

	local := filepath.FromSlash(dir)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrInvalidHomeDirectory, dir)
	}

	return filepath.Join(s.root, local), nil
}

func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, homeDirPerm)
		case d.Type().IsRegular():
			return copyFile(p, target)
		default:
			// symlinks and devices are not carried over
			return nil
		}
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, homeFilePerm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
