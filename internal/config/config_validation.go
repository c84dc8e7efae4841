// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"slices"
	"strings"
)

// validate checks that the final merged [StructuredConfig] is usable by the
// server at startup.
func (cfg *StructuredConfig) validate() error {
	app := cfg.App
	switch {
	case app.TokenSignKey == "":
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	case app.TokenDuration <= 0:
		return fmt.Errorf("%w: token duration must be positive", ErrInvalidAppConfigs)
	case app.Argon.Time == 0 || app.Argon.MemoryKiB == 0 || app.Argon.Threads == 0 || app.Argon.KeyLength < 16:
		return fmt.Errorf("%w: argon2 parameters out of range", ErrInvalidAppConfigs)
	}

	if slices.Contains(app.ReservedUsernames, "admin") && app.AdminPassword == "" {
		return fmt.Errorf("%w: admin password is required", ErrInvalidAppConfigs)
	}
	if slices.Contains(app.ReservedUsernames, "common") && app.CommonPassword == "" {
		return fmt.Errorf("%w: common password is required", ErrInvalidAppConfigs)
	}

	if err := cfg.Storage.validate(); err != nil {
		return err
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("%w: address and request timeout are required", ErrInvalidServerConfigs)
	}
	if cfg.Server.LoginRateLimit <= 0 || cfg.Server.LoginBurst < 1 {
		return fmt.Errorf("%w: login rate limit must be positive", ErrInvalidServerConfigs)
	}

	if cfg.Workers.AuditInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (s Storage) validate() error {
	if s.Profiles.DSN == "" {
		return fmt.Errorf("%w: profile store DSN is required", ErrInvalidStorageConfigs)
	}

	id := s.Identity
	if id.DSN == "" || strings.Contains(id.DSN, ":memory:") {
		return fmt.Errorf("%w: identity registry needs a file-backed DSN", ErrInvalidStorageConfigs)
	}

	switch id.HomeBackend {
	case HomeBackendLocal:
		if id.Root == "" {
			return fmt.Errorf("%w: local home backend needs a root directory", ErrInvalidStorageConfigs)
		}
	case HomeBackendS3:
		if id.S3.Bucket == "" {
			return fmt.Errorf("%w: s3 home backend needs a bucket", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown home backend %q", ErrInvalidStorageConfigs, id.HomeBackend)
	}

	return nil
}

func (a Adapter) validate() error {
	if a.HTTPAddress == "" || a.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	return nil
}
