// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-account-keeper/internal/config"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/store"
	"github.com/MKhiriev/go-account-keeper/models"
)

const (
	AdminUsername  = "admin"
	CommonUsername = "common"
)

// commonSharedDir is pre-created inside the common account's home.
const commonSharedDir = "data/images"

// Bootstrap provisions the reserved accounts directly into the identity
// store: "admin" at the identity root and "common" at "<root>/common". A
// reserved name that is not in cfg.ReservedUsernames is skipped. Running it
// again refreshes passwords and keeps existing files.
func Bootstrap(ctx context.Context, identity store.IdentityStore, cfg config.App) error {
	log := logger.FromContext(ctx)

	accounts := []struct {
		account   models.Account
		password  string
		extraDirs []string
	}{
		{
			account:  models.Account{Username: AdminUsername, HomeDirectory: "", Authorities: []string{models.AuthorityWrite}},
			password: cfg.AdminPassword,
		},
		{
			account:   models.Account{Username: CommonUsername, HomeDirectory: CommonUsername, Authorities: []string{models.AuthorityWrite}},
			password:  cfg.CommonPassword,
			extraDirs: []string{commonSharedDir},
		},
	}

	for _, a := range accounts {
		if !slices.Contains(cfg.ReservedUsernames, a.account.Username) {
			log.Debug().Str("func", "Bootstrap").Str("username", a.account.Username).Msg("not reserved, skipping")
			continue
		}

		password := []byte(a.password)
		err := identity.Provision(ctx, a.account, password, a.extraDirs...)
		clear(password)
		if err != nil {
			return fmt.Errorf("error provisioning %q: %w", a.account.Username, err)
		}
	}

	return nil
}
