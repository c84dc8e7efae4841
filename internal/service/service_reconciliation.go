// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/store"
	"github.com/MKhiriev/go-account-keeper/internal/validators"
	"github.com/MKhiriev/go-account-keeper/models"
)

// reconciliationService keeps flagged usernames in memory. The set is lost
// on restart; the periodic audit finds the same discrepancies again.
type reconciliationService struct {
	profiles store.ProfileRepository
	identity store.IdentityStore
	reserved *validators.ReservedGuard
	metrics  *Metrics
	logger   *logger.Logger

	mu      sync.Mutex
	flagged map[string]models.Discrepancy
}

// NewReconciliationService returns a [ReconciliationService]. Reserved
// accounts exist in the identity store only and are never reported.
func NewReconciliationService(
	profiles store.ProfileRepository,
	identity store.IdentityStore,
	reserved *validators.ReservedGuard,
	metrics *Metrics,
	logger *logger.Logger,
) ReconciliationService {
	return &reconciliationService{
		profiles: profiles,
		identity: identity,
		reserved: reserved,
		metrics:  metrics,
		logger:   logger,
		flagged:  make(map[string]models.Discrepancy),
	}
}

func (r *reconciliationService) Flag(ctx context.Context, username, operation string, cause error) {
	d := models.Discrepancy{
		Username:  username,
		Operation: operation,
	}
	if cause != nil {
		d.Reason = cause.Error()
	}

	// presence is informational; lookup errors leave the flags false
	d.InProfileStore, _ = r.profiles.Exists(ctx, username)
	d.InIdentity, _ = r.identity.Exists(ctx, username)

	r.mu.Lock()
	r.flagged[username] = d
	n := len(r.flagged)
	r.mu.Unlock()

	r.metrics.setFlagged(n)
	logger.FromContext(ctx).Error().
		Str("func", "*reconciliationService.Flag").
		Str("username", username).
		Str("operation", operation).
		Bool("in_profile_store", d.InProfileStore).
		Bool("in_identity_store", d.InIdentity).
		Msg("username flagged for manual reconciliation")
}

func (r *reconciliationService) Flagged(_ context.Context) []models.Discrepancy {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Discrepancy, 0, len(r.flagged))
	for _, d := range r.flagged {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b models.Discrepancy) int {
		return strings.Compare(a.Username, b.Username)
	})

	return out
}

func (r *reconciliationService) Audit(ctx context.Context) ([]models.Discrepancy, error) {
	log := logger.FromContext(ctx)

	profileNames, err := r.profiles.ListUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	identityNames, err := r.identity.ListUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}

	presence := make(map[string]*models.Discrepancy)
	entry := func(username string) *models.Discrepancy {
		d, ok := presence[username]
		if !ok {
			d = &models.Discrepancy{Username: username, Reason: "audit"}
			presence[username] = d
		}
		return d
	}
	for _, name := range profileNames {
		entry(name).InProfileStore = true
	}
	for _, name := range identityNames {
		if r.reserved.IsReserved(name) {
			continue
		}
		entry(name).InIdentity = true
	}

	out := make([]models.Discrepancy, 0)
	for _, d := range presence {
		if d.InProfileStore == d.InIdentity {
			continue
		}
		log.Warn().
			Str("func", "*reconciliationService.Audit").
			Str("username", d.Username).
			Bool("in_profile_store", d.InProfileStore).
			Bool("in_identity_store", d.InIdentity).
			Msg("username present in one store only")
		out = append(out, *d)
	}
	slices.SortFunc(out, func(a, b models.Discrepancy) int {
		return strings.Compare(a.Username, b.Username)
	})

	return out, nil
}
