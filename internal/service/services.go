// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/go-account-keeper/internal/config"
	"github.com/MKhiriev/go-account-keeper/internal/crypto"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/store"
	"github.com/MKhiriev/go-account-keeper/internal/validators"
)

type Services struct {
	LifecycleService      LifecycleService
	AuthService           AuthService
	ReconciliationService ReconciliationService
	AppInfoService        AppInfoService
}

// NewServices wires the services on top of storages. The lifecycle service
// is wrapped with validation; its metrics are registered with reg.
func NewServices(storages *store.Storages, hasher crypto.PasswordHasher, cfg config.StructuredConfig, reg prometheus.Registerer, logger *logger.Logger) (*Services, error) {
	reserved := validators.NewReservedGuard(cfg.App.ReservedUsernames...)
	metrics := NewMetrics(reg)

	reconciliation := NewReconciliationService(storages.ProfileRepository, storages.IdentityStore, reserved, metrics, logger)

	lifecycle := NewLifecycleValidationService(reserved).Wrap(
		NewLifecycleService(storages.ProfileRepository, storages.IdentityStore, hasher, reconciliation, metrics, logger),
	)

	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		LifecycleService:      lifecycle,
		AuthService:           NewAuthService(cfg.App, storages.ProfileRepository, logger),
		ReconciliationService: reconciliation,
		AppInfoService:        appInfo,
	}, nil
}
