// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/service"
)

// AuditWorker periodically compares the username sets of both stores and
// logs every discrepancy it finds. It never repairs anything.
type AuditWorker struct {
	reconciliation service.ReconciliationService
	interval       time.Duration
	logger         *logger.Logger
}

func NewAuditWorker(reconciliation service.ReconciliationService, interval time.Duration, logger *logger.Logger) *AuditWorker {
	return &AuditWorker{
		reconciliation: reconciliation,
		interval:       interval,
		logger:         logger,
	}
}

func (a *AuditWorker) Run(ctx context.Context) {
	ctx = a.logger.WithContext(ctx)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info().Str("func", "*AuditWorker.Run").Dur("interval", a.interval).Msg("audit worker started")
	for {
		select {
		case <-ctx.Done():
			a.logger.Info().Str("func", "*AuditWorker.Run").Msg("audit worker stopped")
			return
		case <-ticker.C:
			a.audit(ctx)
		}
	}
}

func (a *AuditWorker) audit(ctx context.Context) {
	found, err := a.reconciliation.Audit(ctx)
	if err != nil {
		a.logger.Err(err).Str("func", "*AuditWorker.audit").Msg("audit failed")
		return
	}
	if len(found) == 0 {
		a.logger.Debug().Str("func", "*AuditWorker.audit").Msg("stores agree")
		return
	}

	a.logger.Warn().Str("func", "*AuditWorker.audit").Int("discrepancies", len(found)).Msg("stores disagree")
}
