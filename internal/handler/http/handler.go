// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MKhiriev/go-account-keeper/internal/config"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/service"
	"github.com/MKhiriev/go-account-keeper/internal/utils"
)

// loginLimiterIdleTTL is how long an idle client IP keeps its login bucket.
const loginLimiterIdleTTL = 10 * time.Minute

type Handler struct {
	services *service.Services

	loginLimiter *keyLimiter
	traceIDs     *utils.UUIDGenerator
	metrics      http.Handler

	logger *logger.Logger
}

// NewHandler builds the HTTP handler. gatherer backs the /metrics endpoint;
// a nil gatherer serves the default prometheus registry.
func NewHandler(services *service.Services, cfg config.Server, gatherer prometheus.Gatherer, logger *logger.Logger) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:     services,
		loginLimiter: newKeyLimiter(cfg.LoginRateLimit, cfg.LoginBurst, loginLimiterIdleTTL),
		traceIDs:     utils.NewUUIDGenerator(),
		metrics:      promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{ErrorLog: promErrorLogger{logger}}),
		logger:       logger,
	}
}
