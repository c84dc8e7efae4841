// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-account-keeper/internal/logger"
)

// withLogging writes one access log line per request. The route pattern is
// logged next to the raw URI so usernames in the path can be grouped.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()
		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		var pattern string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			pattern = rctx.RoutePattern()
		}

		log.Info().
			Str("uri", r.RequestURI).
			Str("route", pattern).
			Str("method", r.Method).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}

// promErrorLogger routes promhttp errors into the application log.
type promErrorLogger struct {
	logger *logger.Logger
}

func (p promErrorLogger) Println(v ...any) {
	p.logger.Error().Str("func", "promhttp").Msgf("%v", v)
}
