// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/users/", h.createUser)
		r.With(h.withLoginRateLimit).Post("/api/users/login", h.login)
		r.Get("/api/version/", h.getServerVersion)
		r.Method("GET", "/metrics", h.metrics)
	})

	// routes addressed to a single user
	router.Group(func(r chi.Router) {
		r.Use(h.auth, h.selfOrAdmin)

		r.Get("/api/users/{username}", h.getUser)
		r.Delete("/api/users/{username}", h.deleteUser)
		r.Put("/api/users/{username}/username", h.renameUser)
		r.Put("/api/users/{username}/password", h.changePassword)
		r.Patch("/api/users/{username}/attributes", h.changeAttribute)
	})

	// admin routes
	router.Group(func(r chi.Router) {
		r.Use(h.auth, h.adminOnly)

		r.Get("/api/admin/reconciliation", h.reconciliation)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
