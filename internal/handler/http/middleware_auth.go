// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/utils"
	"github.com/MKhiriev/go-account-keeper/internal/validators"
	"github.com/MKhiriev/go-account-keeper/models"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It extracts the bearer token from the "Authorization" header, validates it
// via [service.AuthService.ParseToken] and stores the parsed [models.Token]
// in the request context under [utils.TokenCtxKey]. Requests without a
// valid token are rejected with 401 Unauthorized.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := h.tokenFromRequest(r)
		if err != nil {
			writeError(w, r, "*Handler.auth", err)
			return
		}

		ctx := context.WithValue(r.Context(), utils.TokenCtxKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tokenFromRequest parses the bearer token of r.
func (h *Handler) tokenFromRequest(r *http.Request) (models.Token, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return models.Token{}, ErrEmptyAuthorizationHeader
	}

	tokenString, err := utils.ParseBearerToken(authHeader)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidAuthorizationHeader, err)
	}

	return h.services.AuthService.ParseToken(r.Context(), tokenString)
}

// selfOrAdmin lets a request through when the token subject is the
// {username} path parameter or the caller holds the ADMIN role. It must run
// after [Handler.auth].
func (h *Handler) selfOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := utils.GetTokenFromContext(r.Context())
		if !ok {
			writeError(w, r, "*Handler.selfOrAdmin", ErrEmptyAuthorizationHeader)
			return
		}

		target, err := validators.NormalizeUsername(chi.URLParam(r, "username"))
		if err != nil {
			writeError(w, r, "*Handler.selfOrAdmin", err)
			return
		}
		if token.Username != target && !token.IsAdmin() {
			logger.FromRequest(r).Warn().
				Str("func", "*Handler.selfOrAdmin").
				Str("caller", token.Username).
				Str("target", target).
				Msg("caller addressed another user")
			writeError(w, r, "*Handler.selfOrAdmin", ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// adminOnly rejects callers without the ADMIN role. It must run after
// [Handler.auth].
func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := utils.GetTokenFromContext(r.Context())
		if !ok || !token.IsAdmin() {
			writeError(w, r, "*Handler.adminOnly", ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// callerIsAdmin reports whether r carries a valid ADMIN token. Requests on
// public routes may omit the header; an invalid header is an error.
func (h *Handler) callerIsAdmin(r *http.Request) (bool, error) {
	if r.Header.Get("Authorization") == "" {
		return false, nil
	}

	token, err := h.tokenFromRequest(r)
	if err != nil {
		return false, err
	}

	return token.IsAdmin(), nil
}
