// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-account-keeper/internal/store"
)

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")
)

var (
	// ErrForbidden is returned when an authenticated caller addresses a user
	// other than itself without the ADMIN role.
	ErrForbidden = errors.New("forbidden")

	// ErrTooManyRequests is returned by the login rate limiter.
	ErrTooManyRequests = errors.New("too many login attempts")

	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")
)

// errRouteNotFound answers a known path requested with a wrong method.
var errRouteNotFound = fmt.Errorf("%w: route", store.ErrNotFound)
