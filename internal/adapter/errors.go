// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"

	"github.com/MKhiriev/go-account-keeper/internal/validators"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("already exists")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")

	// ErrIncorrectPassword is returned when the server rejects an old
	// password.
	ErrIncorrectPassword = errors.New("incorrect password")

	// ErrInconsistent means the server left the user in only one store;
	// an operator has to reconcile it.
	ErrInconsistent = errors.New("stores are inconsistent")

	errEmptyAddress = errors.New("empty address")
)

// kindErrors maps the "kind" of an error response to the sentinel returned
// by the adapter. Validation kinds reuse the validators sentinels.
var kindErrors = map[string]error{
	"InvalidName":         validators.ErrInvalidName,
	"BadFormat":           validators.ErrBadFormat,
	"UnsupportedLanguage": validators.ErrUnsupportedLanguage,
	"InvalidRole":         validators.ErrInvalidRole,
	"AdminProtected":      validators.ErrAdminProtected,
	"AlreadyExists":       ErrConflict,
	"NotFound":            ErrNotFound,
	"IncorrectPassword":   ErrIncorrectPassword,
	"Inconsistent":        ErrInconsistent,
}
