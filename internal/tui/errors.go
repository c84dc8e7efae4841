// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-account-keeper/internal/adapter"
)

// humanizeError turns adapter errors into messages for the status line.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, adapter.ErrIncorrectPassword):
		return "incorrect password"
	case errors.Is(err, adapter.ErrUnauthorized):
		return "not authorized, log in again"
	case errors.Is(err, adapter.ErrForbidden):
		return "not allowed for this account"
	case errors.Is(err, adapter.ErrConflict):
		return "username is already taken"
	case errors.Is(err, adapter.ErrTooManyRequests):
		return "too many attempts, try again later"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "no network or the server is unavailable"
	}

	return err.Error()
}
