// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-account-keeper/internal/store"
	"github.com/MKhiriev/go-account-keeper/internal/validators"
)

var (
	// ErrIncorrectPassword is returned when a supplied password does not
	// match the stored hash.
	ErrIncorrectPassword = errors.New("incorrect password")

	// ErrInconsistent marks a failed compensation: the two stores disagree
	// about the user until someone reconciles them by hand.
	ErrInconsistent = errors.New("stores are inconsistent")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// LifecycleError describes a failed lifecycle operation.
//
// Err is the error that stopped the forward run. CompensationErr is set only
// for the Inconsistent outcome.
type LifecycleError struct {
	Operation       string
	Username        string
	Outcome         Outcome
	Err             error
	CompensationErr error
}

func (e *LifecycleError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q %s: %v", e.Operation, e.Username, e.Outcome, e.Err)
	if e.CompensationErr != nil {
		fmt.Fprintf(&b, "; compensation failed: %v", e.CompensationErr)
	}
	return b.String()
}

// Unwrap exposes the forward error, the compensation error and, for the
// Inconsistent outcome, [ErrInconsistent].
func (e *LifecycleError) Unwrap() []error {
	errs := []error{e.Err}
	if e.CompensationErr != nil {
		errs = append(errs, e.CompensationErr)
	}
	if e.Outcome == OutcomeInconsistent {
		errs = append(errs, ErrInconsistent)
	}
	return errs
}

// ErrorKind classifies errors returned by the lifecycle service.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidName
	KindBadFormat
	KindUnsupportedLanguage
	KindInvalidRole
	KindAdminProtected
	KindAlreadyExists
	KindNotFound
	KindIncorrectPassword
	KindInconsistent
)

var kindNames = map[ErrorKind]string{
	KindUnknown:             "Unknown",
	KindInvalidName:         "InvalidName",
	KindBadFormat:           "BadFormat",
	KindUnsupportedLanguage: "UnsupportedLanguage",
	KindInvalidRole:         "InvalidRole",
	KindAdminProtected:      "AdminProtected",
	KindAlreadyExists:       "AlreadyExists",
	KindNotFound:            "NotFound",
	KindIncorrectPassword:   "IncorrectPassword",
	KindInconsistent:        "Inconsistent",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// KindOf maps err onto the error taxonomy. Inconsistent takes precedence
// over the kind of the underlying store error.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInconsistent):
		return KindInconsistent
	case errors.Is(err, validators.ErrAdminProtected):
		return KindAdminProtected
	case errors.Is(err, validators.ErrInvalidName):
		return KindInvalidName
	case errors.Is(err, validators.ErrUnsupportedLanguage):
		return KindUnsupportedLanguage
	case errors.Is(err, validators.ErrInvalidRole):
		return KindInvalidRole
	case errors.Is(err, validators.ErrBadFormat):
		return KindBadFormat
	case errors.Is(err, ErrIncorrectPassword):
		return KindIncorrectPassword
	case errors.Is(err, store.ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, store.ErrNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}
