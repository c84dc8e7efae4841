// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidName         = errors.New("invalid username")
	ErrBadFormat           = errors.New("bad format")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrInvalidRole         = errors.New("invalid role")
	ErrAdminProtected      = errors.New("reserved account is protected")

	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = fmt.Errorf("%w: unknown field", ErrBadFormat)
	ErrEmptyPassword   = fmt.Errorf("%w: password is required", ErrBadFormat)
)
