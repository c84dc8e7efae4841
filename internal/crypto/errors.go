// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrMalformedHash is returned by Verify when the encoded digest cannot
	// be parsed.
	ErrMalformedHash = errors.New("malformed password hash")
	// ErrIncompatibleVersion is returned for digests produced by another
	// argon2 version.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)
