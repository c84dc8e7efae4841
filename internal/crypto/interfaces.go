// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/password_hasher_mock.go -package=mock

// PasswordHasher derives and checks one-way password digests.
//
// The plaintext is passed as a byte slice so callers can clear it once the
// call returns. Implementations must never retain or log it.
type PasswordHasher interface {
	// Hash derives an encoded digest from plaintext using a fresh random
	// salt. Two calls with the same input return different digests.
	Hash(plaintext []byte) (string, error)

	// Verify reports whether plaintext matches encoded. A malformed digest
	// is an error, not a mismatch.
	Verify(plaintext []byte, encoded string) (bool, error)
}
