// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

// ArgonParams holds the Argon2id cost parameters.
type ArgonParams struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLength uint32
}

// DefaultArgonParams are the OWASP (2024) recommended parameters:
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
var DefaultArgonParams = ArgonParams{
	Time:      1,
	MemoryKiB: 64 * 1024,
	Threads:   4,
	KeyLength: 32,
}

// argon2Hasher is the Argon2id implementation of [PasswordHasher].
type argon2Hasher struct {
	params ArgonParams
	rand   io.Reader
}

// NewArgon2Hasher constructs a [PasswordHasher] producing digests in the
// PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<key>
//
// Salt and key are unpadded standard base64. Zero-valued params fall back to
// [DefaultArgonParams].
func NewArgon2Hasher(params ArgonParams) PasswordHasher {
	if params == (ArgonParams{}) {
		params = DefaultArgonParams
	}

	return &argon2Hasher{
		params: params,
		rand:   rand.Reader,
	}
}

// Hash implements [PasswordHasher].
func (h *argon2Hasher) Hash(plaintext []byte) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(h.rand, salt); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}

	p := h.params
	key := argon2.IDKey(plaintext, salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.MemoryKiB, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify implements [PasswordHasher]. The digest is re-derived with the
// parameters embedded in encoded, so digests made with older cost settings
// keep verifying after the configuration changes.
func (h *argon2Hasher) Verify(plaintext []byte, encoded string) (bool, error) {
	p, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	other := argon2.IDKey(plaintext, salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLength)

	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

func decodeHash(encoded string) (ArgonParams, []byte, []byte, error) {
	var p ArgonParams

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return p, nil, nil, ErrIncompatibleVersion
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, ErrMalformedHash
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, ErrMalformedHash
	}
	p.KeyLength = uint32(len(key))

	return p, salt, key, nil
}
