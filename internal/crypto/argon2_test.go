// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"errors"
	"strings"
	"testing"
)

// cheap parameters keep the suite fast
var testParams = ArgonParams{Time: 1, MemoryKiB: 1024, Threads: 1, KeyLength: 32}

func TestHash_FormatAndRandomness(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	d1, err := h.Hash([]byte("s3cret"))
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	d2, err := h.Hash([]byte("s3cret"))
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if !strings.HasPrefix(d1, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected digest prefix: %s", d1)
	}
	if d1 == d2 {
		t.Fatalf("expected digests to differ because of the salt")
	}
	if strings.Contains(d1, "s3cret") {
		t.Fatalf("digest leaks plaintext")
	}
}

func TestVerify_MatchAndMismatch(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	digest, err := h.Hash([]byte("s3cret"))
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := h.Verify([]byte("s3cret"), digest)
	if err != nil || !ok {
		t.Fatalf("Verify(correct) = %v, %v; want true, nil", ok, err)
	}

	ok, err = h.Verify([]byte("wrong"), digest)
	if err != nil || ok {
		t.Fatalf("Verify(wrong) = %v, %v; want false, nil", ok, err)
	}
}

func TestVerify_UsesEmbeddedParams(t *testing.T) {
	old := NewArgon2Hasher(ArgonParams{Time: 2, MemoryKiB: 512, Threads: 1, KeyLength: 16})
	digest, err := old.Hash([]byte("pw"))
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := NewArgon2Hasher(testParams).Verify([]byte("pw"), digest)
	if err != nil || !ok {
		t.Fatalf("Verify across params = %v, %v; want true, nil", ok, err)
	}
}

func TestVerify_MalformedDigest(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	cases := map[string]string{
		"empty":          "",
		"plain text":     "not-a-hash",
		"wrong algo":     "$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"bad params":     "$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"bad salt":       "$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5",
		"missing key":    "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
		"too many parts": "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$a2V5$extra",
	}

	for name, digest := range cases {
		t.Run(name, func(t *testing.T) {
			ok, err := h.Verify([]byte("pw"), digest)
			if !errors.Is(err, ErrMalformedHash) {
				t.Fatalf("Verify error = %v, want ErrMalformedHash", err)
			}
			if ok {
				t.Fatalf("malformed digest must not verify")
			}
		})
	}
}

func TestVerify_IncompatibleVersion(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	_, err := h.Verify([]byte("pw"), "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$a2V5")
	if !errors.Is(err, ErrIncompatibleVersion) {
		t.Fatalf("Verify error = %v, want ErrIncompatibleVersion", err)
	}
}

func TestNewArgon2Hasher_ZeroParamsUseDefaults(t *testing.T) {
	h := NewArgon2Hasher(ArgonParams{}).(*argon2Hasher)
	if h.params != DefaultArgonParams {
		t.Fatalf("params = %+v, want %+v", h.params, DefaultArgonParams)
	}
}
