// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"fmt"
	"strings"
)

// ReservedGuard rejects lifecycle operations that name a reserved account.
// Reserved accounts are provisioned at bootstrap and managed out of band.
type ReservedGuard struct {
	names map[string]struct{}
}

// NewReservedGuard builds a guard over names. Names are compared in their
// normalized (trimmed, lowercase) form.
func NewReservedGuard(names ...string) *ReservedGuard {
	g := &ReservedGuard{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			g.names[n] = struct{}{}
		}
	}
	return g
}

// IsReserved reports whether username is reserved.
func (g *ReservedGuard) IsReserved(username string) bool {
	_, ok := g.names[strings.ToLower(strings.TrimSpace(username))]
	return ok
}

// Check returns ErrAdminProtected if any of names is reserved.
func (g *ReservedGuard) Check(names ...string) error {
	for _, n := range names {
		if g.IsReserved(n) {
			return fmt.Errorf("%w: %q", ErrAdminProtected, n)
		}
	}
	return nil
}
