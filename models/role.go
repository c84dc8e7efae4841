// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strings"

// Role is the authorization level of a user.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleMod   Role = "MOD"
	RoleUser  Role = "USER"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleMod, RoleUser}

// ParseRole maps a role name (any case) to a known Role.
func ParseRole(name string) (Role, bool) {
	candidate := Role(strings.ToUpper(strings.TrimSpace(name)))
	for _, r := range Roles {
		if r == candidate {
			return r, true
		}
	}
	return "", false
}

func (r Role) String() string {
	return string(r)
}
