// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// CreateUserRequest is the body of POST /api/users/.
// Password is plaintext in transit only; it is hashed before any store call.
type CreateUserRequest struct {
	User
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/users/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RenameRequest is the body of PUT /api/users/{username}/username.
type RenameRequest struct {
	NewUsername string `json:"new_username"`
}

// ChangePasswordRequest is the body of PUT /api/users/{username}/password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangeAttributeRequest is the body of PATCH /api/users/{username}/attributes.
type ChangeAttributeRequest struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// ErrorResponse is returned by the API for every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Operation string `json:"operation,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Discrepancy describes a username whose presence differs between the two
// stores, or that was flagged after a failed compensation.
type Discrepancy struct {
	Username       string `json:"username"`
	InProfileStore bool   `json:"in_profile_store"`
	InIdentity     bool   `json:"in_identity_store"`
	Operation      string `json:"operation,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// ReconciliationReport is the body of GET /api/admin/reconciliation.
type ReconciliationReport struct {
	Flagged []Discrepancy `json:"flagged"`
	Audit   []Discrepancy `json:"audit,omitempty"`
}
