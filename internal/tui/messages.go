// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-account-keeper/models"
)

// NavigateTo switches the active page. A non-nil Payload is delivered to
// the new page as its first message.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

type LoginResult struct {
	Token models.Token
	Err   error
}

type RegisterResult struct {
	Username string
	Err      error
}

// RegisterSuccessNotice is shown on the menu after a registration.
type RegisterSuccessNotice struct {
	Username string
}

// SessionStarted opens the account page for a freshly issued token.
type SessionStarted struct {
	Token models.Token
}

type ProfileLoaded struct {
	User models.User
	Err  error
}

// EditProfile opens the profile form filled with User.
type EditProfile struct {
	User models.User
}

// ChangePasswordFor opens the password form for Username.
type ChangePasswordFor struct {
	Username string
}

type ProfileSaved struct {
	Changed int
	Err     error
}

type PasswordChanged struct {
	Err error
}

// StatusNotice returns to the account page with a message and reloads it.
type StatusNotice struct {
	Text string
}
