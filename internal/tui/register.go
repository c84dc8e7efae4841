// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-account-keeper/internal/adapter"
	"github.com/MKhiriev/go-account-keeper/models"
)

const (
	registerDisplayName = iota
	registerUsername
	registerEmail
	registerPassword
	registerRepeat
)

// RegisterModel is the Bubble Tea model for the registration screen. On
// success the form is reset and the menu is opened with a
// [RegisterSuccessNotice] payload.
type RegisterModel struct {
	ctx      context.Context
	accounts adapter.AccountAdapter

	form       form
	submitting bool
	errMsg     string
}

func NewRegisterModel(ctx context.Context, accounts adapter.AccountAdapter) *RegisterModel {
	return &RegisterModel{
		ctx:      ctx,
		accounts: accounts,
		form: newForm(
			newTextInput("display name", 64),
			newTextInput("username", 32),
			newTextInput("email (optional)", 254),
			newPasswordInput("password"),
			newPasswordInput("repeat password"),
		),
	}
}

func (m *RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Username and both password fields are
// required and the passwords must match; the server validates the rest.
func (m *RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(RegisterResult); ok {
		m.submitting = false
		if result.Err != nil {
			m.errMsg = humanizeError(result.Err)
			return m, nil
		}

		m.errMsg = ""
		m.form.reset()
		return m, func() tea.Msg {
			return NavigateTo{Page: pageMenu, Payload: RegisterSuccessNotice{Username: result.Username}}
		}
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.submitting = false
			m.errMsg = ""
			return m, func() tea.Msg { return NavigateTo{Page: pageMenu} }
		case "tab":
			m.form.focusNext()
			return m, nil
		case "shift+tab":
			m.form.focusPrev()
			return m, nil
		case "enter":
			if m.submitting {
				return m, nil
			}

			user := models.User{
				DisplayName: strings.TrimSpace(m.form.value(registerDisplayName)),
				Username:    strings.TrimSpace(m.form.value(registerUsername)),
				Email:       strings.TrimSpace(m.form.value(registerEmail)),
			}
			password := m.form.value(registerPassword)

			if user.Username == "" || password == "" {
				m.errMsg = "username and password are required"
				return m, nil
			}
			if password != m.form.value(registerRepeat) {
				m.errMsg = "passwords do not match"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdRegister(user, password)
		}
	}

	return m, m.form.update(msg)
}

func (m *RegisterModel) View() string {
	var b strings.Builder
	b.WriteString(renderForm([]string{"Display name", "Username", "Email", "Password", "Repeat password"}, m.form.inputs))
	renderFeedback(&b, "Register", m.submitting, m.errMsg)

	return renderPage("REGISTER", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *RegisterModel) cmdRegister(user models.User, password string) tea.Cmd {
	ctx := m.ctx
	accounts := m.accounts

	return func() tea.Msg {
		err := accounts.Create(ctx, user, password)
		return RegisterResult{Username: user.Username, Err: err}
	}
}
