// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-account-keeper/internal/adapter"
)

// LoginModel is the Bubble Tea model for the login screen. It renders two text inputs
// (username and password) and dispatches an async login command on form submission.
// On success the account page is opened with a [SessionStarted] payload.
type LoginModel struct {
	ctx      context.Context
	accounts adapter.AccountAdapter

	form       form
	submitting bool
	errMsg     string
}

// NewLoginModel creates a [LoginModel]. The password field uses masked echo.
func NewLoginModel(ctx context.Context, accounts adapter.AccountAdapter) *LoginModel {
	return &LoginModel{
		ctx:      ctx,
		accounts: accounts,
		form:     newForm(newTextInput("username", 32), newPasswordInput("password")),
	}
}

func (m *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [LoginResult] clears submitting state and either shows the error or
//     opens the account page.
//   - esc returns to the menu.
//   - tab and shift+tab move focus.
//   - enter validates inputs and dispatches the async login command.
//
// All other key events are forwarded to the focused input widget.
func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(LoginResult); ok {
		m.submitting = false
		if errors.Is(result.Err, adapter.ErrUnauthorized) {
			m.errMsg = "incorrect username or password"
			return m, nil
		}
		if result.Err != nil {
			m.errMsg = humanizeError(result.Err)
			return m, nil
		}

		m.errMsg = ""
		m.form.reset()
		return m, func() tea.Msg {
			return NavigateTo{Page: pageAccount, Payload: SessionStarted{Token: result.Token}}
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

			username := strings.TrimSpace(m.form.value(0))
			password := m.form.value(1)
			if username == "" || password == "" {
				m.errMsg = "username and password are required"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdLogin(username, password)
		}
	}

	return m, m.form.update(msg)
}

func (m *LoginModel) View() string {
	var b strings.Builder
	b.WriteString(renderForm([]string{"Username", "Password"}, m.form.inputs))
	renderFeedback(&b, "Log in", m.submitting, m.errMsg)

	return renderPage("LOG IN", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *LoginModel) cmdLogin(username, password string) tea.Cmd {
	ctx := m.ctx
	accounts := m.accounts

	return func() tea.Msg {
		token, err := accounts.Login(ctx, username, password)
		return LoginResult{Token: token, Err: err}
	}
}
