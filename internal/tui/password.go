// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-account-keeper/internal/adapter"
)

// PasswordModel changes the password of the logged-in user. All three
// inputs are masked.
type PasswordModel struct {
	ctx      context.Context
	accounts adapter.AccountAdapter

	username   string
	form       form
	submitting bool
	errMsg     string
}

func NewPasswordModel(ctx context.Context, accounts adapter.AccountAdapter) *PasswordModel {
	return &PasswordModel{
		ctx:      ctx,
		accounts: accounts,
		form: newForm(
			newPasswordInput("current password"),
			newPasswordInput("new password"),
			newPasswordInput("repeat new password"),
		),
	}
}

func (m *PasswordModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *PasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ChangePasswordFor:
		m.username = msg.Username
		m.errMsg = ""
		m.submitting = false
		m.form.reset()
		return m, textinput.Blink
	case PasswordChanged:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = humanizeError(msg.Err)
			return m, nil
		}
		m.errMsg = ""
		m.form.reset()
		return m, func() tea.Msg { return NavigateTo{Page: pageAccount, Payload: StatusNotice{Text: "password changed"}} }
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.submitting = false
			m.errMsg = ""
			m.form.reset()
			return m, func() tea.Msg { return NavigateTo{Page: pageAccount} }
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

			current := m.form.value(0)
			next := m.form.value(1)
			if current == "" || next == "" {
				m.errMsg = "current and new password are required"
				return m, nil
			}
			if next != m.form.value(2) {
				m.errMsg = "passwords do not match"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdChange(current, next)
		}
	}

	return m, m.form.update(msg)
}

func (m *PasswordModel) View() string {
	var b strings.Builder
	b.WriteString(renderForm([]string{"Current", "New", "Repeat new"}, m.form.inputs))
	renderFeedback(&b, "Change password", m.submitting, m.errMsg)

	return renderPage("CHANGE PASSWORD: "+m.username, strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *PasswordModel) cmdChange(current, next string) tea.Cmd {
	ctx := m.ctx
	accounts := m.accounts
	username := m.username

	return func() tea.Msg {
		return PasswordChanged{Err: accounts.ChangePassword(ctx, username, current, next)}
	}
}
