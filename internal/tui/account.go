// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-account-keeper/internal/adapter"
	"github.com/MKhiriev/go-account-keeper/models"
)

// AccountModel shows the profile of the logged-in user and links to the
// edit screens.
type AccountModel struct {
	ctx      context.Context
	accounts adapter.AccountAdapter
	copyText copyFunc

	token   models.Token
	user    models.User
	loading bool
	status  string
	errMsg  string
}

func NewAccountModel(ctx context.Context, accounts adapter.AccountAdapter, copyText copyFunc) *AccountModel {
	return &AccountModel{
		ctx:      ctx,
		accounts: accounts,
		copyText: copyText,
	}
}

func (m *AccountModel) Init() tea.Cmd {
	return nil
}

func (m *AccountModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SessionStarted:
		m.token = msg.Token
		m.user = models.User{}
		m.status = ""
		m.errMsg = ""
		return m, m.reload()
	case StatusNotice:
		m.status = msg.Text
		m.errMsg = ""
		return m, m.reload()
	case ProfileLoaded:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = humanizeError(msg.Err)
			return m, nil
		}
		m.user = msg.User
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *AccountModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e":
		if m.user.Username == "" {
			m.errMsg = "profile is not loaded yet"
			return m, nil
		}
		user := m.user
		return m, func() tea.Msg { return NavigateTo{Page: pageProfile, Payload: EditProfile{User: user}} }
	case "p":
		username := m.token.Username
		return m, func() tea.Msg { return NavigateTo{Page: pagePassword, Payload: ChangePasswordFor{Username: username}} }
	case "c":
		if m.token.SignedString == "" {
			m.errMsg = "nothing to copy"
			return m, nil
		}
		if err := m.copyText(m.token.SignedString); err != nil {
			m.errMsg = fmt.Sprintf("copy failed: %v", err)
			return m, nil
		}
		m.errMsg = ""
		m.status = "token copied to clipboard"
		return m, nil
	case "r":
		m.status = ""
		return m, m.reload()
	case "l":
		m.accounts.SetToken("")
		m.token = models.Token{}
		m.user = models.User{}
		m.status = ""
		m.errMsg = ""
		return m, func() tea.Msg { return NavigateTo{Page: pageMenu, Payload: StatusNotice{Text: "logged out"}} }
	}

	return m, nil
}

func (m *AccountModel) reload() tea.Cmd {
	m.loading = true
	ctx := m.ctx
	accounts := m.accounts
	username := m.token.Username

	return func() tea.Msg {
		user, err := accounts.Get(ctx, username)
		return ProfileLoaded{User: user, Err: err}
	}
}

func (m *AccountModel) View() string {
	var b strings.Builder

	rows := [][2]string{
		{"Username", m.token.Username},
		{"Display name", m.user.DisplayName},
		{"Email", m.user.Email},
		{"Birth date", m.user.BirthDate},
		{"Gender", m.user.Gender},
		{"Language", string(m.user.PreferredLanguage)},
		{"Role", string(m.user.Role)},
	}
	if !m.token.ExpiresAt.IsZero() {
		rows = append(rows, [2]string{"Token expires", m.token.ExpiresAt.Local().Format(time.DateTime)})
	}

	for _, row := range rows {
		fmt.Fprintf(&b, "%-13s │ %s\n", row[0], valueOrDash(row[1]))
	}

	if m.loading {
		b.WriteString("\nloading...\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("OK: " + m.status))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("ACCOUNT", strings.TrimRight(b.String(), "\n"), "e: edit profile │ p: password │ c: copy token │ r: reload │ l: log out")
}
