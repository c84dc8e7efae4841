// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-account-keeper/internal/mock"
)

func newMockAccounts(t *testing.T) *mock.MockAccountAdapter {
	t.Helper()
	return mock.NewMockAccountAdapter(gomock.NewController(t))
}

func typeText(m tea.Model, text string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func press(m tea.Model, key tea.KeyType) (tea.Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: key})
}

func pressRune(m tea.Model, r rune) (tea.Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// exec runs cmd and returns its message.
func exec(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

// navigation runs cmd and asserts it navigates.
func navigation(t *testing.T, cmd tea.Cmd) NavigateTo {
	t.Helper()
	nav, ok := exec(t, cmd).(NavigateTo)
	require.True(t, ok, "command did not navigate")
	return nav
}
