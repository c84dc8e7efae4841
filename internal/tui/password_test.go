// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-account-keeper/internal/adapter"
)

func fillPassword(m *PasswordModel, current, next, repeat string) {
	typeText(m, current)
	press(m, tea.KeyTab)
	typeText(m, next)
	press(m, tea.KeyTab)
	typeText(m, repeat)
}

func TestPasswordModel_ChangesPassword(t *testing.T) {
	accounts := newMockAccounts(t)
	accounts.EXPECT().ChangePassword(gomock.Any(), "alice", "wonderland", "looking-glass").Return(nil)

	m := NewPasswordModel(context.Background(), accounts)
	m.Update(ChangePasswordFor{Username: "alice"})
	fillPassword(m, "wonderland", "looking-glass", "looking-glass")

	view := m.View()
	assert.NotContains(t, view, "wonderland")
	assert.NotContains(t, view, "looking-glass")

	_, cmd := press(m, tea.KeyEnter)
	_, cmd = m.Update(exec(t, cmd))

	assert.Equal(t, NavigateTo{Page: pageAccount, Payload: StatusNotice{Text: "password changed"}}, navigation(t, cmd))
	assert.Empty(t, m.form.value(0))
}

func TestPasswordModel_Validation(t *testing.T) {
	tests := []struct {
		name                  string
		current, next, repeat string
		wantErr               string
	}{
		{"missing current", "", "new", "new", "current and new password are required"},
		{"missing new", "old", "", "", "current and new password are required"},
		{"mismatch", "old", "new", "other", "passwords do not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPasswordModel(context.Background(), newMockAccounts(t))
			m.Update(ChangePasswordFor{Username: "alice"})
			fillPassword(m, tt.current, tt.next, tt.repeat)

			_, cmd := press(m, tea.KeyEnter)
			assert.Nil(t, cmd)
			assert.Equal(t, tt.wantErr, m.errMsg)
		})
	}
}

func TestPasswordModel_WrongCurrentPassword(t *testing.T) {
	m := NewPasswordModel(context.Background(), newMockAccounts(t))

	m.Update(PasswordChanged{Err: adapter.ErrIncorrectPassword})
	assert.Equal(t, "incorrect password", m.errMsg)
}
