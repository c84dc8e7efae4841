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

// profileFields are the editable attributes in form order.
var profileFields = []models.Field{
	models.FieldDisplayName,
	models.FieldEmail,
	models.FieldBirthDate,
	models.FieldGender,
	models.FieldPreferredLanguage,
}

type attributeChange struct {
	field models.Field
	value string
}

// ProfileModel edits the descriptive attributes of the logged-in user. Only
// fields whose value changed are sent, one ChangeAttribute call each.
type ProfileModel struct {
	ctx      context.Context
	accounts adapter.AccountAdapter

	original   models.User
	form       form
	submitting bool
	errMsg     string
}

func NewProfileModel(ctx context.Context, accounts adapter.AccountAdapter) *ProfileModel {
	return &ProfileModel{
		ctx:      ctx,
		accounts: accounts,
		form: newForm(
			newTextInput("display name", 64),
			newTextInput("local@domain.tld", 254),
			newTextInput("DD-MM-YYYY", 10),
			newTextInput("gender", 32),
			newTextInput("EN, ES or EU", 2),
		),
	}
}

func (m *ProfileModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EditProfile:
		m.load(msg.User)
		return m, textinput.Blink
	case ProfileSaved:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = humanizeError(msg.Err)
			return m, nil
		}
		m.errMsg = ""
		return m, func() tea.Msg { return NavigateTo{Page: pageAccount, Payload: StatusNotice{Text: "profile saved"}} }
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.submitting = false
			m.errMsg = ""
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

			changes := m.changes()
			if len(changes) == 0 {
				m.errMsg = "nothing changed"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdSave(changes)
		}
	}

	return m, m.form.update(msg)
}

func (m *ProfileModel) load(user models.User) {
	m.original = user
	m.errMsg = ""
	m.submitting = false
	m.form.reset()
	for i, field := range profileFields {
		m.form.inputs[i].SetValue(fieldValue(user, field))
	}
}

// changes lists the fields that differ from the loaded profile.
func (m *ProfileModel) changes() []attributeChange {
	var out []attributeChange
	for i, field := range profileFields {
		value := strings.TrimSpace(m.form.value(i))
		if value != fieldValue(m.original, field) {
			out = append(out, attributeChange{field: field, value: value})
		}
	}
	return out
}

func (m *ProfileModel) View() string {
	var b strings.Builder
	b.WriteString(renderForm([]string{"Display name", "Email", "Birth date", "Gender", "Language"}, m.form.inputs))
	renderFeedback(&b, "Save", m.submitting, m.errMsg)

	return renderPage("EDIT PROFILE: "+m.original.Username, strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: save")
}

// cmdSave stops at the first rejected change; earlier ones stay applied.
func (m *ProfileModel) cmdSave(changes []attributeChange) tea.Cmd {
	ctx := m.ctx
	accounts := m.accounts
	username := m.original.Username

	return func() tea.Msg {
		for i, c := range changes {
			if err := accounts.ChangeAttribute(ctx, username, c.field, c.value); err != nil {
				return ProfileSaved{Changed: i, Err: err}
			}
		}
		return ProfileSaved{Changed: len(changes)}
	}
}

func fieldValue(user models.User, field models.Field) string {
	switch field {
	case models.FieldDisplayName:
		return user.DisplayName
	case models.FieldEmail:
		return user.Email
	case models.FieldBirthDate:
		return user.BirthDate
	case models.FieldGender:
		return user.Gender
	case models.FieldPreferredLanguage:
		return string(user.PreferredLanguage)
	default:
		return ""
	}
}
