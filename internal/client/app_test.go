// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-account-keeper/internal/adapter"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/mock"
	"github.com/MKhiriev/go-account-keeper/internal/utils"
	"github.com/MKhiriev/go-account-keeper/models"
)

func newTestApp(t *testing.T) (*App, *mock.MockAccountAdapter, *bytes.Buffer) {
	t.Helper()
	return newTestAppWithInput(t, "")
}

// newTestAppWithInput feeds stdin to the password prompts, one line per
// password.
func newTestAppWithInput(t *testing.T, stdin string) (*App, *mock.MockAccountAdapter, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	accounts := mock.NewMockAccountAdapter(ctrl)
	stdout := &bytes.Buffer{}
	passwords := NewPasswordReader(strings.NewReader(stdin), io.Discard)

	return NewApp(accounts, passwords, stdout, &bytes.Buffer{}, logger.Nop()), accounts, stdout
}

func TestRun_NoCommand(t *testing.T) {
	app, _, _ := newTestApp(t)
	assert.ErrorIs(t, app.Run(context.Background(), nil), ErrUsage)
}

func TestRun_UnknownCommand(t *testing.T) {
	app, _, _ := newTestApp(t)
	assert.ErrorIs(t, app.Run(context.Background(), []string{"explode"}), ErrUnknownCommand)
}

func TestCreate(t *testing.T) {
	app, accounts, stdout := newTestAppWithInput(t, "s3cret\n")

	want := models.User{
		Username:          "alice",
		Email:             "alice@example.com",
		BirthDate:         "01-02-1990",
		PreferredLanguage: models.LanguageES,
		Role:              models.RoleMod,
	}
	accounts.EXPECT().Create(gomock.Any(), want, "s3cret").Return(nil)

	err := app.Run(context.Background(), []string{
		"create", "-username", "alice",
		"-email", "alice@example.com", "-birth-date", "01-02-1990",
		"-language", "es", "-role", "mod",
	})
	require.NoError(t, err)
	assert.Equal(t, "created alice\n", stdout.String())
}

func TestCreate_MissingPassword(t *testing.T) {
	app, _, _ := newTestAppWithInput(t, "\n")
	err := app.Run(context.Background(), []string{"create", "-username", "alice"})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestCreate_PasswordFlagIsRejected(t *testing.T) {
	app, _, _ := newTestAppWithInput(t, "s3cret\n")
	err := app.Run(context.Background(), []string{"create", "-username", "alice", "-password", "s3cret"})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestCreate_NoInput(t *testing.T) {
	app, _, _ := newTestApp(t)
	err := app.Run(context.Background(), []string{"create", "-username", "alice"})
	assert.ErrorIs(t, err, io.EOF)
}

func TestLogin_PrintsToken(t *testing.T) {
	app, accounts, stdout := newTestAppWithInput(t, "s3cret")
	accounts.EXPECT().Login(gomock.Any(), "alice", "s3cret").
		Return(models.Token{SignedString: "signed.jwt", Username: "alice"}, nil)

	require.NoError(t, app.Run(context.Background(), []string{"login", "-username", "alice"}))
	assert.Equal(t, "signed.jwt\n", stdout.String())
}

func TestGet_PrintsJSON(t *testing.T) {
	app, accounts, stdout := newTestApp(t)
	accounts.EXPECT().Get(gomock.Any(), "alice").Return(models.User{Username: "alice", Role: models.RoleUser}, nil)

	require.NoError(t, app.Run(context.Background(), []string{"get", "alice"}))

	var got models.User
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestGet_ErrorIsReturned(t *testing.T) {
	app, accounts, _ := newTestApp(t)
	accounts.EXPECT().Get(gomock.Any(), "ghost").Return(models.User{}, adapter.ErrNotFound)

	err := app.Run(context.Background(), []string{"get", "ghost"})
	assert.ErrorIs(t, err, adapter.ErrNotFound)
}

func TestDeleteRenamePasswd(t *testing.T) {
	app, accounts, stdout := newTestAppWithInput(t, "old\r\nnew\n")
	ctx := context.Background()

	gomock.InOrder(
		accounts.EXPECT().Delete(gomock.Any(), "bob").Return(nil),
		accounts.EXPECT().Rename(gomock.Any(), "carol", "caroline").Return(nil),
		accounts.EXPECT().ChangePassword(gomock.Any(), "dave", "old", "new").Return(nil),
	)

	require.NoError(t, app.Run(ctx, []string{"delete", "bob"}))
	require.NoError(t, app.Run(ctx, []string{"rename", "carol", "caroline"}))
	require.NoError(t, app.Run(ctx, []string{"passwd", "-username", "dave"}))

	assert.Equal(t, "deleted bob\nrenamed carol to caroline\npassword changed for dave\n", stdout.String())
}

func TestPositionalArgCount(t *testing.T) {
	app, _, _ := newTestApp(t)
	ctx := context.Background()

	assert.ErrorIs(t, app.Run(ctx, []string{"delete"}), ErrUsage)
	assert.ErrorIs(t, app.Run(ctx, []string{"rename", "only-one"}), ErrUsage)
	assert.ErrorIs(t, app.Run(ctx, []string{"set", "bob", "email"}), ErrUsage)
}

func TestSet(t *testing.T) {
	app, accounts, _ := newTestApp(t)
	accounts.EXPECT().ChangeAttribute(gomock.Any(), "bob", models.FieldDisplayName, "Bobby").Return(nil)

	require.NoError(t, app.Run(context.Background(), []string{"set", "bob", "display_name", "Bobby"}))
}

func TestSet_UnknownField(t *testing.T) {
	app, _, _ := newTestApp(t)
	err := app.Run(context.Background(), []string{"set", "bob", "password_hash", "x"})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestReconciliation(t *testing.T) {
	app, accounts, stdout := newTestApp(t)
	report := models.ReconciliationReport{
		Flagged: []models.Discrepancy{{Username: "bob", InIdentity: true, Operation: "delete_user"}},
	}
	accounts.EXPECT().Reconciliation(gomock.Any(), true).Return(report, nil)

	require.NoError(t, app.Run(context.Background(), []string{"reconciliation", "-audit"}))

	var got models.ReconciliationReport
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, report, got)
}

func TestWhoami(t *testing.T) {
	app, accounts, stdout := newTestApp(t)
	token, err := utils.GenerateJWTToken("go-account-keeper", "alice", models.RoleUser, time.Hour, "key")
	require.NoError(t, err)
	accounts.EXPECT().Token().Return(token.SignedString)

	require.NoError(t, app.Run(context.Background(), []string{"whoami"}))
	assert.Equal(t, "alice\n", stdout.String())
}

func TestWhoami_NoToken(t *testing.T) {
	app, accounts, _ := newTestApp(t)
	accounts.EXPECT().Token().Return("")

	assert.ErrorIs(t, app.Run(context.Background(), []string{"whoami"}), ErrNoToken)
}

func writeSeedFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const seedUsers = `{"users": [
	{"username": "alice", "password": "wonderland", "email": "alice@example.com", "preferred_language": "ES"},
	{"username": "bob", "password": "builder", "role": "MOD"}
]}`

func TestSeed(t *testing.T) {
	app, accounts, stdout := newTestApp(t)
	path := writeSeedFile(t, seedUsers)

	gomock.InOrder(
		accounts.EXPECT().Create(gomock.Any(), models.User{
			Username:          "alice",
			Email:             "alice@example.com",
			PreferredLanguage: models.LanguageES,
		}, "wonderland").Return(nil),
		accounts.EXPECT().Create(gomock.Any(), models.User{Username: "bob", Role: models.RoleMod}, "builder").Return(nil),
	)

	require.NoError(t, app.Run(context.Background(), []string{"seed", path}))
	assert.Equal(t, "created alice\ncreated bob\n", stdout.String())
}

func TestSeed_ContinuesAfterFailure(t *testing.T) {
	app, accounts, stdout := newTestApp(t)
	path := writeSeedFile(t, seedUsers)

	accounts.EXPECT().Create(gomock.Any(), gomock.Any(), "wonderland").Return(adapter.ErrConflict)
	accounts.EXPECT().Create(gomock.Any(), gomock.Any(), "builder").Return(nil)

	err := app.Run(context.Background(), []string{"seed", path})
	require.ErrorIs(t, err, adapter.ErrConflict)
	assert.Contains(t, err.Error(), "alice")
	assert.Equal(t, "failed alice\ncreated bob\n", stdout.String())
}

func TestSeed_Replace(t *testing.T) {
	app, accounts, _ := newTestApp(t)
	path := writeSeedFile(t, seedUsers)

	gomock.InOrder(
		accounts.EXPECT().Delete(gomock.Any(), "alice").Return(nil),
		accounts.EXPECT().Create(gomock.Any(), gomock.Any(), "wonderland").Return(nil),
		accounts.EXPECT().Delete(gomock.Any(), "bob").Return(adapter.ErrNotFound),
		accounts.EXPECT().Create(gomock.Any(), gomock.Any(), "builder").Return(nil),
	)

	require.NoError(t, app.Run(context.Background(), []string{"seed", "-replace", path}))
}

func TestSeed_BadFile(t *testing.T) {
	app, _, _ := newTestApp(t)
	ctx := context.Background()

	assert.ErrorIs(t, app.Run(ctx, []string{"seed"}), ErrUsage)
	assert.ErrorIs(t, app.Run(ctx, []string{"seed", writeSeedFile(t, "{not json")}), ErrUsage)

	err := app.Run(ctx, []string{"seed", filepath.Join(t.TempDir(), "missing.json")})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
