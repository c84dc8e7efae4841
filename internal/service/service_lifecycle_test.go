// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/store"
	"github.com/MKhiriev/go-account-keeper/internal/validators"
	"github.com/MKhiriev/go-account-keeper/models"
)

func alice() models.User {
	return models.User{
		Username:    "alice",
		DisplayName: "Alice",
		Email:       "alice@example.com",
		BirthDate:   "14-07-1990",
	}
}

func TestCreateUser_ThenAuthenticate(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.CreateUser(ctx, alice(), "wonderland"))

	ok, err := f.svc.Authenticate(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.True(t, ok)

	inProfiles, _ := f.profiles.Exists(ctx, "alice")
	inIdentity, _ := f.identity.Exists(ctx, "alice")
	assert.True(t, inProfiles)
	assert.True(t, inIdentity)

	user, err := f.svc.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.LanguageEN, user.PreferredLanguage)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash)
}

func TestCreateUser_NormalizesUsername(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	user := alice()
	user.Username = "  Alice "
	require.NoError(t, f.svc.CreateUser(ctx, user, "wonderland"))

	exists, _ := f.identity.Exists(ctx, "alice")
	assert.True(t, exists)
}

func TestCreateUser_Twice(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.CreateUser(ctx, alice(), "wonderland"))

	err := f.svc.CreateUser(ctx, alice(), "other")
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
	assert.Equal(t, KindAlreadyExists, KindOf(err))

	profiles, _ := f.profiles.ListUsernames(ctx)
	accounts, _ := f.identity.ListUsernames(ctx)
	assert.Equal(t, []string{"alice"}, profiles)
	assert.Equal(t, []string{"alice"}, accounts)

	ok, err := f.svc.Authenticate(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.True(t, ok, "first password must still be valid")
}

func TestCreateUser_IdentityFailureRollsBack(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	identityErr := errors.New("ftp server unreachable")
	f.identity.fail("Create", identityErr)

	err := f.svc.CreateUser(ctx, alice(), "wonderland")
	assert.ErrorIs(t, err, identityErr)

	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, OutcomeRolledBack, lerr.Outcome)
	assert.Equal(t, OpCreateUser, lerr.Operation)

	exists, _ := f.profiles.Exists(ctx, "alice")
	assert.False(t, exists)
}

func TestCreateUser_CompensationFailureIsInconsistent(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	f.identity.fail("Create", errors.New("ftp server unreachable"))
	f.profiles.fail("Delete", errors.New("database gone"))

	err := f.svc.CreateUser(ctx, alice(), "wonderland")
	assert.ErrorIs(t, err, ErrInconsistent)
	assert.Equal(t, KindInconsistent, KindOf(err))

	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "alice", lerr.Username)
	assert.Error(t, lerr.CompensationErr)

	flagged := f.reconciliation.Flagged(ctx)
	require.Len(t, flagged, 1)
	assert.Equal(t, "alice", flagged[0].Username)
	assert.Equal(t, OpCreateUser, flagged[0].Operation)
	assert.True(t, flagged[0].InProfileStore)
	assert.False(t, flagged[0].InIdentity)
}

func TestCreateUser_ValidationRunsBeforeStores(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(u *models.User)
		password string
		wantErr  error
	}{
		{"bad username", func(u *models.User) { u.Username = "-bad" }, "pw", validators.ErrInvalidName},
		{"bad birth date", func(u *models.User) { u.BirthDate = "1990-07-14" }, "pw", validators.ErrBadFormat},
		{"bad email", func(u *models.User) { u.Email = "nope" }, "pw", validators.ErrBadFormat},
		{"unknown language", func(u *models.User) { u.PreferredLanguage = "fr" }, "pw", validators.ErrUnsupportedLanguage},
		{"unknown role", func(u *models.User) { u.Role = "root" }, "pw", validators.ErrInvalidRole},
		{"empty password", func(u *models.User) {}, "", validators.ErrBadFormat},
		{"reserved", func(u *models.User) { u.Username = "admin" }, "pw", validators.ErrAdminProtected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLifecycleFixture()
			ctx := context.Background()

			user := alice()
			tt.mutate(&user)

			err := f.svc.CreateUser(ctx, user, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)

			names, _ := f.profiles.ListUsernames(ctx)
			assert.Empty(t, names)
		})
	}
}

func TestRenameUser_RoundTripRestoresBothStores(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.CreateUser(ctx, alice(), "wonderland"))
	f.identity.putFile("alice", "rabbit-hole.txt")

	require.NoError(t, f.svc.RenameUser(ctx, "alice", "bob"))

	assert.Equal(t, []string{"rabbit-hole.txt"}, f.identity.files("bob"))
	exists, _ := f.profiles.Exists(ctx, "alice")
	assert.False(t, exists)

	require.NoError(t, f.svc.RenameUser(ctx, "bob", "alice"))

	profiles, _ := f.profiles.ListUsernames(ctx)
	accounts, _ := f.identity.ListUsernames(ctx)
	assert.Equal(t, []string{"alice"}, profiles)
	assert.Equal(t, []string{"alice"}, accounts)
	assert.Equal(t, []string{"rabbit-hole.txt"}, f.identity.files("alice"))

	ok, err := f.svc.Authenticate(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRenameUser_IdentityFailureRenamesProfileBack(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.CreateUser(ctx, alice(), "wonderland"))
	f.identity.fail("Rename", errors.New("disk full"))

	err := f.svc.RenameUser(ctx, "alice", "bob")
	require.Error(t, err)
	assert.Equal(t, KindUnknown, KindOf(err))

	profiles, _ := f.profiles.ListUsernames(ctx)
	assert.Equal(t, []string{"alice"}, profiles)
}

func TestRenameUser_CompensationFailureFlagsBothNames(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.CreateUser(ctx, alice(), "wonderland"))
	f.identity.fail("Rename", errors.New("disk full"))
	f.profiles.failAfter("Rename", 1, errors.New("database gone"))

	err := f.svc.RenameUser(ctx, "alice", "bob")
	require.ErrorIs(t, err, ErrInconsistent)

	flagged := f.reconciliation.Flagged(ctx)
	require.Len(t, flagged, 2)

	assert.Equal(t, "alice", flagged[0].Username)
	assert.Equal(t, OpRenameUser, flagged[0].Operation)
	assert.False(t, flagged[0].InProfileStore)
	assert.True(t, flagged[0].InIdentity)

	assert.Equal(t, "bob", flagged[1].Username)
	assert.Equal(t, OpRenameUser, flagged[1].Operation)
	assert.True(t, flagged[1].InProfileStore)
	assert.False(t, flagged[1].InIdentity)
}

func TestLifecycle_SameUsernameOperationsAreSerialized(t *testing.T) {
	hasher := testHasher()
	profiles := newMemProfiles()
	identity := newBlockingIdentity(hasher)
	svc := NewLifecycleService(profiles, identity, hasher, nil, nil, logger.Nop())
	ctx := context.Background()

	require.NoError(t, svc.CreateUser(ctx, alice(), "wonderland"))

	renameErr := make(chan error, 1)
	go func() { renameErr <- svc.RenameUser(ctx, "alice", "bob") }()
	<-identity.entered

	deleteErr := make(chan error, 1)
	go func() { deleteErr <- svc.DeleteUser(ctx, "bob") }()

	select {
	case err := <-deleteErr:
		t.Fatalf("DeleteUser returned %v while RenameUser held the username", err)
	case <-time.After(100 * time.Millisecond):
	}

	exists, err := profiles.Exists(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, exists, "profile must be untouched until the rename finishes")

	close(identity.release)
	require.NoError(t, <-renameErr)
	require.NoError(t, <-deleteErr)

	profileNames, _ := profiles.ListUsernames(ctx)
	accountNames, _ := identity.ListUsernames(ctx)
	assert.Empty(t, profileNames)
	assert.Empty(t, accountNames)
}

func TestRenameUser_ToTakenOrSameName(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.CreateUser(ctx, alice(), "wonderland"))
	bob := alice()
	bob.Username = "bob"
	require.NoError(t, f.svc.CreateUser(ctx, bob, "builder"))

	assert.ErrorIs(t, f.svc.RenameUser(ctx, "alice", "bob"), store.ErrAlreadyExists)
	assert.ErrorIs(t, f.svc.RenameUser(ctx, "alice", "ALICE"), store.ErrAlreadyExists)
	assert.ErrorIs(t, f.svc.RenameUser(ctx, "ghost", "casper"), store.ErrNotFound)
}

func TestReservedAccountsAreProtected(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	admin := []byte("root")
	require.NoError(t, f.identity.Provision(ctx, models.Account{Username: "admin"}, admin))
	before, _ := f.identity.Get(ctx, "admin")

	assert.ErrorIs(t, f.svc.DeleteUser(ctx, "admin"), validators.ErrAdminProtected)
	assert.ErrorIs(t, f.svc.RenameUser(ctx, "admin", "root"), validators.ErrAdminProtected)
	assert.ErrorIs(t, f.svc.RenameUser(ctx, "someone", "admin"), validators.ErrAdminProtected)
	assert.ErrorIs(t, f.svc.ChangePassword(ctx, "admin", "root", "new"), validators.ErrAdminProtected)
	assert.ErrorIs(t, f.svc.ChangeAttribute(ctx, "ADMIN", models.FieldEmail, "a@b.io"), validators.ErrAdminProtected)

	_, err := f.svc.Authenticate(ctx, "admin", "root")
	assert.ErrorIs(t, err, validators.ErrAdminProtected)
	assert.Equal(t, KindAdminProtected, KindOf(err))

	after, _ := f.identity.Get(ctx, "admin")
	assert.Equal(t, before, after)
	names, _ := f.profiles.ListUsernames(ctx)
	assert.Empty(t, names)
}

func TestChangeAttribute_BirthDateFormat(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.CreateUser(ctx, alice(), "wonderland"))

	err := f.svc.ChangeAttribute(ctx, "alice", models.FieldBirthDate, "2020-01-01")
	assert.ErrorIs(t, err, validators.ErrBadFormat)
	assert.Equal(t, KindBadFormat, KindOf(err))

	require.NoError(t, f.svc.ChangeAttribute(ctx, "alice", models.FieldBirthDate, "01-01-2020"))

	user, err := f.svc.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "01-01-2020", user.BirthDate)
}

func TestChangeAttribute_CanonicalizesEnums(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.CreateUser(ctx, alice(), "wonderland"))
	require.NoError(t, f.svc.ChangeAttribute(ctx, "alice", models.FieldPreferredLanguage, "es"))
	require.NoError(t, f.svc.ChangeAttribute(ctx, "alice", models.FieldRole, "mod"))

	user, err := f.svc.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.LanguageES, user.PreferredLanguage)
	assert.Equal(t, models.RoleMod, user.Role)

	assert.ErrorIs(t, f.svc.ChangeAttribute(ctx, "alice", models.FieldPreferredLanguage, "xx"), validators.ErrUnsupportedLanguage)
	assert.ErrorIs(t, f.svc.ChangeAttribute(ctx, "ghost", models.FieldGender, "f"), store.ErrNotFound)
}

func TestAliceScenario(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.CreateUser(ctx, alice(), "wonderland"))

	ok, err := f.svc.Authenticate(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.Authenticate(ctx, "alice", "looking-glass")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.svc.DeleteUser(ctx, "alice"))

	_, err = f.svc.Authenticate(ctx, "alice", "wonderland")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))

	exists, _ := f.identity.Exists(ctx, "alice")
	assert.False(t, exists)
}

func TestDeleteUser_IdentityFailureRestoresProfile(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.CreateUser(ctx, alice(), "wonderland"))
	original, _ := f.profiles.Fetch(ctx, "alice")

	f.identity.fail("Delete", errors.New("ftp server unreachable"))
	err := f.svc.DeleteUser(ctx, "alice")
	require.Error(t, err)

	restored, err := f.profiles.Fetch(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, original.PasswordHash, restored.PasswordHash)
	assert.True(t, original.CreatedAt.Equal(restored.CreatedAt))

	ok, err := f.svc.Authenticate(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteUser_Missing(t *testing.T) {
	f := newLifecycleFixture()

	err := f.svc.DeleteUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)

	var lerr *LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, OutcomeAborted, lerr.Outcome)
}

func TestChangePassword(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.CreateUser(ctx, alice(), "wonderland"))

	err := f.svc.ChangePassword(ctx, "alice", "wrong", "new-secret")
	assert.ErrorIs(t, err, ErrIncorrectPassword)
	assert.Equal(t, KindIncorrectPassword, KindOf(err))

	assert.ErrorIs(t, f.svc.ChangePassword(ctx, "alice", "wonderland", ""), validators.ErrBadFormat)

	require.NoError(t, f.svc.ChangePassword(ctx, "alice", "wonderland", "new-secret"))

	ok, err := f.svc.Authenticate(ctx, "alice", "new-secret")
	require.NoError(t, err)
	assert.True(t, ok)

	account, _ := f.identity.Get(ctx, "alice")
	ok, err = testHasher().Verify([]byte("new-secret"), account.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok, "identity store must receive the new password")
}

func TestChangePassword_IdentityFailureRevertsProfileHash(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.CreateUser(ctx, alice(), "wonderland"))
	f.identity.fail("ReplacePassword", errors.New("ftp server unreachable"))

	err := f.svc.ChangePassword(ctx, "alice", "wonderland", "new-secret")
	require.Error(t, err)

	ok, err := f.svc.Authenticate(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.True(t, ok)
}
