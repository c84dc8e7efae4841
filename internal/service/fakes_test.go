// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-account-keeper/internal/crypto"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
	"github.com/MKhiriev/go-account-keeper/internal/store"
	"github.com/MKhiriev/go-account-keeper/internal/validators"
	"github.com/MKhiriev/go-account-keeper/models"
)

// memProfiles is a stateful in-memory profile store. A non-nil fail* error
// is returned by the next matching call.
type memProfiles struct {
	mu       sync.Mutex
	users    map[string]models.User
	failNext map[string]error
	skip     map[string]int
}

func newMemProfiles() *memProfiles {
	return &memProfiles{
		users:    make(map[string]models.User),
		failNext: make(map[string]error),
		skip:     make(map[string]int),
	}
}

func (m *memProfiles) fail(method string, err error) {
	m.failAfter(method, 0, err)
}

// failAfter lets the next n calls of method through and fails the one
// after them.
func (m *memProfiles) failAfter(method string, n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext[method] = err
	m.skip[method] = n
}

func (m *memProfiles) injected(method string) error {
	if m.skip[method] > 0 {
		m.skip[method]--
		return nil
	}
	err := m.failNext[method]
	delete(m.failNext, method)
	return err
}

func (m *memProfiles) Exists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[username]
	return ok, nil
}

func (m *memProfiles) Create(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("Create"); err != nil {
		return models.User{}, err
	}
	if _, ok := m.users[user.Username]; ok {
		return models.User{}, store.ErrProfileAlreadyExists
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = time.Now()
	m.users[user.Username] = user
	return user, nil
}

func (m *memProfiles) Delete(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("Delete"); err != nil {
		return models.User{}, err
	}
	user, ok := m.users[username]
	if !ok {
		return models.User{}, store.ErrProfileNotFound
	}
	delete(m.users, username)
	return user, nil
}

func (m *memProfiles) Rename(_ context.Context, oldUsername, newUsername string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("Rename"); err != nil {
		return err
	}
	user, ok := m.users[oldUsername]
	if !ok {
		return store.ErrProfileNotFound
	}
	if _, taken := m.users[newUsername]; taken {
		return store.ErrProfileAlreadyExists
	}
	delete(m.users, oldUsername)
	user.Username = newUsername
	m.users[newUsername] = user
	return nil
}

func (m *memProfiles) UpdateField(_ context.Context, username string, field models.Field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return store.ErrProfileNotFound
	}
	switch field {
	case models.FieldDisplayName:
		user.DisplayName = value
	case models.FieldBirthDate:
		user.BirthDate = value
	case models.FieldGender:
		user.Gender = value
	case models.FieldEmail:
		user.Email = value
	case models.FieldPreferredLanguage:
		user.PreferredLanguage = models.Language(value)
	case models.FieldRole:
		user.Role = models.Role(value)
	default:
		return store.ErrUnknownField
	}
	m.users[username] = user
	return nil
}

func (m *memProfiles) Fetch(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return models.User{}, store.ErrProfileNotFound
	}
	return user, nil
}

func (m *memProfiles) UpdatePasswordHash(_ context.Context, username, newHash, oldHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("UpdatePasswordHash"); err != nil {
		return err
	}
	user, ok := m.users[username]
	if !ok {
		return store.ErrProfileNotFound
	}
	if user.PasswordHash != oldHash {
		return store.ErrPasswordHashMismatch
	}
	user.PasswordHash = newHash
	m.users[username] = user
	return nil
}

func (m *memProfiles) ListUsernames(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.users)), nil
}

// memIdentity is a stateful in-memory identity store whose home
// directories hold file names.
type memIdentity struct {
	mu       sync.Mutex
	hasher   crypto.PasswordHasher
	accounts map[string]models.Account
	homes    map[string][]string
	failNext map[string]error
}

func newMemIdentity(hasher crypto.PasswordHasher) *memIdentity {
	return &memIdentity{
		hasher:   hasher,
		accounts: make(map[string]models.Account),
		homes:    make(map[string][]string),
		failNext: make(map[string]error),
	}
}

func (m *memIdentity) fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext[method] = err
}

func (m *memIdentity) injected(method string) error {
	err := m.failNext[method]
	delete(m.failNext, method)
	return err
}

func (m *memIdentity) Exists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.accounts[username]
	return ok, nil
}

func (m *memIdentity) Create(_ context.Context, username string, password []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("Create"); err != nil {
		return err
	}
	if _, ok := m.accounts[username]; ok {
		return store.ErrAccountAlreadyExists
	}
	hash, err := m.hasher.Hash(password)
	if err != nil {
		return err
	}
	m.accounts[username] = models.Account{Username: username, PasswordHash: hash, HomeDirectory: username}
	m.homes[username] = []string{}
	return nil
}

func (m *memIdentity) Rename(_ context.Context, oldUsername, newUsername string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("Rename"); err != nil {
		return err
	}
	account, ok := m.accounts[oldUsername]
	if !ok {
		return store.ErrAccountNotFound
	}
	if _, taken := m.accounts[newUsername]; taken {
		return store.ErrAccountAlreadyExists
	}
	delete(m.accounts, oldUsername)
	account.Username = newUsername
	account.HomeDirectory = newUsername
	m.accounts[newUsername] = account
	m.homes[newUsername] = m.homes[oldUsername]
	delete(m.homes, oldUsername)
	return nil
}

func (m *memIdentity) Delete(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("Delete"); err != nil {
		return err
	}
	if _, ok := m.accounts[username]; !ok {
		return store.ErrAccountNotFound
	}
	delete(m.accounts, username)
	delete(m.homes, username)
	return nil
}

func (m *memIdentity) ReplacePassword(_ context.Context, username string, password []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("ReplacePassword"); err != nil {
		return err
	}
	account, ok := m.accounts[username]
	if !ok {
		return store.ErrAccountNotFound
	}
	hash, err := m.hasher.Hash(password)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	m.accounts[username] = account
	return nil
}

func (m *memIdentity) Get(_ context.Context, username string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[username]
	if !ok {
		return models.Account{}, store.ErrAccountNotFound
	}
	return account, nil
}

func (m *memIdentity) ListUsernames(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.accounts)), nil
}

func (m *memIdentity) Provision(_ context.Context, account models.Account, password []byte, extraDirs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	hash, err := m.hasher.Hash(password)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	m.accounts[account.Username] = account
	m.homes[account.HomeDirectory] = append(m.homes[account.HomeDirectory], extraDirs...)
	return nil
}

func (m *memIdentity) putFile(home, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.homes[home] = append(m.homes[home], name)
}

func (m *memIdentity) files(home string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.homes[home])
}

// blockingIdentity parks the first Rename until release is closed.
type blockingIdentity struct {
	*memIdentity
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingIdentity(hasher crypto.PasswordHasher) *blockingIdentity {
	return &blockingIdentity{
		memIdentity: newMemIdentity(hasher),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (b *blockingIdentity) Rename(ctx context.Context, oldUsername, newUsername string) error {
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
	return b.memIdentity.Rename(ctx, oldUsername, newUsername)
}

// testHasher is argon2id with parameters small enough for unit tests.
func testHasher() crypto.PasswordHasher {
	return crypto.NewArgon2Hasher(crypto.ArgonParams{Time: 1, MemoryKiB: 1024, Threads: 1, KeyLength: 16})
}

type lifecycleFixture struct {
	svc            LifecycleService
	profiles       *memProfiles
	identity       *memIdentity
	reconciliation ReconciliationService
}

// newLifecycleFixture wires the validated coordinator over in-memory
// stores with "admin" and "common" reserved.
func newLifecycleFixture() lifecycleFixture {
	hasher := testHasher()
	profiles := newMemProfiles()
	identity := newMemIdentity(hasher)
	reserved := validators.NewReservedGuard(AdminUsername, CommonUsername)
	reconciliation := NewReconciliationService(profiles, identity, reserved, nil, logger.Nop())

	svc := NewLifecycleValidationService(reserved).Wrap(
		NewLifecycleService(profiles, identity, hasher, reconciliation, nil, logger.Nop()),
	)

	return lifecycleFixture{
		svc:            svc,
		profiles:       profiles,
		identity:       identity,
		reconciliation: reconciliation,
	}
}
