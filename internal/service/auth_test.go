package service_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cytutor/backend/internal/model"
	"github.com/cytutor/backend/internal/service"
	"github.com/cytutor/backend/internal/testutil"
)

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time { return c.t }

type fixture struct {
	store *testutil.MemoryStore
	clock *clock
	auth  *service.AuthService
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := testutil.NewMemoryStore()
	store.SetClock(c.Now)

	tokens, err := service.NewTokenManager("fixture-secret", 24*time.Hour, service.WithClock(c.Now))
	require.NoError(t, err)
	hasher, err := service.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	return &fixture{
		store: store,
		clock: c,
		auth:  service.NewAuthService(store, store, tokens, hasher, quietLogger()),
	}
}

func (f *fixture) register(t *testing.T, username, email string) (*model.Account, string) {
	t.Helper()
	account, token, err := f.auth.Register(context.Background(), model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "Abcd123!",
	})
	require.NoError(t, err)
	return account, token
}

func TestRegisterThenAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct{ username, email string }{
		{"alice", "alice@x.com"},
		{"bob_99", "Bob@Example.org"},
		{"c_d", "cd@x.io"},
	}
	for _, tc := range cases {
		account, token := f.register(t, tc.username, tc.email)
		assert.Equal(t, model.RoleStudent, account.Role)
		assert.True(t, account.IsActive)
		assert.Equal(t, service.NormalizeEmail(tc.email), account.Email)

		identity, err := f.auth.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, account.ID, identity.Account.ID)
		assert.Equal(t, account.ID, identity.Claims.AccountID)
		assert.Equal(t, model.RoleStudent, identity.Claims.Role)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "bob", "bob@x.com")

	_, _, err := f.auth.Register(ctx, model.RegisterRequest{Username: "bob2", Email: "BOB@x.com", Password: "Abcd123!"})
	assert.ErrorIs(t, err, service.ErrUserExists)

	_, _, err = f.auth.Register(ctx, model.RegisterRequest{Username: "bob", Email: "other@x.com", Password: "Abcd123!"})
	assert.ErrorIs(t, err, service.ErrUserExists)
	assert.Equal(t, service.KindUserExists, service.KindOf(err))
}

type racingStore struct {
	*testutil.MemoryStore
}

// AccountExists always misses, as if a concurrent insert had not landed yet.
func (r racingStore) AccountExists(ctx context.Context, username, email string) (bool, error) {
	return false, nil
}

func (r racingStore) CreateAccount(ctx context.Context, params model.NewAccount) (*model.Account, error) {
	if exists, _ := r.MemoryStore.AccountExists(ctx, params.Username, params.Email); exists {
		return nil, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	}
	return r.MemoryStore.CreateAccount(ctx, params)
}

func TestRegisterUniqueViolationMapsToUserExists(t *testing.T) {
	store := racingStore{testutil.NewMemoryStore()}
	tokens, err := service.NewTokenManager("fixture-secret", time.Hour)
	require.NoError(t, err)
	hasher, err := service.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	auth := service.NewAuthService(store, store, tokens, hasher, quietLogger())

	req := model.RegisterRequest{Username: "bob", Email: "bob@x.com", Password: "Abcd123!"}
	_, _, err = auth.Register(context.Background(), req)
	require.NoError(t, err)

	_, _, err = auth.Register(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrUserExists)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	account, _ := f.register(t, "alice", "alice@x.com")

	for _, login := range []string{"alice", "alice@x.com", "ALICE@X.COM", " alice "} {
		got, token, err := f.auth.Login(ctx, model.LoginRequest{Username: login, Password: "Abcd123!"})
		require.NoError(t, err, login)
		assert.Equal(t, account.ID, got.ID)

		identity, err := f.auth.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, account.ID, identity.Account.ID)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "alice@x.com")

	_, _, unknownErr := f.auth.Login(ctx, model.LoginRequest{Username: "mallory", Password: "Abcd123!"})
	_, _, wrongErr := f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "Wrong123!"})

	for _, err := range []error{unknownErr, wrongErr} {
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		assert.Equal(t, service.KindInvalidCredentials, service.KindOf(err))
	}
	assert.NotEqual(t, unknownErr.Error(), wrongErr.Error())

	_, _, err := f.auth.Login(ctx, model.LoginRequest{Username: "alice"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestLoginDeactivated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	account, _ := f.register(t, "alice", "alice@x.com")
	_, err := f.auth.SetAccountActive(ctx, account.ID, false)
	require.NoError(t, err)

	_, _, err = f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "Abcd123!"})
	assert.ErrorIs(t, err, service.ErrAccountDeactivated)

	_, _, err = f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "Nope123!"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginCorruptHash(t *testing.T) {
	f := newFixture(t)
	account, _ := f.register(t, "alice", "alice@x.com")
	f.store.SetPasswordHash(account.ID, "garbage")

	_, _, err := f.auth.Login(context.Background(), model.LoginRequest{Username: "alice", Password: "Abcd123!"})
	assert.ErrorIs(t, err, service.ErrCorruptCredential)
}

func TestAuthenticateExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, token := f.register(t, "alice", "alice@x.com")
	issued := f.clock.t

	f.clock.t = issued.Add(24*time.Hour - time.Second)
	_, err := f.auth.Authenticate(ctx, token)
	require.NoError(t, err)

	f.clock.t = issued.Add(24 * time.Hour)
	_, err = f.auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, service.ErrExpiredToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, token := f.register(t, "alice", "alice@x.com")
	_, other, err := f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "Abcd123!"})
	require.NoError(t, err)

	identity, err := f.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, identity))
	require.NoError(t, f.auth.Logout(ctx, identity))
	assert.Equal(t, 1, f.store.RevokedCount())

	_, err = f.auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, service.ErrRevokedToken)
	assert.Equal(t, service.KindRevokedToken, service.KindOf(err))

	_, err = f.auth.Authenticate(ctx, other)
	assert.NoError(t, err, "other sessions stay valid")

	assert.ErrorIs(t, f.auth.Logout(ctx, nil), service.ErrNoAuth)
}

func TestAuthenticateDeactivatedAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	account, token := f.register(t, "alice", "alice@x.com")
	_, second, err := f.auth.Login(ctx, model.LoginRequest{Username: "alice", Password: "Abcd123!"})
	require.NoError(t, err)

	_, err = f.auth.SetAccountActive(ctx, account.ID, false)
	require.NoError(t, err)
	for _, tok := range []string{token, second} {
		_, err = f.auth.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, service.ErrAccountDeactivated)
	}

	_, err = f.auth.SetAccountActive(ctx, account.ID, true)
	require.NoError(t, err)
	_, err = f.auth.Authenticate(ctx, token)
	assert.NoError(t, err)
}

func TestAuthenticateUnknownAccount(t *testing.T) {
	f := newFixture(t)
	tokens, err := service.NewTokenManager("fixture-secret", time.Hour, service.WithClock(f.clock.Now))
	require.NoError(t, err)
	token, _, err := tokens.Issue(model.Account{ID: 404, Username: "ghost", Role: model.RoleStudent})
	require.NoError(t, err)

	_, err = f.auth.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, service.ErrInvalidUser)
}

func TestAuthenticateOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, token := f.register(t, "alice", "alice@x.com")

	_, err := f.auth.Authenticate(ctx, "forged.token.value")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
	assert.Zero(t, f.store.RevocationChecks, "forged tokens never reach the store")
	assert.Zero(t, f.store.AccountLookups)

	identity, err := f.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, identity))
	lookups := f.store.AccountLookups

	_, err = f.auth.Authenticate(ctx, token)
	assert.ErrorIs(t, err, service.ErrRevokedToken)
	assert.Equal(t, lookups, f.store.AccountLookups, "revoked tokens never reach account resolution")

	_, err = f.auth.Authenticate(ctx, "  ")
	assert.ErrorIs(t, err, service.ErrMissingToken)
}

func TestAuthenticateStoreFailure(t *testing.T) {
	f := newFixture(t)
	_, token := f.register(t, "alice", "alice@x.com")
	f.store.Err = errors.New("connection reset")

	_, err := f.auth.Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, service.KindInternal, service.KindOf(err))
}

func TestProfileStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, token := f.register(t, "alice", "alice@x.com")
	identity, err := f.auth.Authenticate(ctx, token)
	require.NoError(t, err)

	user, err := f.auth.Profile(ctx, identity)
	require.NoError(t, err)
	require.NotNil(t, user.Stats)
	assert.Zero(t, user.Stats.ChallengesSolved)
	assert.Zero(t, user.Stats.TotalPoints)
}

func TestRequireRole(t *testing.T) {
	student := &service.Identity{Account: model.Account{ID: 1, Role: model.RoleStudent}}
	admin := &service.Identity{Account: model.Account{ID: 2, Role: model.RoleAdmin}}

	err := service.RequireRole(student, model.RoleAdmin)
	assert.ErrorIs(t, err, service.ErrInsufficientPermissions)
	var permErr *service.PermissionError
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, []model.Role{model.RoleAdmin}, permErr.Allowed)
	assert.Equal(t, model.RoleStudent, permErr.Actual)

	assert.NoError(t, service.RequireRole(admin, model.RoleAdmin))
	assert.NoError(t, service.RequireRole(student, model.RoleStudent, model.RoleAdmin))
	assert.ErrorIs(t, service.RequireRole(nil, model.RoleAdmin), service.ErrNoAuth)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.auth.EnsureAdmin(ctx, "", "", ""))
	require.NoError(t, f.auth.EnsureAdmin(ctx, "root", "root@x.com", "Adm1n!pass"))
	require.NoError(t, f.auth.EnsureAdmin(ctx, "root", "root@x.com", "Different1!"))

	account, token, err := f.auth.Login(ctx, model.LoginRequest{Username: "root", Password: "Adm1n!pass"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, account.Role)

	identity, err := f.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.NoError(t, service.RequireRole(identity, model.RoleAdmin))
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, service.IdentityFromContext(ctx))

	identity := &service.Identity{Account: model.Account{ID: 3}}
	ctx = service.WithIdentity(ctx, identity)
	assert.Same(t, identity, service.IdentityFromContext(ctx))
}
