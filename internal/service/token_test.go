package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cytutor/backend/internal/model"
)

var testAccount = model.Account{ID: 7, Username: "alice", Role: model.RoleStudent, IsActive: true}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestTokens(t *testing.T, clock *fakeClock) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("fixture-secret", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	return m
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.ErrorIs(t, err, ErrMisconfigured)
	assert.Equal(t, KindConfigError, KindOf(err))

	_, err = NewTokenManager("  ", time.Hour)
	assert.ErrorIs(t, err, ErrMisconfigured)
}

func TestNewTokenManagerDefaultTTL(t *testing.T) {
	m, err := NewTokenManager("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, m.TTL())
}

func TestIssueAndParse(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestTokens(t, clock)

	token, expiresAt, err := m.Issue(testAccount)
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(time.Hour), expiresAt)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.AccountID)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleStudent, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestParseExpiryBoundary(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	m := newTestTokens(t, clock)

	token, expiresAt, err := m.Issue(testAccount)
	require.NoError(t, err)

	for _, at := range []time.Time{start, expiresAt.Add(-time.Second), expiresAt.Add(-time.Nanosecond)} {
		clock.t = at
		_, err := m.Parse(token)
		assert.NoError(t, err, "at %s", at)
	}

	for _, at := range []time.Time{expiresAt, expiresAt.Add(time.Second), expiresAt.Add(48 * time.Hour)} {
		clock.t = at
		_, err := m.Parse(token)
		assert.ErrorIs(t, err, ErrExpiredToken, "at %s", at)
		assert.Equal(t, KindExpiredToken, KindOf(err))
	}
}

func TestParseInvalidTokens(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestTokens(t, clock)

	token, _, err := m.Issue(testAccount)
	require.NoError(t, err)

	other, err := NewTokenManager("another-secret", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	foreign, _, err := other.Issue(testAccount)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		AccountID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AccountID:        7,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7"},
	}).SignedString([]byte("fixture-secret"))
	require.NoError(t, err)

	mismatched, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AccountID: 8,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	}).SignedString([]byte("fixture-secret"))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := map[string]string{
		"garbage":          "not.a.token",
		"empty":            "",
		"wrong-secret":     foreign,
		"alg-none":         noneToken,
		"missing-exp":      noExpiry,
		"subject-mismatch": mismatched,
		"tampered-payload": tampered,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.Parse(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Equal(t, KindInvalidToken, KindOf(err))
		})
	}
}

func TestExpiredWithBadSignatureIsInvalid(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	other, err := NewTokenManager("another-secret", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	foreign, _, err := other.Issue(testAccount)
	require.NoError(t, err)

	m := newTestTokens(t, clock)
	clock.t = clock.t.Add(2 * time.Hour)
	_, err = m.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashToken("token-a"))
	assert.NotEqual(t, a, HashToken("token-b"))
}
