package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(opts ...Option) *Service {
	return NewService("test-secret", append([]Option{WithBcryptCost(bcrypt.MinCost)}, opts...)...)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	u, err := s.Register(ctx, "Ada", " Ada@Example.com ", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "ada@example.com", u.Email)

	_, err = s.Register(ctx, "Ada again", "ada@example.com", "secret2")
	require.ErrorIs(t, err, ErrEmailTaken)

	t.Run("invalid input", func(t *testing.T) {
		_, err := s.Register(ctx, "x", "not-an-email", "secret1")
		require.ErrorIs(t, err, ErrInvalidInput)
		_, err = s.Register(ctx, "x", "x@y.z", "short")
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("name defaults to mailbox", func(t *testing.T) {
		u, err := s.Register(ctx, "", "grace@example.com", "secret1")
		require.NoError(t, err)
		require.Equal(t, "grace", u.Name)
	})
}

func TestLoginAuthenticateLogout(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	_, err := s.Register(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "ada@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login(ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	tok, u, err := s.Login(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)

	got, err := s.Authenticate(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, u, got)

	require.NoError(t, s.Logout(ctx, tok))
	_, err = s.Authenticate(ctx, tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateRejects(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := newTestService(WithClock(clock), WithTokenTTL(time.Hour))
	_, err := s.Register(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)
	tok, _, err := s.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Authenticate(ctx, "not.a.jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject: "x", Issuer: issuer, ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}).SignedString([]byte("attacker"))
		require.NoError(t, err)
		_, err = s.Authenticate(ctx, forged)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "x", Issuer: issuer}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = s.Authenticate(ctx, none)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		now = now.Add(2 * time.Hour)
		_, err := s.Authenticate(ctx, tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFrom(context.Background())
	require.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{Token: "t"})
	p, ok := PrincipalFrom(ctx)
	require.True(t, ok)
	require.Equal(t, "t", p.Token)
}
