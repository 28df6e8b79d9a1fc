package jwt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventreport/backend/pkg/jwt"
)

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("secret-key")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		claims := jwt.StandardClaims{
			Subject:   "user@example.com",
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		}

		token, err := svc.Generate(claims)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		var parsed jwt.StandardClaims
		require.NoError(t, svc.Parse(token, &parsed))
		assert.Equal(t, "user@example.com", parsed.Subject)
		assert.Equal(t, claims.ExpiresAt, parsed.ExpiresAt)
	})

	t.Run("wrong key rejects the signature", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Generate(jwt.StandardClaims{Subject: "user@example.com"})
		require.NoError(t, err)

		other, err := jwt.NewFromString("a-different-key")
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, other.Parse(token, &parsed), jwt.ErrInvalidSignature)
	})

	t.Run("tampered payload rejected", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Generate(jwt.StandardClaims{Subject: "user@example.com"})
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		parts[1] = parts[1][:len(parts[1])-2] + "xx"
		var parsed jwt.StandardClaims
		assert.Error(t, svc.Parse(strings.Join(parts, "."), &parsed))
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()
		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse("not-a-token", &parsed), jwt.ErrInvalidToken)
	})

	t.Run("expired claims rejected during parse", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Generate(jwt.StandardClaims{
			Subject:   "user@example.com",
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		})
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse(token, &parsed), jwt.ErrExpiredToken)
	})

	t.Run("empty signing key rejected", func(t *testing.T) {
		t.Parallel()
		_, err := jwt.NewFromString("")
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
	})
}

func TestStandardClaimsValid(t *testing.T) {
	t.Parallel()

	t.Run("future expiry", func(t *testing.T) {
		t.Parallel()
		c := jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()}
		assert.NoError(t, c.Valid())
	})

	t.Run("past expiry", func(t *testing.T) {
		t.Parallel()
		c := jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Hour).Unix()}
		assert.Error(t, c.Valid())
	})

	t.Run("not yet valid", func(t *testing.T) {
		t.Parallel()
		c := jwt.StandardClaims{NotBefore: time.Now().Add(time.Hour).Unix()}
		assert.Error(t, c.Valid())
	})

	t.Run("zero claims always valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, jwt.StandardClaims{}.Valid())
	})
}
