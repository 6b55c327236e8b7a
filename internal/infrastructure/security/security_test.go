package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nutriscan/backend/internal/domain"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewJWTIssuer("secret", time.Hour)
	require.NoError(t, err)

	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return fixed }

	token, expiresAt, err := issuer.Issue(domain.User{ID: "u-1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), expiresAt)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestJWTIssuer_Defaults(t *testing.T) {
	_, err := NewJWTIssuer("", time.Hour)
	assert.Error(t, err)

	issuer, err := NewJWTIssuer("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, defaultTokenTTL, issuer.ttl)
}

func TestJWTIssuer_Rejects(t *testing.T) {
	issuer, err := NewJWTIssuer("secret", time.Hour)
	require.NoError(t, err)
	token, _, err := issuer.Issue(domain.User{ID: "u-1", Role: domain.RoleUser})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTIssuer("other", time.Hour)
		require.NoError(t, err)
		_, err = other.Parse(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		later := *issuer
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not-a-token")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("signing method none", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			UserID:           "u-1",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Parse(unsigned)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("missing user id", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer},
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = issuer.Parse(signed)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, hasher.Compare(hash, "hunter22"))
	assert.False(t, hasher.Compare(hash, "hunter23"))
	assert.False(t, hasher.Compare("not-a-hash", "hunter22"))
}

func TestNewBcryptHasher_CostBounds(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
