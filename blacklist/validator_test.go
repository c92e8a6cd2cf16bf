package blacklist

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret, jti string, userID int64, exp time.Time) string {
	t.Helper()
	claims := CustomClaims{
		Scopes: []string{"read:profile"},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	_, reg := newTestRegistry(t)
	v := NewValidator(testSecret, reg)
	ctx := context.Background()

	tokenString := signToken(t, testSecret, "jti-1", 42, time.Now().Add(time.Hour))

	claims, err := v.ValidateToken(ctx, tokenString)
	require.NoError(t, err)
	assert.Equal(t, "jti-1", claims.ID)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, []string{"read:profile"}, claims.Scopes)
}

func TestValidateRejectsRevokedToken(t *testing.T) {
	_, reg := newTestRegistry(t)
	v := NewValidator(testSecret, reg)
	ctx := context.Background()

	tokenString := signToken(t, testSecret, "jti-1", 42, time.Now().Add(time.Hour))

	claims, err := v.ValidateToken(ctx, tokenString)
	require.NoError(t, err)

	require.True(t, v.RevokeClaims(ctx, claims, ReasonLogout))

	_, err = v.ValidateToken(ctx, tokenString)
	assert.ErrorContains(t, err, "revoked")
}

func TestValidateRejectsBadSignature(t *testing.T) {
	_, reg := newTestRegistry(t)
	v := NewValidator(testSecret, reg)

	tokenString := signToken(t, "some-other-secret", "jti-1", 42, time.Now().Add(time.Hour))

	_, err := v.ValidateToken(context.Background(), tokenString)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	_, reg := newTestRegistry(t)
	v := NewValidator(testSecret, reg)

	tokenString := signToken(t, testSecret, "jti-1", 42, time.Now().Add(-time.Minute))

	_, err := v.ValidateToken(context.Background(), tokenString)
	assert.Error(t, err)
}

func TestValidateRejectsTokenWithoutJTI(t *testing.T) {
	_, reg := newTestRegistry(t)
	v := NewValidator(testSecret, reg)

	tokenString := signToken(t, testSecret, "", 42, time.Now().Add(time.Hour))

	_, err := v.ValidateToken(context.Background(), tokenString)
	assert.ErrorContains(t, err, "jti")
}

func TestValidateFailsClosedOnStoreError(t *testing.T) {
	mr, reg := newTestRegistry(t)
	v := NewValidator(testSecret, reg)

	tokenString := signToken(t, testSecret, "jti-1", 42, time.Now().Add(time.Hour))

	mr.SetError("connection lost")

	_, err := v.ValidateToken(context.Background(), tokenString)
	assert.ErrorContains(t, err, "revoked", "store outage must deny, not admit")
}

func TestRevokeAllForUser(t *testing.T) {
	_, reg := newTestRegistry(t)
	v := NewValidator(testSecret, reg)
	ctx := context.Background()

	for _, jti := range []string{"jti-1", "jti-2", "jti-3"} {
		require.True(t, reg.BlacklistToken(ctx, jti, 42, time.Now().Add(time.Hour), ReasonLogout))
	}

	assert.Equal(t, 3, v.RevokeAllForUser(ctx, 42, ReasonSecurityAction))
	assert.Equal(t, 0, reg.BlacklistedTokenCount(ctx, 42))
}
