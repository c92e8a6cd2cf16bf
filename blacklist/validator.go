package blacklist

import (
	"context"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims defines the structure of the JWT claims used in the system.
// The 'jti' (JWT ID) from RegisteredClaims is crucial for token revocation,
// and 'sub' carries the numeric user ID.
type CustomClaims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// Validator parses JWTs and rejects tokens whose JTI appears in the
// revocation registry.
type Validator struct {
	secret   []byte
	registry *Registry
}

func NewValidator(secret string, registry *Registry) *Validator {
	return &Validator{
		secret:   []byte(secret),
		registry: registry,
	}
}

// ValidateToken parses and validates a JWT string. It checks the signature,
// standard claims (like expiration), and the revocation registry. A token
// without a JTI cannot be checked for revocation and is rejected outright.
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})

	if err != nil {
		// This handles parsing errors, signature validation errors, and expired tokens.
		return nil, fmt.Errorf("token parse/validation error: %w", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, fmt.Errorf("could not cast claims to CustomClaims")
	}

	if claims.ID == "" {
		return nil, fmt.Errorf("token is missing 'jti' claim, revocation cannot be checked")
	}

	if v.registry.IsTokenBlacklisted(ctx, claims.ID) {
		return nil, fmt.Errorf("token has been revoked")
	}

	return claims, nil
}

// RevokeClaims blacklists a parsed token using its own jti and exp claims.
func (v *Validator) RevokeClaims(ctx context.Context, claims *CustomClaims, reason Reason) bool {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return false
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return false
	}

	return v.registry.BlacklistToken(ctx, claims.ID, userID, claims.ExpiresAt.Time, reason)
}

// RevokeAllForUser blacklists every token in the user's revocation index.
func (v *Validator) RevokeAllForUser(ctx context.Context, userID int64, reason Reason) int {
	return v.registry.BlacklistAllUserTokens(ctx, userID, reason)
}
