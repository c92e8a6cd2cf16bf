// Package blacklist is the token revocation registry. Each revoked token
// gets a record keyed by its JTI with a TTL equal to the token's remaining
// lifetime, so records disappear exactly when the tokens they revoke stop
// being valid anyway. A per-user index of revoked JTIs supports bulk
// revocation; its TTL is the system-wide maximum token lifetime, so it can
// outlive individual records and carry stale JTIs, which callers tolerate.
//
// Revocation checks are the one place in this codebase that fails closed: a
// store error during IsTokenBlacklisted reads as "revoked". Accepting a
// revoked credential because Redis was down is a worse failure than asking a
// user to log in again.
package blacklist

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/abdelmounim-dev/authcache/metrics"
	"github.com/abdelmounim-dev/authcache/store"
)

// Reason records why a token was revoked.
type Reason string

const (
	ReasonLogout         Reason = "logout"
	ReasonPasswordChange Reason = "password_change"
	ReasonSecurityAction Reason = "security_action"
	ReasonAdminRevoke    Reason = "admin_revoke"
)

// Record is the stored fact that one issued token must no longer be honored.
type Record struct {
	TokenID       string    `json:"token_id"`
	UserID        int64     `json:"user_id"`
	BlacklistedAt time.Time `json:"blacklisted_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	Reason        Reason    `json:"reason"`
}

func tokenKey(tokenID string) string {
	return fmt.Sprintf("blacklist:token:%s", tokenID)
}

func userKey(userID int64) string {
	return fmt.Sprintf("blacklist:user:%d", userID)
}

// Registry manages revocation records and the per-user revocation index.
type Registry struct {
	store            *store.KeyValueStore
	maxTokenLifetime time.Duration
}

func NewRegistry(kv *store.KeyValueStore, maxTokenLifetime time.Duration) *Registry {
	return &Registry{
		store:            kv,
		maxTokenLifetime: maxTokenLifetime,
	}
}

// BlacklistToken writes a revocation record expiring with the token itself
// and adds the JTI to the owner's revocation index. A token that has already
// expired needs no record; that case is a successful no-op.
func (r *Registry) BlacklistToken(ctx context.Context, tokenID string, userID int64, expiresAt time.Time, reason Reason) bool {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return true
	}

	rec := Record{
		TokenID:       tokenID,
		UserID:        userID,
		BlacklistedAt: time.Now().UTC(),
		ExpiresAt:     expiresAt,
		Reason:        reason,
	}
	if !r.store.Set(ctx, tokenKey(tokenID), rec, ttl) {
		return false
	}

	// The index TTL is the account-wide token lifetime ceiling, not this
	// token's expiry, so one long-lived index covers all of a user's tokens.
	var ids []string
	r.store.Get(ctx, userKey(userID), &ids)
	if !containsID(ids, tokenID) {
		ids = append(ids, tokenID)
	}
	if !r.store.Set(ctx, userKey(userID), ids, r.maxTokenLifetime) {
		log.Printf("blacklist: recorded token %s but failed to update index for user %d", tokenID, userID)
		return false
	}

	metrics.TokensBlacklisted.WithLabelValues(string(reason)).Inc()
	return true
}

// IsTokenBlacklisted reports whether a JTI has been revoked. Fail closed: if
// the store cannot answer, the token is treated as revoked.
func (r *Registry) IsTokenBlacklisted(ctx context.Context, tokenID string) bool {
	revoked, err := r.store.ExistsStrict(ctx, tokenKey(tokenID))
	if err != nil {
		log.Printf("blacklist: revocation check for %s failed, denying: %v", tokenID, err)
		metrics.RevocationDenials.Inc()
		return true
	}
	if revoked {
		metrics.RevocationDenials.Inc()
	}
	return revoked
}

// BlacklistAllUserTokens re-revokes every JTI in the user's index with a
// fresh default expiry (the original per-token expiries are not retained in
// the index), then clears the index. Returns the number of records written.
func (r *Registry) BlacklistAllUserTokens(ctx context.Context, userID int64, reason Reason) int {
	var ids []string
	r.store.Get(ctx, userKey(userID), &ids)

	expiresAt := time.Now().Add(r.maxTokenLifetime)
	revoked := 0
	for _, id := range ids {
		if r.BlacklistToken(ctx, id, userID, expiresAt, reason) {
			revoked++
		}
	}
	r.store.Delete(ctx, userKey(userID))
	return revoked
}

// BlacklistedTokenCount returns the size of the user's revocation index, or
// zero on any error. The count may include JTIs whose records have already
// expired.
func (r *Registry) BlacklistedTokenCount(ctx context.Context, userID int64) int {
	var ids []string
	r.store.Get(ctx, userKey(userID), &ids)
	return len(ids)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
