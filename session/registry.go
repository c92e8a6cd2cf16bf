// Package session keeps per-user session records in Redis: one entry per
// session plus a per-user index listing that user's session IDs. The entry
// and the index are written separately and are not transactional; a crash or
// a concurrent user-wide sweep between the two writes can leave a session
// that is reachable by ID but missing from the index. Such sessions still
// work, they are just not enumerable until their TTL clears them. This is a
// deliberate trade-off to avoid distributed locking.
package session

import (
	"context"
	"log"
	"time"

	"github.com/abdelmounim-dev/authcache/metrics"
	"github.com/abdelmounim-dev/authcache/store"
)

// Registry manages session entries and the per-user session index.
type Registry struct {
	store      *store.KeyValueStore
	defaultTTL time.Duration
}

func NewRegistry(kv *store.KeyValueStore, defaultTTL time.Duration) *Registry {
	return &Registry{
		store:      kv,
		defaultTTL: defaultTTL,
	}
}

// Create writes the session entry, then appends its ID to the owner's index.
// The index TTL is refreshed to match this (newest) session's TTL. A ttl of
// zero uses the registry default.
func (r *Registry) Create(ctx context.Context, sessionID string, userID int64, data map[string]string, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}

	sess := Session{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		Data:      data,
	}
	if !r.store.Set(ctx, sessionKey(sessionID), sess, ttl) {
		return false
	}

	// Index miss reads as an empty list: first session for this user.
	var ids []string
	r.store.Get(ctx, indexKey(userID), &ids)
	if !contains(ids, sessionID) {
		ids = append(ids, sessionID)
	}
	if !r.store.Set(ctx, indexKey(userID), ids, ttl) {
		log.Printf("session: created %s but failed to update index for user %d", sessionID, userID)
		return false
	}

	metrics.SessionsCreated.Inc()
	return true
}

// Get retrieves a session by ID. Returns false on miss or store error.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Session, bool) {
	var sess Session
	if !r.store.Get(ctx, sessionKey(sessionID), &sess) {
		metrics.CacheMisses.WithLabelValues("session").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("session").Inc()
	return &sess, true
}

// Delete removes a session and its index entry. The session must be read
// first to learn its owner; if the entry is already gone the index cannot be
// cleaned and is left as-is to age out on its own TTL.
func (r *Registry) Delete(ctx context.Context, sessionID string) bool {
	sess, ok := r.Get(ctx, sessionID)
	if !ok {
		return false
	}

	var ids []string
	key := indexKey(sess.UserID)
	if r.store.Get(ctx, key, &ids) {
		remaining := remove(ids, sessionID)
		if len(remaining) == 0 {
			r.store.Delete(ctx, key)
		} else {
			r.store.Set(ctx, key, remaining, r.defaultTTL)
		}
	}

	if !r.store.Delete(ctx, sessionKey(sessionID)) {
		return false
	}
	metrics.SessionsDeleted.Inc()
	return true
}

// DeleteAllForUser removes every session listed in the user's index, then
// the index itself. Returns the number of session entries removed.
func (r *Registry) DeleteAllForUser(ctx context.Context, userID int64) int {
	var ids []string
	r.store.Get(ctx, indexKey(userID), &ids)

	deleted := 0
	for _, id := range ids {
		if r.store.Delete(ctx, sessionKey(id)) {
			metrics.SessionsDeleted.Inc()
			deleted++
		}
	}
	r.store.Delete(ctx, indexKey(userID))
	return deleted
}

// RefreshTTL extends a session's lifetime, and its owner's index with it.
func (r *Registry) RefreshTTL(ctx context.Context, sessionID string, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}

	sess, ok := r.Get(ctx, sessionID)
	if !ok {
		return false
	}
	if !r.store.Expire(ctx, sessionKey(sessionID), ttl) {
		return false
	}
	r.store.Expire(ctx, indexKey(sess.UserID), ttl)
	return true
}

// UserSessionIDs returns the IDs currently listed in the user's index. The
// list may reference sessions that have already expired; callers tolerate
// misses on direct lookup.
func (r *Registry) UserSessionIDs(ctx context.Context, userID int64) []string {
	var ids []string
	r.store.Get(ctx, indexKey(userID), &ids)
	return ids
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
