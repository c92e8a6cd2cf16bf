// Package usercache holds short-lived derived user data: the profile and the
// permission set. It never fetches from the system of record; on a miss the
// caller loads from the database and repopulates. Canonical data changes
// must call Invalidate.
package usercache

import (
	"context"
	"fmt"
	"time"

	"github.com/abdelmounim-dev/authcache/metrics"
	"github.com/abdelmounim-dev/authcache/store"
)

func profileKey(userID int64) string {
	return fmt.Sprintf("user:profile:%d", userID)
}

func permissionsKey(userID int64) string {
	return fmt.Sprintf("user:permissions:%d", userID)
}

// Cache stores user profiles and permission sets with independent TTLs.
type Cache struct {
	store          *store.KeyValueStore
	profileTTL     time.Duration
	permissionsTTL time.Duration
}

func New(kv *store.KeyValueStore, profileTTL, permissionsTTL time.Duration) *Cache {
	return &Cache{
		store:          kv,
		profileTTL:     profileTTL,
		permissionsTTL: permissionsTTL,
	}
}

// SetProfile caches a user's profile payload. A ttl of zero uses the
// configured default.
func (c *Cache) SetProfile(ctx context.Context, userID int64, profile map[string]interface{}, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = c.profileTTL
	}
	return c.store.Set(ctx, profileKey(userID), profile, ttl)
}

// Profile returns the cached profile, or false on miss.
func (c *Cache) Profile(ctx context.Context, userID int64) (map[string]interface{}, bool) {
	var profile map[string]interface{}
	if !c.store.Get(ctx, profileKey(userID), &profile) {
		metrics.CacheMisses.WithLabelValues("profile").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("profile").Inc()
	return profile, true
}

// SetPermissions caches a user's permission set.
func (c *Cache) SetPermissions(ctx context.Context, userID int64, permissions []string, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = c.permissionsTTL
	}
	return c.store.Set(ctx, permissionsKey(userID), permissions, ttl)
}

// Permissions returns the cached permission set, or false on miss.
func (c *Cache) Permissions(ctx context.Context, userID int64) ([]string, bool) {
	var permissions []string
	if !c.store.Get(ctx, permissionsKey(userID), &permissions) {
		metrics.CacheMisses.WithLabelValues("permissions").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("permissions").Inc()
	return permissions, true
}

// Invalidate drops both the profile and permission entries for a user,
// whether or not they are present.
func (c *Cache) Invalidate(ctx context.Context, userID int64) {
	c.store.Delete(ctx, profileKey(userID))
	c.store.Delete(ctx, permissionsKey(userID))
}
