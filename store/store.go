// Package store wraps the Redis client behind a fail-open key-value
// interface. Transient store errors never reach callers as errors: reads
// degrade to misses, writes and deletes report false, increments report
// not-ok. The store is an accelerator, not a system of record, and its
// failure must not break a request. The one caller that cannot accept that
// policy (token revocation) uses ExistsStrict, which surfaces the error.
package store

import (
	"context"
	"log"
	"time"

	"github.com/abdelmounim-dev/authcache/metrics"
	"github.com/go-redis/redis/v8"
)

// KeyValueStore is a thin wrapper over a shared Redis client. It holds no
// state of its own; every operation is remote I/O bounded by opTimeout.
type KeyValueStore struct {
	client    *redis.Client
	codec     Codec
	opTimeout time.Duration
}

func New(client *redis.Client, opTimeout time.Duration) *KeyValueStore {
	return &KeyValueStore{
		client:    client,
		opTimeout: opTimeout,
	}
}

func (s *KeyValueStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// Get reads the value at key into dst. Returns false on a miss or any store
// error; the two are indistinguishable to the caller.
func (s *KeyValueStore) Get(ctx context.Context, key string, dst interface{}) bool {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("store: GET %s failed: %v", key, err)
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return false
	}

	if err := s.codec.Decode(data, dst); err != nil {
		log.Printf("store: decode of %s failed: %v", key, err)
		metrics.StoreErrors.WithLabelValues("decode").Inc()
		return false
	}
	return true
}

// Set writes value at key with an optional TTL (ttl <= 0 means no expiry).
// Returns false on encoding or store error so callers can apply their own
// fail-open/fail-closed policy.
func (s *KeyValueStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) bool {
	data, err := s.codec.Encode(value)
	if err != nil {
		log.Printf("store: encode for %s failed: %v", key, err)
		metrics.StoreErrors.WithLabelValues("encode").Inc()
		return false
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("store: SET %s failed: %v", key, err)
		metrics.StoreErrors.WithLabelValues("set").Inc()
		return false
	}
	return true
}

// Delete removes key. Returns true only if a key was actually removed.
func (s *KeyValueStore) Delete(ctx context.Context, key string) bool {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	removed, err := s.client.Del(ctx, key).Result()
	if err != nil {
		log.Printf("store: DEL %s failed: %v", key, err)
		metrics.StoreErrors.WithLabelValues("delete").Inc()
		return false
	}
	return removed > 0
}

// Exists reports whether key is present. Store errors read as absent.
func (s *KeyValueStore) Exists(ctx context.Context, key string) bool {
	present, err := s.ExistsStrict(ctx, key)
	if err != nil {
		return false
	}
	return present
}

// ExistsStrict is Exists with the store error exposed, for callers that must
// fail closed when the store cannot answer.
func (s *KeyValueStore) ExistsStrict(ctx context.Context, key string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("store: EXISTS %s failed: %v", key, err)
		metrics.StoreErrors.WithLabelValues("exists").Inc()
		return false, err
	}
	return n == 1, nil
}

// Increment atomically adds amount to the integer at key, creating it at
// zero if absent. The second return is false on store error.
func (s *KeyValueStore) Increment(ctx context.Context, key string, amount int64) (int64, bool) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	count, err := s.client.IncrBy(ctx, key, amount).Result()
	if err != nil {
		log.Printf("store: INCRBY %s failed: %v", key, err)
		metrics.StoreErrors.WithLabelValues("increment").Inc()
		return 0, false
	}
	return count, true
}

// Expire sets the TTL on an existing key. Returns false if the key does not
// exist or the store errored.
func (s *KeyValueStore) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	set, err := s.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		log.Printf("store: EXPIRE %s failed: %v", key, err)
		metrics.StoreErrors.WithLabelValues("expire").Inc()
		return false
	}
	return set
}
