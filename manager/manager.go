// Package manager owns the lifecycle of the caching subsystem: one Redis
// connection, the four services wrapping it, and a health probe. The
// application constructs a Manager at startup, calls Initialize once, hands
// references to whatever consumes the services, and calls Close on shutdown.
package manager

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/abdelmounim-dev/authcache/blacklist"
	"github.com/abdelmounim-dev/authcache/config"
	"github.com/abdelmounim-dev/authcache/ratelimit"
	"github.com/abdelmounim-dev/authcache/services"
	"github.com/abdelmounim-dev/authcache/session"
	"github.com/abdelmounim-dev/authcache/store"
	"github.com/abdelmounim-dev/authcache/usercache"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	connectMaxRetries     = 5
	connectInitialBackoff = 100 * time.Millisecond
	connectMaxBackoff     = 5 * time.Second
)

// State tracks the manager's lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Manager connects to Redis once and constructs the services around it.
type Manager struct {
	mu         sync.Mutex
	state      State
	cfg        *config.AppConfig
	client     *redis.Client
	kv         *store.KeyValueStore
	sessions   *session.Registry
	limiter    *ratelimit.Limiter
	revocation *blacklist.Registry
	users      *usercache.Cache
	instanceID string
}

func New(cfg *config.AppConfig) *Manager {
	return &Manager{
		cfg:        cfg,
		instanceID: uuid.New().String(),
	}
}

// Initialize connects to Redis (retrying with exponential backoff) and
// builds the service instances. Calling it on a ready manager is a no-op.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateReady {
		return nil
	}
	m.state = StateInitializing

	var client *redis.Client
	operation := func() error {
		var err error
		client, err = services.NewRedisClient(&m.cfg.Redis)
		return err
	}

	backoffStrategy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(
				backoff.WithInitialInterval(connectInitialBackoff),
				backoff.WithMaxInterval(connectMaxBackoff),
			),
			connectMaxRetries,
		),
		ctx,
	)

	err := backoff.RetryNotify(operation, backoffStrategy, func(err error, d time.Duration) {
		log.Printf("Retrying Redis connection: %v (next attempt in %s)", err, d)
	})
	if err != nil {
		m.state = StateUninitialized
		return fmt.Errorf("manager: failed to connect to Redis: %w", err)
	}

	m.client = client
	m.kv = store.New(client, m.cfg.Redis.OperationTimeout())
	m.sessions = session.NewRegistry(m.kv, m.cfg.Session.Duration())
	m.limiter = ratelimit.NewLimiter(m.kv)
	m.revocation = blacklist.NewRegistry(m.kv, m.cfg.Auth.MaxTokenDuration())
	m.users = usercache.New(m.kv, m.cfg.Cache.ProfileDuration(), m.cfg.Cache.PermissionsDuration())

	m.state = StateReady
	log.Printf("Cache manager %s initialized (redis %s)", m.instanceID, m.cfg.Redis.Address)
	return nil
}

// Close disconnects from Redis. A closed manager can be re-initialized.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady {
		return nil
	}

	err := services.CloseRedisClient(m.client)
	m.client = nil
	m.kv = nil
	m.sessions = nil
	m.limiter = nil
	m.revocation = nil
	m.users = nil
	m.state = StateClosed

	if err != nil {
		return fmt.Errorf("manager: failed to close Redis client: %w", err)
	}
	return nil
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// requireReady panics if the manager has not been initialized. Accessing a
// service before Initialize is a startup-ordering bug in the caller, not a
// runtime condition to recover from.
func (m *Manager) requireReady(service string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateReady {
		panic(fmt.Sprintf("manager: %s accessed while %s; call Initialize first", service, m.state))
	}
}

// Store returns the shared key-value store.
func (m *Manager) Store() *store.KeyValueStore {
	m.requireReady("Store")
	return m.kv
}

// Sessions returns the session registry.
func (m *Manager) Sessions() *session.Registry {
	m.requireReady("Sessions")
	return m.sessions
}

// RateLimiter returns the request rate limiter.
func (m *Manager) RateLimiter() *ratelimit.Limiter {
	m.requireReady("RateLimiter")
	return m.limiter
}

// Revocation returns the token revocation registry.
func (m *Manager) Revocation() *blacklist.Registry {
	m.requireReady("Revocation")
	return m.revocation
}

// Users returns the user profile/permission cache.
func (m *Manager) Users() *usercache.Cache {
	m.requireReady("Users")
	return m.users
}
