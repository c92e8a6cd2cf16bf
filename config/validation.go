package config

import (
	"errors"

	"github.com/spf13/viper"
)

func (c *AppConfig) Validate() error {
	if c.Redis.Address == "" {
		return errors.New("redis address must be specified")
	}

	if c.Redis.OpTimeout < 1 {
		return errors.New("redis opTimeout must be at least 1 second")
	}

	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "default-secret" {
		return errors.New("auth.jwtSecret must be set to a strong secret")
	}

	if c.Auth.MaxTokenLifetime < 1 {
		return errors.New("auth.maxTokenLifetime must be positive")
	}

	if c.Session.TTL < 1 {
		return errors.New("session TTL must be positive")
	}

	if c.Cache.ProfileTTL < 1 || c.Cache.PermissionsTTL < 1 {
		return errors.New("cache TTLs must be positive")
	}

	if c.RateLimit.MaxRequests < 1 {
		return errors.New("ratelimit maxRequests must be positive")
	}

	if c.RateLimit.Window < 1 {
		return errors.New("ratelimit window must be at least 1 second")
	}

	return nil
}

func bindEnvVars() {
	// Redis
	viper.BindEnv("redis.address", "AUTHCACHE_REDIS_ADDRESS")
	viper.BindEnv("redis.password", "AUTHCACHE_REDIS_PASSWORD")
	viper.BindEnv("redis.db", "AUTHCACHE_REDIS_DB")
	viper.BindEnv("redis.poolSize", "AUTHCACHE_REDIS_POOL_SIZE")
	viper.BindEnv("redis.opTimeout", "AUTHCACHE_REDIS_OP_TIMEOUT")

	// Auth
	viper.BindEnv("auth.jwtSecret", "AUTHCACHE_AUTH_JWT_SECRET")
	viper.BindEnv("auth.maxTokenLifetime", "AUTHCACHE_AUTH_MAX_TOKEN_LIFETIME")

	// Sessions
	viper.BindEnv("session.ttl", "AUTHCACHE_SESSION_TTL")

	// User cache
	viper.BindEnv("cache.profileTTL", "AUTHCACHE_CACHE_PROFILE_TTL")
	viper.BindEnv("cache.permissionsTTL", "AUTHCACHE_CACHE_PERMISSIONS_TTL")

	// Rate limiting
	viper.BindEnv("ratelimit.maxRequests", "AUTHCACHE_RATELIMIT_MAX_REQUESTS")
	viper.BindEnv("ratelimit.window", "AUTHCACHE_RATELIMIT_WINDOW")

	// Metrics
	viper.BindEnv("metrics.enabled", "AUTHCACHE_METRICS_ENABLED")
	viper.BindEnv("metrics.port", "AUTHCACHE_METRICS_PORT")
	viper.BindEnv("metrics.path", "AUTHCACHE_METRICS_PATH")
}
