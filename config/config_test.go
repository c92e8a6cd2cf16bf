package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *AppConfig {
	return &AppConfig{
		Redis: RedisConfig{
			Address:     "localhost:6379",
			PoolSize:    100,
			PoolTimeout: 5,
			OpTimeout:   5,
		},
		Auth: AuthConfig{
			JWTSecret:        "a-strong-secret",
			MaxTokenLifetime: 604800,
		},
		Session:   SessionConfig{TTL: 86400},
		Cache:     CacheConfig{ProfileTTL: 3600, PermissionsTTL: 1800},
		RateLimit: RateLimitConfig{MaxRequests: 100, Window: 60},
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr string
	}{
		{
			name:   "valid config passes",
			mutate: func(c *AppConfig) {},
		},
		{
			name:    "missing redis address",
			mutate:  func(c *AppConfig) { c.Redis.Address = "" },
			wantErr: "redis address",
		},
		{
			name:    "default jwt secret rejected",
			mutate:  func(c *AppConfig) { c.Auth.JWTSecret = "default-secret" },
			wantErr: "jwtSecret",
		},
		{
			name:    "zero session TTL",
			mutate:  func(c *AppConfig) { c.Session.TTL = 0 },
			wantErr: "session TTL",
		},
		{
			name:    "zero rate limit window",
			mutate:  func(c *AppConfig) { c.RateLimit.Window = 0 },
			wantErr: "window",
		},
		{
			name:    "zero op timeout",
			mutate:  func(c *AppConfig) { c.Redis.OpTimeout = 0 },
			wantErr: "opTimeout",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, 5*time.Second, cfg.Redis.OperationTimeout())
	assert.Equal(t, 24*time.Hour, cfg.Session.Duration())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.MaxTokenDuration())
	assert.Equal(t, time.Hour, cfg.Cache.ProfileDuration())
	assert.Equal(t, 30*time.Minute, cfg.Cache.PermissionsDuration())
	assert.Equal(t, time.Minute, cfg.RateLimit.WindowDuration())
}
