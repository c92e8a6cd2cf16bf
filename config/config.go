package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Redis     RedisConfig
	Auth      AuthConfig
	Session   SessionConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

type RedisConfig struct {
	Address     string
	Password    string
	DB          int
	PoolSize    int
	PoolTimeout int // Seconds
	OpTimeout   int // Seconds, per-operation deadline
}

type AuthConfig struct {
	JWTSecret        string
	MaxTokenLifetime int // Seconds; TTL ceiling for the per-user revocation index
}

type SessionConfig struct {
	TTL int // Seconds
}

type CacheConfig struct {
	ProfileTTL     int // Seconds
	PermissionsTTL int // Seconds
}

type RateLimitConfig struct {
	MaxRequests int
	Window      int // Seconds
}

type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

var (
	instance *AppConfig
	once     sync.Once
)

func Initialize(env string) error {
	var initErr error
	once.Do(func() {
		viper.SetConfigName(fmt.Sprintf("config.%s", env))
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")

		viper.AutomaticEnv()
		viper.SetEnvPrefix("AUTHCACHE")

		setDefaults()
		bindEnvVars()

		if err := viper.ReadInConfig(); err != nil {
			initErr = fmt.Errorf("config file error: %w", err)
			return
		}

		if err := viper.Unmarshal(&instance); err != nil {
			initErr = fmt.Errorf("config unmarshal error: %w", err)
			return
		}

		if err := instance.Validate(); err != nil {
			initErr = fmt.Errorf("config validation failed: %w", err)
			return
		}
	})
	return initErr
}

func Get() *AppConfig {
	return instance
}

// Duration helpers so callers don't multiply seconds by time.Second everywhere.

func (c *RedisConfig) OperationTimeout() time.Duration {
	return time.Duration(c.OpTimeout) * time.Second
}

func (c *SessionConfig) Duration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

func (c *AuthConfig) MaxTokenDuration() time.Duration {
	return time.Duration(c.MaxTokenLifetime) * time.Second
}

func (c *CacheConfig) ProfileDuration() time.Duration {
	return time.Duration(c.ProfileTTL) * time.Second
}

func (c *CacheConfig) PermissionsDuration() time.Duration {
	return time.Duration(c.PermissionsTTL) * time.Second
}

func (c *RateLimitConfig) WindowDuration() time.Duration {
	return time.Duration(c.Window) * time.Second
}
