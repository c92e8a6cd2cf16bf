package config

import "github.com/spf13/viper"

func setDefaults() {
	// Redis
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.poolSize", 100)
	viper.SetDefault("redis.poolTimeout", 5)
	viper.SetDefault("redis.opTimeout", 5)

	// Auth
	viper.SetDefault("auth.jwtSecret", "default-secret")
	viper.SetDefault("auth.maxTokenLifetime", 604800) // 7 days, refresh token ceiling

	// Sessions
	viper.SetDefault("session.ttl", 86400) // 24 hours

	// User cache
	viper.SetDefault("cache.profileTTL", 3600)     // 1 hour
	viper.SetDefault("cache.permissionsTTL", 1800) // 30 minutes

	// Rate limiting
	viper.SetDefault("ratelimit.maxRequests", 100)
	viper.SetDefault("ratelimit.window", 60)

	// Metrics
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.port", 9090)
	viper.SetDefault("metrics.path", "/metrics")
}
