package metrics

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Store Metrics
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authcache_store_errors_total",
		Help: "The total number of Redis operations that failed and were converted to safe returns.",
	}, []string{"op"})
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authcache_hits_total",
		Help: "The total number of cache hits, per cache.",
	}, []string{"cache"})
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authcache_misses_total",
		Help: "The total number of cache misses, per cache.",
	}, []string{"cache"})

	// Session Metrics
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authcache_sessions_created_total",
		Help: "The total number of sessions written to the store.",
	})
	SessionsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authcache_sessions_deleted_total",
		Help: "The total number of sessions removed from the store.",
	})

	// Rate Limit Metrics
	RateLimitAllowed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authcache_ratelimit_allowed_total",
		Help: "The total number of requests that passed the rate limiter.",
	})
	RateLimitBlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authcache_ratelimit_blocked_total",
		Help: "The total number of requests rejected by the rate limiter.",
	})

	// Revocation Metrics
	TokensBlacklisted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authcache_tokens_blacklisted_total",
		Help: "The total number of tokens written to the revocation registry.",
	}, []string{"reason"})
	RevocationDenials = promauto.NewCounter(prometheus.CounterOpts{
		Name: "authcache_revocation_denials_total",
		Help: "The total number of revocation checks that denied access, including fail-closed store errors.",
	})

	// Health Metrics
	HealthStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "authcache_health_status",
		Help: "Store health as reported by the last probe: 2 healthy, 1 degraded, 0 unhealthy.",
	})
)

// StartServer starts the HTTP server for Prometheus metrics.
func StartServer(port int, path string) {
	http.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting metrics server on %s%s", addr, path)

	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Fatalf("Failed to start metrics server: %v", err)
		}
	}()
}
