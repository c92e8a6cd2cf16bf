package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/abdelmounim-dev/authcache/config"
	"github.com/abdelmounim-dev/authcache/manager"
	"github.com/abdelmounim-dev/authcache/metrics"
)

func main() {
	// Initialize context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize config
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	if err := config.Initialize(env); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	cfg := config.Get()

	// Connect to Redis and build the cache services
	cacheManager := manager.New(cfg)
	if err := cacheManager.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize cache manager: %v", err)
	}
	defer cacheManager.Close()

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// Health endpoint backed by the store round-trip probe
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		health := cacheManager.HealthCheck(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if health.Status != manager.StatusHealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	healthAddr := ":" + strconv.Itoa(cfg.Metrics.Port+1)
	healthSrv := &http.Server{Addr: healthAddr}
	go func() {
		log.Printf("Health endpoint listening on %s/healthz", healthAddr)
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start health server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutdown signal received")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Health server shutdown error: %v", err)
	}
	if err := cacheManager.Close(); err != nil {
		log.Printf("Cache manager close error: %v", err)
	}
}
