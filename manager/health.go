package manager

import (
	"context"
	"fmt"

	"github.com/abdelmounim-dev/authcache/metrics"
	"github.com/google/uuid"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Health reports the outcome of a store round-trip probe.
type Health struct {
	Status string `json:"status"`
	State  string `json:"state"`
	Error  string `json:"error,omitempty"`
}

// HealthCheck writes, reads back, and deletes a sentinel key. Unreachable
// store reads as unhealthy; reachable but returning the wrong value reads as
// degraded. If the manager is not ready, the lifecycle state is relayed as
// the status instead of probing.
func (m *Manager) HealthCheck(ctx context.Context) Health {
	m.mu.Lock()
	state := m.state
	client := m.client
	m.mu.Unlock()

	if state != StateReady {
		return Health{Status: state.String(), State: state.String()}
	}

	key := fmt.Sprintf("health:check:%s", m.instanceID)
	want := uuid.New().String()

	opCtx, cancel := context.WithTimeout(ctx, m.cfg.Redis.OperationTimeout())
	defer cancel()

	if err := client.Set(opCtx, key, want, m.cfg.Redis.OperationTimeout()).Err(); err != nil {
		metrics.HealthStatus.Set(0)
		return Health{Status: StatusUnhealthy, State: state.String(), Error: err.Error()}
	}

	got, err := client.Get(opCtx, key).Result()
	if err != nil {
		metrics.HealthStatus.Set(0)
		return Health{Status: StatusUnhealthy, State: state.String(), Error: err.Error()}
	}

	client.Del(opCtx, key)

	if got != want {
		metrics.HealthStatus.Set(1)
		return Health{
			Status: StatusDegraded,
			State:  state.String(),
			Error:  "sentinel round-trip returned a different value",
		}
	}

	metrics.HealthStatus.Set(2)
	return Health{Status: StatusHealthy, State: state.String()}
}
