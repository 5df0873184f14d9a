package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const probeTimeout = 2 * time.Second

// HealthCheck reports Redis reachability for the /health endpoint. Redis
// only backs the idempotency cache, so a failing probe degrades the service
// rather than taking it down.
type HealthCheck struct {
	client *goredis.Client
}

// NewHealthCheck creates a Redis health checker.
func NewHealthCheck(client *goredis.Client) *HealthCheck {
	return &HealthCheck{client: client}
}

// Ping sends a PING with a short deadline.
func (h *HealthCheck) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return h.client.Ping(ctx).Err()
}

// Name returns the dependency name reported in the health payload.
func (h *HealthCheck) Name() string {
	return "redis"
}
