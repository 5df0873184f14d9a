package postgres

import (
	"context"
	"time"
)

const probeTimeout = 2 * time.Second

// HealthCheck reports PostgreSQL reachability for the /health endpoint.
type HealthCheck struct {
	pool Pool
}

// NewHealthCheck creates a PostgreSQL health checker.
func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

// Ping runs a trivial query with a short deadline so a wedged pool cannot
// stall the health endpoint.
func (h *HealthCheck) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	_, err := h.pool.Exec(ctx, "SELECT 1")
	return err
}

// Name returns the dependency name reported in the health payload.
func (h *HealthCheck) Name() string {
	return "postgres"
}
