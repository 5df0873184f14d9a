package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyLog caches the result of a completed mutating operation so a
// client retry replays the stored response instead of moving money twice.
type IdempotencyLog struct {
	Key          string    `json:"key"`
	Operation    string    `json:"operation"` // "transfer" or "settlement"
	ResponseJSON []byte    `json:"response_json"`
	CreatedAt    time.Time `json:"created_at"`
}

// BuildIdempotencyKey scopes a caller-supplied token to a centre and
// operation, so the same token cannot collide across tenants or operations.
func BuildIdempotencyKey(centreID uuid.UUID, operation, token string) string {
	return centreID.String() + ":" + operation + ":" + token
}
