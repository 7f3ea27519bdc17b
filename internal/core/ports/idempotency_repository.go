package ports

import (
	"context"
	"time"
)

// IdempotencyRecord remembers the outcome of a keyed request.
type IdempotencyRecord struct {
	Key        string
	Operation  string
	RequestRef string
	ResultRef  string
	CreatedAt  time.Time
}

type IdempotencyRepository interface {
	// Get returns ObjectNotFoundError for an unknown key.
	Get(ctx context.Context, key, operation string) (*IdempotencyRecord, error)

	// Save stores a new record. Returns ConflictError when the key was stored
	// concurrently.
	Save(ctx context.Context, record IdempotencyRecord) error
}
