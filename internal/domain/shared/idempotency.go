package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys for a while so a resubmitted
// write is recognised.
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl. It returns false when the key is
	// already claimed and has not expired.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Forget releases a claimed key so the request can be retried.
	Forget(ctx context.Context, key string) error

	// Close releases resources held by the store
	Close() error
}
