package cache

import (
	"context"
	"time"
)

// Cache is a JSON value store; Get reports found=false on a miss rather than an error.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	// identities resolved from bearer tokens, keyed by username
	IdentityKeyPrefix = "identity"
)
