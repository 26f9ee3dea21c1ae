package store

import (
	"context"
	"time"
)

// Cache is the key-value capability the relay needs: read a key, write a key
// with an expiry. Backends own expiry; callers never delete.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
}

// Pinger is implemented by backends that can report reachability for /ready.
type Pinger interface {
	Ping(ctx context.Context) error
}
