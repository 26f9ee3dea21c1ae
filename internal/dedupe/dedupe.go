// Package dedupe detects repeated deliveries of the same SMS within a short window.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/PratikDhanave/sms-wecom-relay/internal/store"
)

// DefaultTTL is how long a fingerprint marks an SMS as already delivered.
const DefaultTTL = 600 * time.Second

const marker = "1"

// Fingerprint is the lowercase hex SHA-256 of "content-timestamp".
func Fingerprint(content, timestamp string) string {
	sum := sha256.Sum256([]byte(content + "-" + timestamp))
	return hex.EncodeToString(sum[:])
}

type Deduplicator struct {
	cache store.Cache
	ttl   time.Duration
}

func New(cache store.Cache, ttl time.Duration) *Deduplicator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Deduplicator{cache: cache, ttl: ttl}
}

// Seen reports whether fingerprint was already in the cache, then (re)writes it.
// The marker is written even for repeats, so each sighting extends the window.
func (d *Deduplicator) Seen(ctx context.Context, fingerprint string) (bool, error) {
	_, found, err := d.cache.Get(ctx, fingerprint)
	if err != nil {
		return false, fmt.Errorf("dedupe lookup: %w", err)
	}

	if err := d.cache.Put(ctx, fingerprint, marker, d.ttl); err != nil {
		return false, fmt.Errorf("dedupe mark: %w", err)
	}

	return found, nil
}
