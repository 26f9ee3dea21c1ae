// Package archive writes an expiring audit record for each relayed SMS.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/PratikDhanave/sms-wecom-relay/internal/models"
	"github.com/PratikDhanave/sms-wecom-relay/internal/store"
)

// DefaultTTL keeps log records for 30 days.
const DefaultTTL = 2592000 * time.Second

// DisplayLayout renders times as e.g. "2026/3/1 18:04:05".
const DisplayLayout = "2006/1/2 15:04:05"

type Archiver struct {
	cache store.Cache
	ttl   time.Duration
	loc   *time.Location
	Now   func() time.Time
}

func New(cache store.Cache, ttl time.Duration, loc *time.Location) *Archiver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Archiver{cache: cache, ttl: ttl, loc: loc, Now: time.Now}
}

// Key returns the cache key for a record archived at t.
func Key(t time.Time) string {
	return "log:" + strconv.FormatInt(t.UnixMilli(), 10)
}

// Write stores the event under log:<arrival ms> and returns the key used.
func (a *Archiver) Write(ctx context.Context, ev models.IncomingEvent) (string, error) {
	now := a.Now()

	rec := models.LogRecord{
		Device:       ev.Device,
		Content:      ev.Content,
		Code:         ev.Code,
		RawTimestamp: ev.Timestamp,
		SaveTime:     now.In(a.loc).Format(DisplayLayout),
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("archive encode: %w", err)
	}

	key := Key(now)
	if err := a.cache.Put(ctx, key, string(b), a.ttl); err != nil {
		return key, fmt.Errorf("archive write: %w", err)
	}
	return key, nil
}
