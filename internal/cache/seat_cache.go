// Package cache provides a small Redis-backed cache for the public
// seat-availability endpoint, which is the hot read path during an
// on-sale.  Entries are short-lived and the cache degrades to a no-op
// when Redis is unavailable, matching the rest of the service's
// optional-Redis convention.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeatCache stores rendered seat-map JSON keyed by event ID.  A nil
// *SeatCache or a SeatCache with a nil client is valid and caches
// nothing.
type SeatCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSeatCache wraps the given client.  rdb may be nil.
func NewSeatCache(rdb *redis.Client, ttl time.Duration) *SeatCache {
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &SeatCache{rdb: rdb, ttl: ttl}
}

func (c *SeatCache) key(eventID string) string { return "seats:" + eventID }

// Get returns the cached payload for an event, or false on miss or
// when caching is disabled.
func (c *SeatCache) Get(ctx context.Context, eventID string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	bs, err := c.rdb.Get(ctx, c.key(eventID)).Bytes()
	if err != nil || len(bs) == 0 {
		return nil, false
	}
	return bs, true
}

// Set stores the payload with the configured TTL.  Failures are
// ignored; a cold cache only costs an extra directory read.
func (c *SeatCache) Set(ctx context.Context, eventID string, payload []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.SetEx(ctx, c.key(eventID), payload, c.ttl).Err()
}

// Invalidate drops the entry for an event.  Called after bookings and
// cancellations so stale availability is bounded by write traffic, not
// just the TTL.
func (c *SeatCache) Invalidate(ctx context.Context, eventID string) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.key(eventID)).Err()
}
