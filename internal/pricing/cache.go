package pricing

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "pricing"

// Cache is the two-tier store for computed pricing summaries: a
// per-process map in front of a shared Redis entry with TTL. A nil
// Redis client degrades to the in-memory tier alone.
type Cache struct {
	mu  sync.Mutex
	mem map[string]memEntry
	rdb *redis.Client
	ttl time.Duration
}

type memEntry struct {
	summary   Summary
	expiresAt time.Time
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		mem: make(map[string]memEntry),
		rdb: rdb,
		ttl: ttl,
	}
}

func (c *Cache) key(email string) string {
	return cachePrefix + ":" + email
}

func (c *Cache) Get(ctx context.Context, email string) (Summary, bool) {
	c.mu.Lock()
	entry, ok := c.mem[email]
	c.mu.Unlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.summary, true
	}

	if c.rdb == nil {
		return Summary{}, false
	}
	raw, err := c.rdb.Get(ctx, c.key(email)).Bytes()
	if err != nil {
		return Summary{}, false
	}
	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return Summary{}, false
	}

	// Backfill the process tier so the next hit skips the round trip.
	c.mu.Lock()
	c.mem[email] = memEntry{summary: summary, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return summary, true
}

func (c *Cache) Set(ctx context.Context, email string, summary Summary) {
	c.mu.Lock()
	c.mem[email] = memEntry{summary: summary, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	if c.rdb == nil {
		return
	}
	if raw, err := json.Marshal(summary); err == nil {
		_ = c.rdb.SetEx(ctx, c.key(email), raw, c.ttl).Err()
	}
}

// Invalidate drops both tiers for a traveler. Called after every
// choice write and registration submit, since both feed the total.
func (c *Cache) Invalidate(ctx context.Context, email string) {
	c.mu.Lock()
	delete(c.mem, email)
	c.mu.Unlock()

	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.key(email)).Err()
}
