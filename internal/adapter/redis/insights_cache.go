package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/pscheid92/moodpulse/internal/adapter/metrics"
	"github.com/pscheid92/moodpulse/internal/domain"
)

const (
	summaryHashKey          = "insights:summary"
	summaryGenerationKey    = "insights:generation"
	insightsInvalidateTopic = "insights:invalidate"
)

// Summaries in the hash live under "<day>@<generation>". Invalidate bumps the
// generation, so a summary computed before an invalidation is never read after it.

// getSummaryScript returns {generation} or {generation, summary}.
// KEYS: [1]=hash, [2]=generation. ARGV: [1]=day
var getSummaryScript = goredis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
local v = redis.call('HGET', KEYS[1], ARGV[1] .. '@' .. gen)
if v then
	return {gen, v}
end
return {gen}
`)

// setSummaryScript writes only while the generation still matches. Returns 1 when written.
// KEYS: [1]=hash, [2]=generation. ARGV: [1]=day, [2]=generation read, [3]=summary, [4]=ttl_ms
var setSummaryScript = goredis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[2] then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1] .. '@' .. ARGV[2], ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// InsightsCache is a two-layer summary cache: a local TTL map in front of a Redis hash.
// Summaries are keyed by calendar day so a cached value never outlives its day.
// With a nil Redis client it runs memory-only.
type InsightsCache struct {
	rdb        goredis.Cmdable
	clock      clockwork.Clock
	ttl        time.Duration
	metrics    *metrics.CacheMetrics
	instanceID string
	group      singleflight.Group

	mu         sync.Mutex
	generation uint64
	entries    map[string]summaryEntry
}

type summaryEntry struct {
	summary   domain.Summary
	expiresAt time.Time
}

var _ domain.InsightsCache = (*InsightsCache)(nil)

func NewInsightsCache(rdb goredis.Cmdable, clock clockwork.Clock, ttl time.Duration, m *metrics.CacheMetrics) *InsightsCache {
	return &InsightsCache{
		rdb:        rdb,
		clock:      clock,
		ttl:        ttl,
		metrics:    m,
		instanceID: uuid.NewString(),
		entries:    make(map[string]summaryEntry),
	}
}

// InstanceID identifies this process on the invalidation channel.
func (c *InsightsCache) InstanceID() string {
	return c.instanceID
}

func (c *InsightsCache) GetSummary(ctx context.Context, dayKey string, compute func(ctx context.Context) (domain.Summary, error)) (domain.Summary, error) {
	// Layer 1: in-memory
	if summary, ok := c.getLocal(dayKey); ok {
		c.metrics.Hits.WithLabelValues("memory").Inc()
		return summary, nil
	}

	gen := c.currentGeneration()

	// Layer 2: Redis
	summary, remoteGen, ok := c.getRemote(ctx, dayKey)
	if ok {
		c.metrics.Hits.WithLabelValues("redis").Inc()
		c.setLocal(dayKey, summary, gen)
		return summary, nil
	}

	c.metrics.Misses.Inc()

	flightKey := dayKey + "#" + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(flightKey, func() (any, error) {
		c.metrics.Computations.Inc()
		summary, err := compute(ctx)
		if err != nil {
			return domain.Summary{}, err
		}
		if c.setLocal(dayKey, summary, gen) {
			c.setRemote(ctx, dayKey, remoteGen, summary)
		}
		return summary, nil
	})
	if err != nil {
		return domain.Summary{}, fmt.Errorf("failed to compute summary: %w", err)
	}
	return v.(domain.Summary), nil
}

// Invalidate drops every cached summary here and in Redis, then tells other instances to do the same.
func (c *InsightsCache) Invalidate(ctx context.Context) error {
	c.dropLocal()
	c.metrics.Invalidations.WithLabelValues("local").Inc()

	if c.rdb == nil {
		return nil
	}

	if err := c.rdb.Incr(ctx, summaryGenerationKey).Err(); err != nil {
		c.metrics.Errors.WithLabelValues("invalidate").Inc()
		return fmt.Errorf("failed to bump summary generation: %w", err)
	}
	// Older generations are unreachable already; the delete only reclaims memory.
	if err := c.rdb.Del(ctx, summaryHashKey).Err(); err != nil {
		c.metrics.Errors.WithLabelValues("invalidate").Inc()
		slog.WarnContext(ctx, "Failed to delete cached summaries", "error", err)
	}
	if err := c.rdb.Publish(ctx, insightsInvalidateTopic, c.instanceID).Err(); err != nil {
		c.metrics.Errors.WithLabelValues("publish").Inc()
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	return nil
}

// StartEvictionTimer periodically removes expired local entries.
// Returns a stop function that should be deferred.
func (c *InsightsCache) StartEvictionTimer(interval time.Duration) func() {
	ticker := c.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.Chan():
				if evicted := c.evictExpired(); evicted > 0 {
					slog.Debug("Evicted expired insights cache entries", "count", evicted)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}

// getRemote returns the summary for dayKey under the current Redis generation.
// The generation is "" when Redis is absent or failed, which disables the write-back.
func (c *InsightsCache) getRemote(ctx context.Context, dayKey string) (domain.Summary, string, bool) {
	if c.rdb == nil {
		return domain.Summary{}, "", false
	}

	reply, err := getSummaryScript.Run(ctx, c.rdb, []string{summaryHashKey, summaryGenerationKey}, dayKey).Slice()
	if err != nil || len(reply) == 0 {
		c.metrics.Errors.WithLabelValues("get").Inc()
		slog.WarnContext(ctx, "Redis summary cache lookup failed", "day", dayKey, "error", err)
		return domain.Summary{}, "", false
	}

	gen, _ := reply[0].(string)
	if len(reply) < 2 {
		return domain.Summary{}, gen, false
	}
	data, _ := reply[1].(string)

	var summary domain.Summary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		slog.WarnContext(ctx, "Failed to unmarshal cached summary", "day", dayKey, "error", err)
		return domain.Summary{}, gen, false
	}
	return summary, gen, true
}

// setRemote stores summary unless the Redis generation moved past gen.
func (c *InsightsCache) setRemote(ctx context.Context, dayKey, gen string, summary domain.Summary) {
	if c.rdb == nil || gen == "" {
		return
	}

	encoded, err := json.Marshal(summary)
	if err != nil {
		slog.WarnContext(ctx, "Failed to marshal summary for Redis cache", "day", dayKey, "error", err)
		return
	}

	written, err := setSummaryScript.Run(ctx, c.rdb, []string{summaryHashKey, summaryGenerationKey},
		dayKey, gen, string(encoded), c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		c.metrics.Errors.WithLabelValues("set").Inc()
		slog.WarnContext(ctx, "Failed to populate Redis summary cache", "day", dayKey, "error", err)
		return
	}
	if written == 0 {
		slog.DebugContext(ctx, "Skipped stale summary write", "day", dayKey, "generation", gen)
	}
}

func (c *InsightsCache) getLocal(dayKey string) (domain.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[dayKey]
	if !ok || c.clock.Now().After(entry.expiresAt) {
		return domain.Summary{}, false
	}
	return entry.summary, true
}

// setLocal stores summary unless an invalidation happened since gen was read.
func (c *InsightsCache) setLocal(dayKey string, summary domain.Summary, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return false
	}
	c.entries[dayKey] = summaryEntry{summary: summary, expiresAt: c.clock.Now().Add(c.ttl)}
	return true
}

func (c *InsightsCache) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *InsightsCache) dropLocal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	clear(c.entries)
}

func (c *InsightsCache) evictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	evicted := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

func (c *InsightsCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
