// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"market_backend/internal/feature/candles/domain/entity"
	"market_backend/internal/feature/candles/usecase"
)

// CachingCandleRepository decorates a CandleRepository with Redis caching.
// Only FindLatest is cached. Sync-path reads (Exists, MaxOpenTime) always go to the store
// so the cursor is never served stale.
type CachingCandleRepository struct {
	inner     usecase.CandleRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

var _ usecase.CandleRepository = (*CachingCandleRepository)(nil)

// NewCachingCandleRepository decorates a CandleRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "candles".
func NewCachingCandleRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CandleRepository, namespace string) *CachingCandleRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "candles"
	}
	return &CachingCandleRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// Create inserts one candle and invalidates cached pages of its series.
func (c *CachingCandleRepository) Create(ctx context.Context, candle entity.Candle) (bool, error) {
	n, err := c.CreateBatch(ctx, []entity.Candle{candle})
	return n > 0, err
}

// CreateBatch inserts candles and invalidates cached pages of every touched series.
func (c *CachingCandleRepository) CreateBatch(ctx context.Context, candles []entity.Candle) (int64, error) {
	added, err := c.inner.CreateBatch(ctx, candles)
	if err != nil {
		return 0, err
	}
	if c.rdb == nil || added == 0 {
		return added, nil
	}

	seen := map[string]struct{}{}
	for _, cd := range candles {
		prefix := c.cacheKeyPrefix(cd.SymbolID, cd.Interval)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		_ = c.deleteByPattern(ctx, prefix+"*") // best effort
	}
	return added, nil
}

func (c *CachingCandleRepository) Exists(ctx context.Context, symbolID uint, interval string, openTime int64) (bool, error) {
	return c.inner.Exists(ctx, symbolID, interval, openTime)
}

func (c *CachingCandleRepository) MaxOpenTime(ctx context.Context, symbolID uint, interval string) (int64, bool, error) {
	return c.inner.MaxOpenTime(ctx, symbolID, interval)
}

func (c *CachingCandleRepository) FindRange(ctx context.Context, symbolID uint, interval string, start, end int64, limit int) ([]entity.Candle, error) {
	return c.inner.FindRange(ctx, symbolID, interval, start, end, limit)
}

// FindLatest retrieves candles, checking cache first then falling back to the database.
func (c *CachingCandleRepository) FindLatest(ctx context.Context, symbolID uint, interval string, limit int) ([]entity.Candle, error) {
	if c.rdb == nil {
		return c.inner.FindLatest(ctx, symbolID, interval, limit)
	}

	key := c.cacheKey(symbolID, interval, limit)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Candle
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FindLatest(ctx, symbolID, interval, limit)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.entryTTL(interval)).Err()
	}

	return out, nil
}

// entryTTL caps the configured TTL at the time left until the next bar opens.
func (c *CachingCandleRepository) entryTTL(interval string) time.Duration {
	iv := entity.Interval(interval)
	if !iv.Valid() {
		return c.ttl
	}
	if d := TimeUntilNextBar(iv, c.now()); d > 0 && d < c.ttl {
		return d
	}
	return c.ttl
}

func (c *CachingCandleRepository) cacheKey(symbolID uint, interval string, limit int) string {
	return fmt.Sprintf("%s:%d:%s:%d",
		c.namespace,
		symbolID,
		safe(interval),
		limit,
	)
}

func (c *CachingCandleRepository) cacheKeyPrefix(symbolID uint, interval string) string {
	return fmt.Sprintf("%s:%d:%s:",
		c.namespace,
		symbolID,
		safe(interval),
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingCandleRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
