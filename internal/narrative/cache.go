package narrative

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const cacheSetTimeout = 5 * time.Second

// Cacher defines the cache operations the generator wrapper needs.
type Cacher interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// CachedGenerator is a read-through cache in front of another Generator.
// Identical phase requests within the TTL reuse the cached narrative, and
// concurrent requests for the same key are collapsed with singleflight so the
// generation service is called at most once per key at a time.
type CachedGenerator struct {
	inner  Generator
	cache  Cacher
	ttl    time.Duration
	sf     singleflight.Group
	logger *zap.Logger
}

// NewCachedGenerator wraps gen with a read-through response cache.
func NewCachedGenerator(gen Generator, cache Cacher, ttl time.Duration, logger *zap.Logger) *CachedGenerator {
	if gen == nil {
		panic("nil Generator provided to NewCachedGenerator")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedGenerator{
		inner:  gen,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("narrative-cache"),
	}
}

// Generate implements Generator.
func (c *CachedGenerator) Generate(ctx context.Context, req Request) (string, error) {
	key := cacheKey(req)

	var cached string
	err := c.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		c.logger.Debug("cache hit", zap.String("key", key))
		return cached, nil
	case errors.Is(err, redis.Nil):
		c.logger.Debug("cache miss", zap.String("key", key))
	default:
		c.logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		text, err := c.inner.Generate(ctx, req)
		if err != nil {
			return nil, err
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), cacheSetTimeout)
			defer cancel()
			if err := c.cache.Set(setCtx, key, text, c.ttl); err != nil {
				c.logger.Warn("failed to cache narrative", zap.String("key", key), zap.Error(err))
			}
		}()

		return text, nil
	})
	if err != nil {
		return "", err
	}

	text, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("unexpected cached type for key %q", key)
	}
	return text, nil
}

// cacheKey hashes the full request so any change in phase content, label, or
// attribution produces a distinct key.
func cacheKey(req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s", req.CustomerNumber, req.Product, req.PhaseLabel, req.TicketText)
	return "narrative:" + hex.EncodeToString(h.Sum(nil))[:32]
}
