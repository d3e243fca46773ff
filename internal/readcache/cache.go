// Package readcache is a tag-scoped cache in front of list and detail reads.
//
// Every entry is stored under its key plus the current version of each of its
// tags. Invalidating a tag bumps its version, so an entry computed before the
// bump lands under a key no later read asks for. Backend failures are logged
// and never reach the caller.
package readcache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Backend stores versioned entries and tag versions.
type Backend interface {
	// Versions returns the current version of each tag, in order.
	Versions(ctx context.Context, tags []string) ([]int64, error)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key and indexes key under tags. Zero ttl never expires.
	Set(ctx context.Context, key string, tags []string, value []byte, ttl time.Duration) error
	// Bump advances the version of each tag and drops entries indexed under it.
	Bump(ctx context.Context, tags ...string) error
}

// Policy is an expiry policy.
type Policy struct {
	ttl time.Duration
}

// Forever keeps entries until one of their tags is invalidated.
var Forever = Policy{}

// For expires entries after d.
func For(d time.Duration) Policy {
	return Policy{ttl: d}
}

func (p Policy) TTL() time.Duration { return p.ttl }

// Cache fronts reads with a Backend.
type Cache struct {
	backend Backend
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Cache)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

func New(backend Backend, opts ...Option) *Cache {
	c := &Cache{backend: backend, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompute returns the cached value for key, or runs compute and stores
// its result. Errors from compute are returned; cache errors are not.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, tags []string, policy Policy, compute func(ctx context.Context) (T, error)) (T, error) {
	if c == nil || c.backend == nil {
		return compute(ctx)
	}

	versions, err := c.backend.Versions(ctx, tags)
	if err != nil {
		c.fail(ctx, "versions", key, err)
		return compute(ctx)
	}
	vkey := versionedKey(key, tags, versions)

	raw, ok, err := c.backend.Get(ctx, vkey)
	if err != nil {
		c.fail(ctx, "get", key, err)
	}
	if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			c.metrics.hit(key)
			return cached, nil
		}
		c.fail(ctx, "decode", key, err)
	}
	c.metrics.miss(key)

	value, err := compute(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		c.fail(ctx, "encode", key, err)
		return value, nil
	}
	if err := c.backend.Set(ctx, vkey, tags, encoded, policy.ttl); err != nil {
		c.fail(ctx, "set", key, err)
	}
	return value, nil
}

// Invalidate makes every entry carrying one of tags unreachable.
func (c *Cache) Invalidate(ctx context.Context, tags ...string) {
	if c == nil || c.backend == nil || len(tags) == 0 {
		return
	}
	if err := c.backend.Bump(ctx, tags...); err != nil {
		c.fail(ctx, "invalidate", strings.Join(tags, ","), err)
		return
	}
	c.metrics.invalidated(tags)
}

func (c *Cache) fail(ctx context.Context, op, key string, err error) {
	c.metrics.failed(op)
	c.logger.WarnContext(ctx, "read cache error",
		"op", op,
		"key", key,
		"error", err,
	)
}

// versionedKey renders "key@tag1:v1,tag2:v2".
func versionedKey(key string, tags []string, versions []int64) string {
	var b strings.Builder
	b.WriteString(key)
	b.WriteByte('@')
	for i, tag := range tags {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(tag)
		b.WriteByte(':')
		var v int64
		if i < len(versions) {
			v = versions[i]
		}
		b.WriteString(strconv.FormatInt(v, 10))
	}
	return b.String()
}

// Key joins parts into a cache key.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
