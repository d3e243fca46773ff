package readcache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type failingBackend struct {
	Backend
	failGet, failSet, failVersions, failBump bool
}

var errBackend = errors.New("backend down")

func (f *failingBackend) Versions(ctx context.Context, tags []string) ([]int64, error) {
	if f.failVersions {
		return nil, errBackend
	}
	return f.Backend.Versions(ctx, tags)
}

func (f *failingBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGet {
		return nil, false, errBackend
	}
	return f.Backend.Get(ctx, key)
}

func (f *failingBackend) Set(ctx context.Context, key string, tags []string, value []byte, ttl time.Duration) error {
	if f.failSet {
		return errBackend
	}
	return f.Backend.Set(ctx, key, tags, value, ttl)
}

func (f *failingBackend) Bump(ctx context.Context, tags ...string) error {
	if f.failBump {
		return errBackend
	}
	return f.Backend.Bump(ctx, tags...)
}

type CacheSuite struct {
	suite.Suite
	memory  *Memory
	backend *failingBackend
	metrics *Metrics
	cache   *Cache
	calls   int
	now     time.Time
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.memory = NewMemory()
	s.memory.now = func() time.Time { return s.now }
	s.backend = &failingBackend{Backend: s.memory}
	s.metrics = NewMetrics(prometheus.NewRegistry())
	s.cache = New(s.backend,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
	s.calls = 0
}

type index struct {
	Names []string `json:"names"`
}

func (s *CacheSuite) load(names ...string) func(context.Context) (index, error) {
	return func(context.Context) (index, error) {
		s.calls++
		return index{Names: names}, nil
	}
}

func (s *CacheSuite) get(policy Policy, compute func(context.Context) (index, error)) index {
	v, err := GetOrCompute(context.Background(), s.cache, Key("people", "index"), []string{"people"}, policy, compute)
	s.Require().NoError(err)
	return v
}

// =============================================================================
// Population and invalidation
// =============================================================================

func (s *CacheSuite) TestForeverUntilInvalidated() {
	s.Equal([]string{"a"}, s.get(Forever, s.load("a")).Names)
	s.Equal([]string{"a"}, s.get(Forever, s.load("b")).Names)
	s.Equal(1, s.calls)

	s.now = s.now.Add(365 * 24 * time.Hour)
	s.Equal([]string{"a"}, s.get(Forever, s.load("b")).Names)

	s.cache.Invalidate(context.Background(), "people")
	s.Equal([]string{"b"}, s.get(Forever, s.load("b")).Names)
	s.Equal(2, s.calls)

	s.Equal(2.0, testutil.ToFloat64(s.metrics.Hits.WithLabelValues("people")))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.Misses.WithLabelValues("people")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Invalidations.WithLabelValues("people")))
}

func (s *CacheSuite) TestFixedExpiry() {
	s.get(For(24*time.Hour), s.load("a"))
	s.now = s.now.Add(23 * time.Hour)
	s.get(For(24*time.Hour), s.load("a"))
	s.Equal(1, s.calls)

	s.now = s.now.Add(2 * time.Hour)
	s.get(For(24*time.Hour), s.load("a"))
	s.Equal(2, s.calls)
}

func (s *CacheSuite) TestUnrelatedTagLeavesEntry() {
	s.get(Forever, s.load("a"))
	s.cache.Invalidate(context.Background(), "family_relationship")
	s.get(Forever, s.load("b"))
	s.Equal(1, s.calls)
}

func (s *CacheSuite) TestPopulationRacingInvalidationIsNotServed() {
	ctx := context.Background()
	stale := func(context.Context) (index, error) {
		s.calls++
		// A write commits and invalidates while this read is computing.
		s.cache.Invalidate(ctx, "people")
		return index{Names: []string{"stale"}}, nil
	}

	s.Equal([]string{"stale"}, s.get(Forever, stale).Names)
	s.Equal([]string{"fresh"}, s.get(Forever, s.load("fresh")).Names)
	s.Equal(2, s.calls)
}

// =============================================================================
// Failure handling
// =============================================================================

func (s *CacheSuite) TestBackendFailuresAreSwallowed() {
	s.Run("get failure computes", func() {
		s.backend.failGet = true
		defer func() { s.backend.failGet = false }()
		s.Equal([]string{"a"}, s.get(Forever, s.load("a")).Names)
	})

	s.Run("set failure still returns value", func() {
		s.backend.failSet = true
		defer func() { s.backend.failSet = false }()
		s.cache.Invalidate(context.Background(), "people")
		s.Equal([]string{"b"}, s.get(Forever, s.load("b")).Names)
	})

	s.Run("versions failure computes", func() {
		s.backend.failVersions = true
		defer func() { s.backend.failVersions = false }()
		s.Equal([]string{"c"}, s.get(Forever, s.load("c")).Names)
	})

	s.Run("invalidate failure does not panic", func() {
		s.backend.failBump = true
		defer func() { s.backend.failBump = false }()
		s.cache.Invalidate(context.Background(), "people")
	})

	s.Equal(1.0, testutil.ToFloat64(s.metrics.Errors.WithLabelValues("set")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Errors.WithLabelValues("invalidate")))
}

func (s *CacheSuite) TestComputeErrorIsReturnedAndNotCached() {
	boom := errors.New("query failed")
	_, err := GetOrCompute(context.Background(), s.cache, "people:index", []string{"people"}, Forever,
		func(context.Context) (index, error) { return index{}, boom })
	s.ErrorIs(err, boom)
	s.Equal(0, s.memory.Len())
}

func (s *CacheSuite) TestNilCacheComputes() {
	var c *Cache
	v, err := GetOrCompute(context.Background(), c, "k", nil, Forever, s.load("x"))
	s.NoError(err)
	s.Equal([]string{"x"}, v.Names)
	c.Invalidate(context.Background(), "people")
}

func TestVersionedKey(t *testing.T) {
	if got := versionedKey("people:index", []string{"people", "family_relationship"}, []int64{3, 1}); got != "people:index@people:3,family_relationship:1" {
		t.Fatalf("unexpected key %q", got)
	}
}
