package readcache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persona/pkg/platform/circuit"
	"persona/pkg/platform/sentinel"
)

type countingBackend struct {
	*failingBackend
	gets, sets int
}

func (c *countingBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.gets++
	return c.failingBackend.Get(ctx, key)
}

func (c *countingBackend) Set(ctx context.Context, key string, tags []string, value []byte, ttl time.Duration) error {
	c.sets++
	return c.failingBackend.Set(ctx, key, tags, value, ttl)
}

func TestGuardedSkipsBackendWhileOpen(t *testing.T) {
	ctx := context.Background()
	inner := &countingBackend{failingBackend: &failingBackend{Backend: NewMemory()}}
	breaker := circuit.New("readcache", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(2))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := New(NewGuarded(inner, breaker, logger), WithLogger(logger), WithMetrics(NewMetrics(prometheus.NewRegistry())))

	calls := 0
	load := func(context.Context) (index, error) {
		calls++
		return index{Names: []string{"a"}}, nil
	}
	get := func() {
		v, err := GetOrCompute(ctx, cache, "people:index", []string{"people"}, Forever, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, v.Names)
	}

	inner.failGet, inner.failSet = true, true
	get()
	require.True(t, breaker.IsOpen())
	gets, sets := inner.gets, inner.sets

	// Open: the Versions probe succeeds but reads compute without Get or Set.
	_, _, err := NewGuarded(inner, breaker, logger).Get(ctx, "people:index")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)

	inner.failGet, inner.failSet = false, false
	get()
	assert.True(t, breaker.IsOpen())
	assert.Equal(t, gets, inner.gets)
	assert.Equal(t, sets, inner.sets)
	assert.Equal(t, 2, calls)

	// Second successful probe closes the circuit and the entry is stored again.
	get()
	assert.False(t, breaker.IsOpen())
	assert.Equal(t, 3, calls)
	get()
	assert.Equal(t, 3, calls)
}

func TestGuardedAlwaysAttemptsInvalidation(t *testing.T) {
	ctx := context.Background()
	memory := NewMemory()
	breaker := circuit.New("readcache", circuit.WithFailureThreshold(1))
	guarded := NewGuarded(memory, breaker, nil)

	breaker.RecordFailure()
	require.True(t, breaker.IsOpen())

	require.NoError(t, guarded.Bump(ctx, "people"))
	versions, err := memory.Versions(ctx, []string{"people"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, versions)
	assert.False(t, breaker.IsOpen())
}
