package readcache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"persona/pkg/platform/circuit"
	"persona/pkg/platform/sentinel"
)

// ErrCircuitOpen is returned for calls skipped while the backend circuit is
// open. It matches sentinel.ErrUnavailable.
var ErrCircuitOpen = fmt.Errorf("read cache circuit open: %w", sentinel.ErrUnavailable)

// Guarded wraps a Backend with a circuit breaker. While the circuit is open,
// Versions still reaches the backend and acts as the recovery probe, but Get
// and Set are skipped so reads fall through to compute. Bump is always
// attempted: a skipped invalidation could surface stale entries after recovery.
type Guarded struct {
	backend Backend
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuarded(backend Backend, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guarded{backend: backend, breaker: breaker, logger: logger}
}

func (g *Guarded) Versions(ctx context.Context, tags []string) ([]int64, error) {
	versions, err := g.backend.Versions(ctx, tags)
	g.record(ctx, err)
	return versions, err
}

func (g *Guarded) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if g.breaker.IsOpen() {
		return nil, false, ErrCircuitOpen
	}
	raw, ok, err := g.backend.Get(ctx, key)
	g.record(ctx, err)
	return raw, ok, err
}

func (g *Guarded) Set(ctx context.Context, key string, tags []string, value []byte, ttl time.Duration) error {
	if g.breaker.IsOpen() {
		return ErrCircuitOpen
	}
	err := g.backend.Set(ctx, key, tags, value, ttl)
	g.record(ctx, err)
	return err
}

func (g *Guarded) Bump(ctx context.Context, tags ...string) error {
	err := g.backend.Bump(ctx, tags...)
	g.record(ctx, err)
	return err
}

func (g *Guarded) record(ctx context.Context, err error) {
	if err != nil {
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "read cache circuit opened",
				"breaker", g.breaker.Name(),
				"error", err,
			)
		}
		return
	}
	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "read cache circuit closed", "breaker", g.breaker.Name())
	}
}
