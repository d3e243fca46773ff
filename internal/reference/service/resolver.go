package service

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"persona/internal/reference/models"
	"persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
	"persona/pkg/platform/sentinel"
)

// Store is read access to the shared reference table.
type Store interface {
	FindByID(ctx context.Context, category models.Category, id domain.ReferenceID) (*models.Entity, error)
	ListByCategory(ctx context.Context, category models.Category) ([]*models.Entity, error)
}

const (
	defaultTTL = time.Hour

	// resolveManyLimit bounds concurrent lookups in ResolveMany.
	resolveManyLimit = 8
)

type cacheEntry struct {
	entity    *models.Entity
	expiresAt time.Time
}

// Resolver looks up reference entities and keeps a per-category cache of hits.
// Misses are never cached.
type Resolver struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[models.Ref]cacheEntry
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithTTL sets how long a resolved entity stays cached. Zero keeps the default.
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithClock overrides the cache clock.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

func New(store Store, opts ...Option) *Resolver {
	r := &Resolver{
		store:   store,
		ttl:     defaultTTL,
		now:     time.Now,
		entries: make(map[models.Ref]cacheEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the entity for (category, id).
func (r *Resolver) Resolve(ctx context.Context, category models.Category, id domain.ReferenceID) (*models.Entity, error) {
	if !category.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown reference category").WithField("category")
	}
	ref := models.Ref{Category: category, ID: id}
	if e, ok := r.cached(ref); ok {
		return e, nil
	}

	entity, err := r.store.FindByID(ctx, category, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "reference not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reference")
	}

	r.mu.Lock()
	r.entries[ref] = cacheEntry{entity: entity, expiresAt: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return entity, nil
}

// ResolveMany resolves refs concurrently. Refs that are missing or fail to load
// are left out of the result.
func (r *Resolver) ResolveMany(ctx context.Context, refs []models.Ref) map[models.Ref]*models.Entity {
	out := make(map[models.Ref]*models.Entity, len(refs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveManyLimit)

	seen := make(map[models.Ref]struct{}, len(refs))
	for _, ref := range refs {
		if ref.ID.IsNil() {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}

		g.Go(func() error {
			entity, err := r.Resolve(gctx, ref.Category, ref.ID)
			if err != nil {
				if r.logger != nil {
					r.logger.DebugContext(gctx, "reference not resolved",
						"category", ref.Category,
						"reference_id", ref.ID,
						"error", err,
					)
				}
				return nil
			}
			mu.Lock()
			out[ref] = entity
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// List returns every entity of category ordered by weight, then label.
// Entities without a weight sort last.
func (r *Resolver) List(ctx context.Context, category models.Category) ([]*models.Entity, error) {
	if !category.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown reference category").WithField("category")
	}
	entities, err := r.store.ListByCategory(ctx, category)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list references")
	}
	slices.SortStableFunc(entities, func(a, b *models.Entity) int {
		switch {
		case a.Weight != nil && b.Weight == nil:
			return -1
		case a.Weight == nil && b.Weight != nil:
			return 1
		case a.Weight != nil && b.Weight != nil && *a.Weight != *b.Weight:
			return cmp.Compare(*a.Weight, *b.Weight)
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return entities, nil
}

// Invalidate drops cached entries of category. Seed and admin tooling call it
// after changing reference rows; person writes never do.
func (r *Resolver) Invalidate(category models.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ref := range r.entries {
		if ref.Category == category {
			delete(r.entries, ref)
		}
	}
}

func (r *Resolver) cached(ref models.Ref) (*models.Entity, bool) {
	r.mu.RLock()
	entry, ok := r.entries[ref]
	r.mu.RUnlock()
	if !ok || !r.now().Before(entry.expiresAt) {
		return nil, false
	}
	return entry.entity, true
}
