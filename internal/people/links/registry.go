// Package links resolves polymorphic {type, id} references. Each type tag maps
// to a loader registered at wiring time; unknown tags are rejected on write.
package links

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"persona/internal/people/models"
	"persona/internal/people/ports"
	dErrors "persona/pkg/domain-errors"
	"persona/pkg/platform/sentinel"
)

// TypeUser links to a user account.
const TypeUser = "user"

// Loader fetches the record a link points at.
type Loader func(ctx context.Context, id string) (any, error)

// Registry maps link type tags to loaders.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
}

func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// Register adds or replaces the loader for typ.
func (r *Registry) Register(typ string, loader Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[typ] = loader
}

// Types lists registered type tags.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.loaders))
	for typ := range r.loaders {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// Validate rejects links whose type has no loader.
func (r *Registry) Validate(link *models.Link) error {
	if link == nil {
		return nil
	}
	if link.ID == "" {
		return dErrors.New(dErrors.CodeValidation, "link id is required").WithField("family_relationship.link.id")
	}
	r.mu.RLock()
	_, ok := r.loaders[link.Type]
	r.mu.RUnlock()
	if !ok {
		msg := "unknown link type " + link.Type + ", expected one of: " + strings.Join(r.Types(), ", ")
		return dErrors.New(dErrors.CodeValidation, msg).WithField("family_relationship.link.type")
	}
	return nil
}

// Load fetches the linked record. A missing record returns (nil, nil) so reads
// degrade to the bare {type, id} pair.
func (r *Registry) Load(ctx context.Context, link *models.Link) (any, error) {
	if link == nil {
		return nil, nil
	}
	r.mu.RLock()
	loader, ok := r.loaders[link.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	data, err := loader(ctx, link.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// UserLoader adapts a UserLinker to a Loader.
func UserLoader(users ports.UserLinker) Loader {
	return func(ctx context.Context, id string) (any, error) {
		u, err := users.FindUser(ctx, id)
		if err != nil {
			return nil, err
		}
		return u, nil
	}
}
