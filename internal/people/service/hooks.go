package service

import (
	"context"
	"time"

	"persona/internal/readcache"
	"persona/pkg/domain"
)

// EntityType names what a write touched. Cache tags use the same names.
type EntityType string

const (
	EntityPeople             EntityType = "people"
	EntityFamilyRelationship EntityType = "family_relationship"
)

// Op names a committed write.
type Op string

const (
	OpPersonStored         Op = "person.stored"
	OpPersonUpdated        Op = "person.updated"
	OpFamilyContactDeleted Op = "family_relationship.deleted"
)

// Change describes one committed write as seen by hooks registered for Entity.
type Change struct {
	Op       Op
	Entity   EntityType
	PersonID domain.PersonID
	At       time.Time
}

// Hook runs after commit. Its error is logged and never fails the write.
type Hook func(ctx context.Context, change Change) error

// CacheInvalidation busts the read-cache tag named after the changed entity.
func CacheInvalidation(cache *readcache.Cache) Hook {
	return func(ctx context.Context, change Change) error {
		cache.Invalidate(ctx, string(change.Entity))
		return nil
	}
}

// afterCommit runs the hooks of each touched entity in order. Each call gets
// its own deadline detached from the request: a hook honouring its context
// holds the response for at most hookTimeout, and a client disconnect does not
// abort it.
func (s *Service) afterCommit(ctx context.Context, op Op, personID domain.PersonID, at time.Time, touched ...EntityType) {
	for _, entity := range touched {
		change := Change{Op: op, Entity: entity, PersonID: personID, At: at}
		for _, hook := range s.hooks[entity] {
			if err := s.runHook(ctx, hook, change); err != nil {
				s.logger.WarnContext(ctx, "post-commit hook failed",
					"op", op,
					"entity", entity,
					"person_id", personID,
					"error", err,
				)
				if s.metrics != nil {
					s.metrics.IncrementHookFailure(string(entity))
				}
			}
		}
	}
}

func (s *Service) runHook(ctx context.Context, hook Hook, change Change) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.hookTimeout)
	defer cancel()
	return hook(ctx, change)
}
