package service

import (
	"context"
	"time"

	"persona/internal/people/models"
	"persona/internal/people/ports"
	refmodels "persona/internal/reference/models"
	"persona/pkg/domain"
)

// PersonStore persists person rows. Missing rows are sentinel.ErrNotFound,
// duplicate IDs sentinel.ErrConflict.
type PersonStore interface {
	Create(ctx context.Context, p *models.Person) error
	Update(ctx context.Context, p *models.Person) error
	FindByID(ctx context.Context, id domain.PersonID) (*models.Person, error)
	// FindByIDForUpdate locks the row until the enclosing transaction ends.
	FindByIDForUpdate(ctx context.Context, id domain.PersonID) (*models.Person, error)
	List(ctx context.Context, q models.ListQuery) ([]*models.Person, int, error)
}

// FamilyStore persists family contacts, at most one live per person.
type FamilyStore interface {
	FindByPerson(ctx context.Context, personID domain.PersonID) (*models.FamilyContact, error)
	Save(ctx context.Context, c *models.FamilyContact) error
	SoftDelete(ctx context.Context, personID domain.PersonID, at time.Time) error
	List(ctx context.Context, q models.ListQuery) ([]*models.FamilyContact, int, error)
}

// ReferenceWriter creates reference rows inside a person write.
type ReferenceWriter interface {
	Create(ctx context.Context, e *refmodels.Entity) error
}

// Stores is the set of stores a unit of work spans. Collaborators are included
// so their writes commit or roll back with the person.
type Stores struct {
	Persons    PersonStore
	Families   FamilyStore
	References ReferenceWriter
	Addresses  ports.AddressCollaborator
	Cards      ports.CardCollaborator
}

// StoreTx provides the transactional boundary for person writes.
// Implementations may wrap a database transaction or, in-memory, a snapshot swap.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

// ReferenceResolver resolves reference IDs to entities; unresolvable refs are
// absent from the result.
type ReferenceResolver interface {
	ResolveMany(ctx context.Context, refs []refmodels.Ref) map[refmodels.Ref]*refmodels.Entity
}
