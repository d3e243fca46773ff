// Package family resolves the nested family_relationship block of a person
// submission into a contact owned by that person.
package family

import (
	"context"
	"errors"
	"strings"
	"time"

	"persona/internal/people/links"
	"persona/internal/people/models"
	refmodels "persona/internal/reference/models"
	"persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
)

// ErrAmbiguousRole is returned when the role is given both by ID and by
// creation payload, or by neither while contact data is present.
var ErrAmbiguousRole = errors.New("exactly one of family_role_id or family_role is required")

// RoleCreator persists a new family_role reference in the open transaction.
type RoleCreator interface {
	Create(ctx context.Context, entity *refmodels.Entity) error
}

// Resolver validates and builds family contacts.
type Resolver struct {
	links *links.Registry
}

func New(registry *links.Registry) *Resolver {
	return &Resolver{links: registry}
}

// Check runs every input rule that needs no I/O, so callers can reject bad
// input before a transaction opens.
func (r *Resolver) Check(in *models.FamilyInput) error {
	if in.IsEmpty() {
		return nil
	}
	hasID, hasPayload := in.HasRoleID(), in.FamilyRole != nil
	if hasID && hasPayload {
		return ambiguous()
	}
	if !hasID && !hasPayload && in.HasRecordData() {
		return ambiguous()
	}
	if hasPayload && strings.TrimSpace(in.FamilyRole.Label) == "" {
		return dErrors.New(dErrors.CodeValidation, "family role label is required").WithField("family_relationship.family_role.label")
	}
	if r.links != nil {
		if err := r.links.Validate(in.Link); err != nil {
			return err
		}
	}
	return nil
}

// Resolve builds the contact for personID. Empty input yields nil. A role
// creation payload is persisted through roles first. Any people_id in the input
// is ignored.
func (r *Resolver) Resolve(ctx context.Context, in *models.FamilyInput, personID domain.PersonID, roles RoleCreator, now time.Time) (*models.FamilyContact, error) {
	if in.IsEmpty() {
		return nil, nil
	}
	if err := r.Check(in); err != nil {
		return nil, err
	}

	roleID, err := r.roleID(ctx, in, roles)
	if err != nil {
		return nil, err
	}

	contact := &models.FamilyContact{
		ID:           domain.NewFamilyContactID(),
		PersonID:     personID,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Sex:          models.Sex(in.Sex),
		FamilyRoleID: roleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Link != nil {
		link := *in.Link
		contact.Link = &link
	}
	return contact, nil
}

func (r *Resolver) roleID(ctx context.Context, in *models.FamilyInput, roles RoleCreator) (domain.ReferenceID, error) {
	if in.FamilyRole == nil {
		return in.RoleID(), nil
	}
	role, err := refmodels.NewEntity(refmodels.CategoryFamilyRole, in.FamilyRole.Label, in.FamilyRole.Weight)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeValidation, "invalid family role").WithField("family_relationship.family_role")
	}
	if err := roles.Create(ctx, role); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create family role")
	}
	return role.ID, nil
}

// Merge keeps the identity and creation time of the live contact when a new
// resolution replaces it.
func Merge(existing, next *models.FamilyContact) *models.FamilyContact {
	if existing == nil || next == nil {
		return next
	}
	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	return next
}

func ambiguous() error {
	return dErrors.Wrap(ErrAmbiguousRole, dErrors.CodeAmbiguousInput, ErrAmbiguousRole.Error()).WithField("family_relationship.family_role_id")
}
