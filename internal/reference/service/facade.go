package service

import (
	"context"

	"persona/internal/reference/models"
	"persona/pkg/domain"
)

// Lookup is a Resolver narrowed to one category.
type Lookup struct {
	resolver *Resolver
	category models.Category
}

func (r *Resolver) Religions() Lookup       { return Lookup{r, models.CategoryReligion} }
func (r *Resolver) Educations() Lookup      { return Lookup{r, models.CategoryEducation} }
func (r *Resolver) MaritalStatuses() Lookup { return Lookup{r, models.CategoryMaritalStatus} }
func (r *Resolver) FamilyRoles() Lookup     { return Lookup{r, models.CategoryFamilyRole} }
func (r *Resolver) Countries() Lookup       { return Lookup{r, models.CategoryCountry} }

func (l Lookup) Category() models.Category { return l.category }

func (l Lookup) Get(ctx context.Context, id domain.ReferenceID) (*models.Entity, error) {
	return l.resolver.Resolve(ctx, l.category, id)
}

// Label returns the display label for id.
func (l Lookup) Label(ctx context.Context, id domain.ReferenceID) (string, error) {
	e, err := l.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return e.Label, nil
}

func (l Lookup) List(ctx context.Context) ([]*models.Entity, error) {
	return l.resolver.List(ctx, l.category)
}
