// Package models defines the shared reference-entity shape. Religion,
// education, marital status, family role and country rows live in one table
// distinguished by Category.
package models

import (
	"strings"

	"persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
)

// Category discriminates reference rows sharing the one physical table.
type Category string

const (
	CategoryReligion      Category = "religion"
	CategoryEducation     Category = "education"
	CategoryMaritalStatus Category = "marital_status"
	CategoryFamilyRole    Category = "family_role"
	CategoryCountry       Category = "country"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryReligion,
	CategoryEducation,
	CategoryMaritalStatus,
	CategoryFamilyRole,
	CategoryCountry,
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryReligion, CategoryEducation, CategoryMaritalStatus, CategoryFamilyRole, CategoryCountry:
		return true
	}
	return false
}

// ParseCategory accepts a category name as used in URLs.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "unknown reference category: "+s).WithField("category")
	}
	return c, nil
}

// Entity is one reference row.
type Entity struct {
	ID       domain.ReferenceID `json:"id"`
	Category Category           `json:"category"`
	Label    string             `json:"label"`
	Weight   *int               `json:"weight,omitempty"`
}

// Ref addresses an entity by category and ID.
type Ref struct {
	Category Category
	ID       domain.ReferenceID
}

// NewEntity builds a reference row with a fresh ID.
func NewEntity(category Category, label string, weight *int) (*Entity, error) {
	if !category.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown reference category")
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reference label is required")
	}
	return &Entity{
		ID:       domain.NewReferenceID(),
		Category: category,
		Label:    label,
		Weight:   weight,
	}, nil
}

// Label is the {id, label} pair embedded in enriched reads.
type Label struct {
	ID    domain.ReferenceID `json:"id"`
	Label string             `json:"label"`
}

// AsLabel projects e for read models; nil stays nil.
func (e *Entity) AsLabel() *Label {
	if e == nil {
		return nil
	}
	return &Label{ID: e.ID, Label: e.Label}
}
