package models

import (
	"strings"
	"time"

	"persona/pkg/domain"
)

// Link points a family contact at a record owned elsewhere, resolved lazily
// through the link registry.
type Link struct {
	Type string `json:"type" validate:"required,max=50"`
	ID   string `json:"id" validate:"required,max=64"`
}

// RoleInput creates a family_role reference entity inline.
type RoleInput struct {
	Label  string `json:"label" validate:"required,max=100"`
	Weight *int   `json:"weight,omitempty"`
}

// FamilyInput is the nested family_relationship block of a submission.
type FamilyInput struct {
	// PeopleID is accepted for compatibility and ignored; the owner is always
	// the person being written.
	PeopleID     *string    `json:"people_id,omitempty"`
	Name         string     `json:"name,omitempty" validate:"omitempty,max=150"`
	Phone        string     `json:"phone,omitempty" validate:"omitempty,phone"`
	Sex          string     `json:"sex,omitempty"`
	FamilyRoleID *string    `json:"family_role_id,omitempty"`
	FamilyRole   *RoleInput `json:"family_role,omitempty"`
	Link         *Link      `json:"link,omitempty"`
}

// HasRoleID reports whether a non-blank family_role_id was given.
func (f *FamilyInput) HasRoleID() bool {
	return f.FamilyRoleID != nil && strings.TrimSpace(*f.FamilyRoleID) != ""
}

// RoleID returns the trimmed family_role_id, or "" when none was given.
func (f *FamilyInput) RoleID() domain.ReferenceID {
	if f.FamilyRoleID == nil {
		return ""
	}
	return domain.ReferenceID(strings.TrimSpace(*f.FamilyRoleID))
}

// HasRecordData reports whether any contact field besides the role was given.
func (f *FamilyInput) HasRecordData() bool {
	return strings.TrimSpace(f.Name) != "" ||
		strings.TrimSpace(f.Phone) != "" ||
		f.Sex != "" ||
		f.Link != nil
}

// IsEmpty reports whether the block carries nothing to persist.
func (f *FamilyInput) IsEmpty() bool {
	return f == nil || (!f.HasRecordData() && !f.HasRoleID() && f.FamilyRole == nil)
}

// FamilyContact is the single live contact a person may have.
type FamilyContact struct {
	ID           domain.FamilyContactID
	PersonID     domain.PersonID
	Name         string
	Phone        string
	Sex          Sex
	FamilyRoleID domain.ReferenceID
	Link         *Link
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// IsDeleted reports whether the contact was soft-deleted.
func (c *FamilyContact) IsDeleted() bool {
	return c.DeletedAt != nil
}

// SameContent reports whether c and o carry the same contact data.
func (c *FamilyContact) SameContent(o *FamilyContact) bool {
	if c == nil || o == nil {
		return c == o
	}
	if (c.Link == nil) != (o.Link == nil) {
		return false
	}
	if c.Link != nil && *c.Link != *o.Link {
		return false
	}
	return c.Name == o.Name &&
		c.Phone == o.Phone &&
		c.Sex == o.Sex &&
		c.FamilyRoleID == o.FamilyRoleID
}

// Clone returns a copy sharing no mutable state with c.
func (c *FamilyContact) Clone() *FamilyContact {
	if c == nil {
		return nil
	}
	out := *c
	if c.Link != nil {
		l := *c.Link
		out.Link = &l
	}
	if c.DeletedAt != nil {
		d := *c.DeletedAt
		out.DeletedAt = &d
	}
	return &out
}
