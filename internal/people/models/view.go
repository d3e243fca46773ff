package models

import (
	"time"

	refmodels "persona/internal/reference/models"
	"persona/pkg/domain"
)

// PersonView is the enriched read shape of a person. Age is derived at read
// time and never cached.
type PersonView struct {
	ID                 domain.PersonID     `json:"id"`
	UUID               string              `json:"uuid,omitempty"`
	Name               string              `json:"name"`
	FirstName          string              `json:"first_name,omitempty"`
	LastName           string              `json:"last_name,omitempty"`
	Sex                Sex                 `json:"sex,omitempty"`
	DOB                string              `json:"dob,omitempty"`
	Age                int                 `json:"age"`
	POB                string              `json:"pob,omitempty"`
	BloodType          BloodType           `json:"blood_type,omitempty"`
	MotherName         string              `json:"mother_name,omitempty"`
	FatherName         string              `json:"father_name,omitempty"`
	TotalChildren      int                 `json:"total_children"`
	IsNationality      bool                `json:"is_nationality"`
	ReligionID         *domain.ReferenceID `json:"religion_id,omitempty"`
	LastEducationID    *domain.ReferenceID `json:"last_education_id,omitempty"`
	MaritalStatusID    *domain.ReferenceID `json:"marital_status_id,omitempty"`
	CountryID          *domain.ReferenceID `json:"country_id,omitempty"`
	Religion           *refmodels.Label    `json:"religion,omitempty"`
	LastEducation      *refmodels.Label    `json:"last_education,omitempty"`
	MaritalStatus      *refmodels.Label    `json:"marital_status,omitempty"`
	Country            *refmodels.Label    `json:"country,omitempty"`
	Phones             []string            `json:"phones"`
	Props              map[string]any      `json:"props,omitempty"`
	Address            AddressView         `json:"address"`
	CardIdentity       map[string]string   `json:"card_identity"`
	FamilyRelationship *FamilyContactView  `json:"family_relationship,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// AddressView is the nested address pair of a read.
type AddressView struct {
	KTP       *Address `json:"ktp,omitempty"`
	Residence *Address `json:"residence,omitempty"`
}

// FamilyContactView is a family contact with its role label and loaded link.
type FamilyContactView struct {
	ID           domain.FamilyContactID `json:"id"`
	PersonID     domain.PersonID        `json:"people_id"`
	Name         string                 `json:"name,omitempty"`
	Phone        string                 `json:"phone,omitempty"`
	Sex          Sex                    `json:"sex,omitempty"`
	FamilyRoleID domain.ReferenceID     `json:"family_role_id,omitempty"`
	FamilyRole   *refmodels.Label       `json:"family_role,omitempty"`
	Link         *LinkView              `json:"link,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// LinkView is a link plus the record it points at, when it could be loaded.
type LinkView struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Data any    `json:"data,omitempty"`
}

// PersonSummary is one row of the person index.
type PersonSummary struct {
	ID        domain.PersonID `json:"id"`
	Name      string          `json:"name"`
	Sex       Sex             `json:"sex,omitempty"`
	DOB       string          `json:"dob,omitempty"`
	Age       int             `json:"age"`
	Phones    []string        `json:"phones"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListQuery pages an index. Search matches names case-insensitively.
type ListQuery struct {
	Search string
	Limit  int
	Offset int
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Normalized clamps Limit and Offset into range.
func (q ListQuery) Normalized() ListQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// Page is one page of an index.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DOBString renders a calendar date, or "" when unset.
func DOBString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDOBString is the inverse of DOBString.
func ParseDOBString(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
