package models

import (
	"time"

	"github.com/google/uuid"

	"persona/pkg/domain"
)

// Submission is an inbound person payload. Pointer fields distinguish
// "omitted" from "set to zero" so updates can be partial.
type Submission struct {
	ID                 *string           `json:"id,omitempty"`
	UUID               *string           `json:"uuid,omitempty" validate:"omitempty,uuid"`
	Name               *string           `json:"name,omitempty" validate:"omitempty,max=150"`
	FirstName          *string           `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName           *string           `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Sex                *string           `json:"sex,omitempty"`
	DOB                *string           `json:"dob,omitempty"`
	POB                *string           `json:"pob,omitempty" validate:"omitempty,max=100"`
	BloodType          *string           `json:"blood_type,omitempty"`
	MotherName         *string           `json:"mother_name,omitempty" validate:"omitempty,max=150"`
	FatherName         *string           `json:"father_name,omitempty" validate:"omitempty,max=150"`
	TotalChildren      *int              `json:"total_children,omitempty" validate:"omitempty,gte=0,lte=99"`
	IsNationality      *bool             `json:"is_nationality,omitempty"`
	ReligionID         *string           `json:"religion_id,omitempty" validate:"omitempty,max=64"`
	CountryID          *string           `json:"country_id,omitempty" validate:"omitempty,max=64"`
	LastEducationID    *string           `json:"last_education_id,omitempty" validate:"omitempty,max=64"`
	MaritalStatusID    *string           `json:"marital_status_id,omitempty" validate:"omitempty,max=64"`
	Phones             []string          `json:"phones,omitempty"`
	Address            *AddressInput     `json:"address,omitempty"`
	CardIdentity       map[string]string `json:"card_identity,omitempty"`
	FamilyRelationship *FamilyInput      `json:"family_relationship,omitempty"`
	Props              map[string]any    `json:"props,omitempty"`
}

// NormalizedPerson is a validated submission. Nil fields were omitted and
// leave stored values untouched on update.
type NormalizedPerson struct {
	// ID is set on create when the caller supplied a valid one.
	ID              domain.PersonID
	UUID            *uuid.UUID
	Name            *string
	FirstName       *string
	LastName        *string
	Sex             *Sex
	DOB             *time.Time
	POB             *string
	BloodType       *BloodType
	MotherName      *string
	FatherName      *string
	TotalChildren   *int
	IsNationality   *bool
	ReligionID      *domain.ReferenceID
	LastEducationID *domain.ReferenceID
	MaritalStatusID *domain.ReferenceID
	CountryID       *domain.ReferenceID
	// Phones is applied when PhonesSet; nil with PhonesSet clears the list.
	Phones    []string
	PhonesSet bool
	Props     map[string]any

	Address      *AddressInput
	CardIdentity map[string]string
	Family       *FamilyInput
}

// Apply writes the provided fields onto p. A reference ID set to "" clears it.
func (n *NormalizedPerson) Apply(p *Person) {
	setString(&p.Name, n.Name)
	setString(&p.FirstName, n.FirstName)
	setString(&p.LastName, n.LastName)
	setString(&p.POB, n.POB)
	setString(&p.MotherName, n.MotherName)
	setString(&p.FatherName, n.FatherName)
	if n.UUID != nil {
		u := *n.UUID
		p.UUID = &u
	}
	if n.Sex != nil {
		p.Sex = *n.Sex
	}
	if n.DOB != nil {
		p.DOB = *n.DOB
	}
	if n.BloodType != nil {
		p.BloodType = *n.BloodType
	}
	if n.TotalChildren != nil {
		p.TotalChildren = *n.TotalChildren
	}
	if n.IsNationality != nil {
		p.IsNationality = *n.IsNationality
	}
	setRef(&p.ReligionID, n.ReligionID)
	setRef(&p.LastEducationID, n.LastEducationID)
	setRef(&p.MaritalStatusID, n.MaritalStatusID)
	setRef(&p.CountryID, n.CountryID)
	if n.PhonesSet {
		p.Phones = append([]string(nil), n.Phones...)
	}
	if n.Props != nil {
		p.Props = CloneProps(n.Props)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setRef(dst **domain.ReferenceID, v *domain.ReferenceID) {
	if v == nil {
		return
	}
	if v.IsNil() {
		*dst = nil
		return
	}
	id := *v
	*dst = &id
}
