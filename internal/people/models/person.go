package models

import (
	"time"

	"github.com/google/uuid"

	"persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
)

// Sex is matched case-sensitively against its literal set.
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

func (s Sex) IsValid() bool {
	return s == SexMale || s == SexFemale
}

// BloodType is one of the ABO groups with an optional rhesus suffix.
type BloodType string

const (
	BloodTypeA     BloodType = "A"
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeB     BloodType = "B"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeO     BloodType = "O"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
	BloodTypeAB    BloodType = "AB"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
)

var bloodTypes = map[BloodType]struct{}{
	BloodTypeA: {}, BloodTypeAPos: {}, BloodTypeANeg: {},
	BloodTypeB: {}, BloodTypeBPos: {}, BloodTypeBNeg: {},
	BloodTypeO: {}, BloodTypeOPos: {}, BloodTypeONeg: {},
	BloodTypeAB: {}, BloodTypeABPos: {}, BloodTypeABNeg: {},
}

func (b BloodType) IsValid() bool {
	_, ok := bloodTypes[b]
	return ok
}

// DateLayout is the storage and read-back format of calendar dates.
const DateLayout = "2006-01-02"

// Person is the aggregate root of a person record.
type Person struct {
	ID              domain.PersonID
	UUID            *uuid.UUID
	Name            string
	FirstName       string
	LastName        string
	Sex             Sex
	DOB             time.Time
	POB             string
	BloodType       BloodType
	MotherName      string
	FatherName      string
	TotalChildren   int
	IsNationality   bool
	ReligionID      *domain.ReferenceID
	LastEducationID *domain.ReferenceID
	MaritalStatusID *domain.ReferenceID
	CountryID       *domain.ReferenceID
	Phones          []string
	Props           map[string]any
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the invariants a stored person must hold.
func (p *Person) Validate() error {
	if p.ID.IsNil() {
		return dErrors.New(dErrors.CodeInvariantViolation, "person id is required")
	}
	if p.Name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "person name is required")
	}
	if p.Sex != "" && !p.Sex.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "invalid sex")
	}
	if p.BloodType != "" && !p.BloodType.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "invalid blood type")
	}
	if p.TotalChildren < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "total children must not be negative")
	}
	return nil
}

// AgeAt returns whole years between dob and now. Zero dob yields 0.
func AgeAt(dob, now time.Time) int {
	if dob.IsZero() || now.Before(dob) {
		return 0
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

// Clone returns a copy that shares no mutable state with p.
func (p *Person) Clone() *Person {
	if p == nil {
		return nil
	}
	c := *p
	if p.UUID != nil {
		u := *p.UUID
		c.UUID = &u
	}
	c.ReligionID = cloneRef(p.ReligionID)
	c.LastEducationID = cloneRef(p.LastEducationID)
	c.MaritalStatusID = cloneRef(p.MaritalStatusID)
	c.CountryID = cloneRef(p.CountryID)
	if p.Phones != nil {
		c.Phones = append([]string(nil), p.Phones...)
	}
	c.Props = CloneProps(p.Props)
	return &c
}

func cloneRef(id *domain.ReferenceID) *domain.ReferenceID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// CloneProps deep-copies a JSON property bag.
func CloneProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneProps(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
