// Package domain holds the typed identifiers shared across features.
//
// Person and family-contact records are keyed by ULIDs: 26 characters of
// Crockford base32 that sort lexicographically by creation time. Reference IDs
// are kept as opaque strings because unknown reference IDs are stored as given.
package domain

import (
	"strings"

	"github.com/oklog/ulid/v2"

	dErrors "persona/pkg/domain-errors"
)

// PersonID identifies a person record. Immutable once assigned.
type PersonID string

// FamilyContactID identifies a family-contact record.
type FamilyContactID string

// ReferenceID identifies a reference entity (religion, education, ...).
type ReferenceID string

// AddressID identifies an address record held by the address collaborator.
type AddressID string

func NewPersonID() PersonID               { return PersonID(ulid.Make().String()) }
func NewFamilyContactID() FamilyContactID { return FamilyContactID(ulid.Make().String()) }
func NewReferenceID() ReferenceID         { return ReferenceID(ulid.Make().String()) }
func NewAddressID() AddressID             { return AddressID(ulid.Make().String()) }

func (id PersonID) String() string        { return string(id) }
func (id FamilyContactID) String() string { return string(id) }
func (id ReferenceID) String() string     { return string(id) }
func (id AddressID) String() string       { return string(id) }

func (id PersonID) IsNil() bool        { return id == "" }
func (id FamilyContactID) IsNil() bool { return id == "" }
func (id ReferenceID) IsNil() bool     { return id == "" }

// ParsePersonID validates s as a non-zero ULID and returns its canonical
// upper-case form.
func ParsePersonID(s string) (PersonID, error) {
	v, err := parseULID(s, "person id")
	return PersonID(v), err
}

// ParseFamilyContactID validates s as a non-zero ULID.
func ParseFamilyContactID(s string) (FamilyContactID, error) {
	v, err := parseULID(s, "family contact id")
	return FamilyContactID(v), err
}

// ParseReferenceID validates s as a non-zero ULID. Reference IDs coming from
// submissions are not parsed; this is for path parameters and seed tooling.
func ParseReferenceID(s string) (ReferenceID, error) {
	v, err := parseULID(s, "reference id")
	return ReferenceID(v), err
}

func parseULID(s, what string) (string, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	if len(s) != ulid.EncodedSize {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	parsed, err := ulid.ParseStrict(strings.ToUpper(s))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+what)
	}
	if parsed == (ulid.ULID{}) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	return parsed.String(), nil
}
