package models

import (
	"time"

	"persona/pkg/domain"
)

// AddressRole tags an address by its use.
type AddressRole string

const (
	// AddressRoleKTP is the legal address printed on the national ID card.
	AddressRoleKTP AddressRole = "KTP"
	// AddressRoleResidence is where the person currently lives.
	AddressRoleResidence AddressRole = "RESIDENCE"
)

// Address is an address payload as handed to the address collaborator. Its
// internal structure is the collaborator's concern.
type Address struct {
	Street     string         `json:"street,omitempty"`
	RT         string         `json:"rt,omitempty"`
	RW         string         `json:"rw,omitempty"`
	Village    string         `json:"village,omitempty"`
	District   string         `json:"district,omitempty"`
	City       string         `json:"city,omitempty"`
	Province   string         `json:"province,omitempty"`
	PostalCode string         `json:"postal_code,omitempty"`
	Props      map[string]any `json:"props,omitempty"`
}

// Clone deep-copies a. Nil stays nil.
func (a *Address) Clone() *Address {
	if a == nil {
		return nil
	}
	c := *a
	c.Props = CloneProps(a.Props)
	return &c
}

// AddressInput is the nested address block of a submission.
type AddressInput struct {
	KTP                *Address `json:"ktp,omitempty"`
	Residence          *Address `json:"residence,omitempty"`
	ResidenceSameAsKTP bool     `json:"residence_same_as_ktp,omitempty"`
}

// PersonAddress is the composed legal/residence pair.
type PersonAddress struct {
	KTP       *Address
	Residence *Address
}

// ByRole lists the present addresses keyed by role.
func (pa PersonAddress) ByRole() map[AddressRole]*Address {
	out := make(map[AddressRole]*Address, 2)
	if pa.KTP != nil {
		out[AddressRoleKTP] = pa.KTP
	}
	if pa.Residence != nil {
		out[AddressRoleResidence] = pa.Residence
	}
	return out
}

// AddressRecord is an address as held by the address collaborator.
type AddressRecord struct {
	ID        domain.AddressID `json:"id"`
	OwnerID   domain.PersonID  `json:"owner_id"`
	Role      AddressRole      `json:"role"`
	Address   Address          `json:"address"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
