// Package ports declares the collaborators the people feature reaches through
// narrow interfaces: addresses (regional module), identity cards (card module)
// and user accounts (user module).
package ports

import (
	"context"

	"persona/internal/people/models"
	"persona/pkg/domain"
)

// AddressCollaborator stores addresses by owner and role.
type AddressCollaborator interface {
	SaveAddress(ctx context.Context, ownerID domain.PersonID, role models.AddressRole, addr *models.Address) (*models.AddressRecord, error)
	GetAddresses(ctx context.Context, ownerID domain.PersonID) (map[models.AddressRole]*models.AddressRecord, error)
}

// CardCollaborator stores identity-card values by owner and type tag.
type CardCollaborator interface {
	SaveCardIdentity(ctx context.Context, ownerID domain.PersonID, typeTag, value string) error
	GetCardIdentities(ctx context.Context, ownerID domain.PersonID) (map[string]string, error)
}

// User is the slice of a user account that a link exposes.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// UserLinker finds user accounts for polymorphic links.
type UserLinker interface {
	FindUser(ctx context.Context, id string) (*User, error)
}
