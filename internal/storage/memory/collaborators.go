package memory

import (
	"context"
	"errors"
	"time"

	"persona/internal/people/models"
	"persona/internal/people/ports"
	"persona/pkg/domain"
	"persona/pkg/platform/sentinel"
)

// AddressStore is a local stand-in for the address collaborator.
type AddressStore struct {
	db  *Database
	now func() time.Time
}

func NewAddressStore(db *Database) *AddressStore {
	return &AddressStore{db: db, now: time.Now}
}

// SaveAddress replaces the owner's address of role, keeping its record ID.
func (s *AddressStore) SaveAddress(_ context.Context, ownerID domain.PersonID, role models.AddressRole, addr *models.Address) (*models.AddressRecord, error) {
	if addr == nil {
		return nil, errors.New("address payload is required")
	}
	var out models.AddressRecord
	err := s.db.write(func(t *tables) error {
		now := s.now()
		byRole := t.addresses[ownerID]
		if byRole == nil {
			byRole = make(map[models.AddressRole]*models.AddressRecord)
			t.addresses[ownerID] = byRole
		}
		rec := &models.AddressRecord{
			ID:        domain.NewAddressID(),
			OwnerID:   ownerID,
			Role:      role,
			Address:   *addr.Clone(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if prev, ok := byRole[role]; ok {
			rec.ID = prev.ID
			rec.CreatedAt = prev.CreatedAt
		}
		byRole[role] = rec
		out = copyRecord(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AddressStore) GetAddresses(_ context.Context, ownerID domain.PersonID) (map[models.AddressRole]*models.AddressRecord, error) {
	out := make(map[models.AddressRole]*models.AddressRecord)
	s.db.read(func(t *tables) {
		for role, rec := range t.addresses[ownerID] {
			c := copyRecord(rec)
			out[role] = &c
		}
	})
	return out, nil
}

func copyRecord(rec *models.AddressRecord) models.AddressRecord {
	c := *rec
	c.Address = *rec.Address.Clone()
	return c
}

// CardStore is a local stand-in for the identity-card collaborator.
type CardStore struct {
	db *Database
}

func NewCardStore(db *Database) *CardStore {
	return &CardStore{db: db}
}

func (s *CardStore) SaveCardIdentity(_ context.Context, ownerID domain.PersonID, typeTag, value string) error {
	return s.db.write(func(t *tables) error {
		byType := t.cards[ownerID]
		if byType == nil {
			byType = make(map[string]string)
			t.cards[ownerID] = byType
		}
		byType[typeTag] = value
		return nil
	})
}

func (s *CardStore) GetCardIdentities(_ context.Context, ownerID domain.PersonID) (map[string]string, error) {
	out := make(map[string]string)
	s.db.read(func(t *tables) {
		for typ, v := range t.cards[ownerID] {
			out[typ] = v
		}
	})
	return out, nil
}

// UserDirectory is a local stand-in for the user module.
type UserDirectory struct {
	db *Database
}

func NewUserDirectory(db *Database) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) Put(_ context.Context, u *ports.User) error {
	return d.db.write(func(t *tables) error {
		c := *u
		t.users[u.ID] = &c
		return nil
	})
}

func (d *UserDirectory) FindUser(_ context.Context, id string) (*ports.User, error) {
	var out *ports.User
	d.db.read(func(t *tables) {
		if u, ok := t.users[id]; ok {
			c := *u
			out = &c
		}
	})
	if out == nil {
		return nil, sentinel.ErrNotFound
	}
	return out, nil
}
