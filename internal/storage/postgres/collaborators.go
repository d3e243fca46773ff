package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"persona/internal/people/models"
	"persona/internal/people/ports"
	"persona/pkg/domain"
	"persona/pkg/platform/sentinel"
)

// AddressStore is the PostgreSQL address collaborator. One row per owner and role.
type AddressStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewAddressStore(db *sql.DB) *AddressStore {
	return &AddressStore{db: db, now: time.Now}
}

// SaveAddress replaces the owner's address of role, keeping its record ID.
func (s *AddressStore) SaveAddress(ctx context.Context, ownerID domain.PersonID, role models.AddressRole, addr *models.Address) (*models.AddressRecord, error) {
	if addr == nil {
		return nil, errors.New("address payload is required")
	}
	props, err := marshalProps(addr.Props)
	if err != nil {
		return nil, err
	}

	now := s.now()
	query := `INSERT INTO addresses (id, owner_id, role, street, rt, rw, village, district, city, province, postal_code, props, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		ON CONFLICT (owner_id, role) DO UPDATE SET
			street = EXCLUDED.street,
			rt = EXCLUDED.rt,
			rw = EXCLUDED.rw,
			village = EXCLUDED.village,
			district = EXCLUDED.district,
			city = EXCLUDED.city,
			province = EXCLUDED.province,
			postal_code = EXCLUDED.postal_code,
			props = EXCLUDED.props,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

	rec := &models.AddressRecord{OwnerID: ownerID, Role: role, Address: *addr.Clone()}
	var id string
	err = querier(ctx, s.db).QueryRowContext(ctx, query,
		domain.NewAddressID().String(), ownerID.String(), string(role),
		addr.Street, addr.RT, addr.RW, addr.Village, addr.District, addr.City, addr.Province, addr.PostalCode,
		props, now,
	).Scan(&id, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("save address: %w", err)
	}
	rec.ID = domain.AddressID(id)
	return rec, nil
}

func (s *AddressStore) GetAddresses(ctx context.Context, ownerID domain.PersonID) (map[models.AddressRole]*models.AddressRecord, error) {
	rows, err := querier(ctx, s.db).QueryContext(ctx,
		`SELECT id, role, street, rt, rw, village, district, city, province, postal_code, props, created_at, updated_at
		FROM addresses WHERE owner_id = $1`,
		ownerID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("get addresses: %w", err)
	}
	defer rows.Close()

	out := make(map[models.AddressRole]*models.AddressRecord)
	for rows.Next() {
		var (
			rec      models.AddressRecord
			id, role string
			props    []byte
		)
		a := &rec.Address
		if err := rows.Scan(&id, &role, &a.Street, &a.RT, &a.RW, &a.Village, &a.District, &a.City,
			&a.Province, &a.PostalCode, &props, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		if a.Props, err = unmarshalProps(props); err != nil {
			return nil, err
		}
		rec.ID = domain.AddressID(id)
		rec.OwnerID = ownerID
		rec.Role = models.AddressRole(role)
		out[rec.Role] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get addresses: %w", err)
	}
	return out, nil
}

// CardStore is the PostgreSQL identity-card collaborator.
type CardStore struct {
	db *sql.DB
}

func NewCardStore(db *sql.DB) *CardStore {
	return &CardStore{db: db}
}

func (s *CardStore) SaveCardIdentity(ctx context.Context, ownerID domain.PersonID, typeTag, value string) error {
	_, err := querier(ctx, s.db).ExecContext(ctx,
		`INSERT INTO card_identities (owner_id, type, value, updated_at) VALUES ($1, $2, $3, now())
		ON CONFLICT (owner_id, type) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		ownerID.String(), typeTag, value,
	)
	if err != nil {
		return fmt.Errorf("save card identity: %w", err)
	}
	return nil
}

func (s *CardStore) GetCardIdentities(ctx context.Context, ownerID domain.PersonID) (map[string]string, error) {
	rows, err := querier(ctx, s.db).QueryContext(ctx,
		`SELECT type, value FROM card_identities WHERE owner_id = $1`,
		ownerID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("get card identities: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var typ, value string
		if err := rows.Scan(&typ, &value); err != nil {
			return nil, fmt.Errorf("scan card identity: %w", err)
		}
		out[typ] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get card identities: %w", err)
	}
	return out, nil
}

// UserDirectory reads user accounts for family-contact links.
type UserDirectory struct {
	db *sql.DB
}

func NewUserDirectory(db *sql.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) Put(ctx context.Context, u *ports.User) error {
	_, err := querier(ctx, d.db).ExecContext(ctx,
		`INSERT INTO users (id, name, email) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email`,
		u.ID, u.Name, u.Email,
	)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (d *UserDirectory) FindUser(ctx context.Context, id string) (*ports.User, error) {
	var u ports.User
	err := querier(ctx, d.db).QueryRowContext(ctx,
		`SELECT id, name, email FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
