package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"persona/internal/people/models"
	"persona/pkg/domain"
	"persona/pkg/platform/sentinel"
)

const personColumns = `id, uuid, name, first_name, last_name, sex, dob, pob, blood_type,
	mother_name, father_name, total_children, is_nationality,
	religion_id, last_education_id, marital_status_id, country_id,
	phones, props, created_at, updated_at`

// PersonStore persists person rows.
type PersonStore struct {
	db *sql.DB
}

func NewPersonStore(db *sql.DB) *PersonStore {
	return &PersonStore{db: db}
}

func (s *PersonStore) Create(ctx context.Context, p *models.Person) error {
	args, err := personArgs(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO people (` + personColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	if _, err := querier(ctx, s.db).ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (s *PersonStore) Update(ctx context.Context, p *models.Person) error {
	args, err := personArgs(p)
	if err != nil {
		return err
	}
	query := `UPDATE people SET
			uuid = $2, name = $3, first_name = $4, last_name = $5, sex = $6, dob = $7, pob = $8,
			blood_type = $9, mother_name = $10, father_name = $11, total_children = $12,
			is_nationality = $13, religion_id = $14, last_education_id = $15,
			marital_status_id = $16, country_id = $17, phones = $18, props = $19, updated_at = $20
		WHERE id = $1`
	// created_at is never rewritten.
	args = append(args[:19], p.UpdatedAt)
	res, err := querier(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update person: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PersonStore) FindByID(ctx context.Context, id domain.PersonID) (*models.Person, error) {
	return s.find(ctx, `SELECT `+personColumns+` FROM people WHERE id = $1`, id)
}

// FindByIDForUpdate locks the row until the enclosing transaction ends.
func (s *PersonStore) FindByIDForUpdate(ctx context.Context, id domain.PersonID) (*models.Person, error) {
	return s.find(ctx, `SELECT `+personColumns+` FROM people WHERE id = $1 FOR UPDATE`, id)
}

func (s *PersonStore) find(ctx context.Context, query string, id domain.PersonID) (*models.Person, error) {
	p, err := scanPerson(querier(ctx, s.db).QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find person: %w", err)
	}
	return p, nil
}

// List pages people in ID order, filtered by a case-insensitive name match.
func (s *PersonStore) List(ctx context.Context, q models.ListQuery) ([]*models.Person, int, error) {
	q = q.Normalized()
	pattern := likePattern(q.Search)
	db := querier(ctx, s.db)

	var total int
	if err := db.QueryRowContext(ctx,
		`SELECT count(*) FROM people WHERE lower(name) LIKE $1`, pattern,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count people: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE lower(name) LIKE $1 ORDER BY id LIMIT $2 OFFSET $3`,
		pattern, q.Limit, q.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var out []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list people: %w", err)
	}
	return out, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func personArgs(p *models.Person) ([]any, error) {
	props, err := marshalProps(p.Props)
	if err != nil {
		return nil, err
	}
	var id uuid.NullUUID
	if p.UUID != nil {
		id = uuid.NullUUID{UUID: *p.UUID, Valid: true}
	}
	var dob sql.NullTime
	if !p.DOB.IsZero() {
		dob = sql.NullTime{Time: p.DOB, Valid: true}
	}
	phones := p.Phones
	if phones == nil {
		phones = []string{}
	}
	return []any{
		p.ID.String(), id, p.Name, p.FirstName, p.LastName, string(p.Sex), dob, p.POB,
		string(p.BloodType), p.MotherName, p.FatherName, p.TotalChildren, p.IsNationality,
		refArg(p.ReligionID), refArg(p.LastEducationID), refArg(p.MaritalStatusID), refArg(p.CountryID),
		pq.Array(phones), props, p.CreatedAt, p.UpdatedAt,
	}, nil
}

func scanPerson(row scanner) (*models.Person, error) {
	var (
		p                                     models.Person
		id, sex, bloodType                    string
		pid                                   uuid.NullUUID
		dob                                   sql.NullTime
		religion, education, marital, country sql.NullString
		phones                                []string
		props                                 []byte
	)
	if err := row.Scan(
		&id, &pid, &p.Name, &p.FirstName, &p.LastName, &sex, &dob, &p.POB,
		&bloodType, &p.MotherName, &p.FatherName, &p.TotalChildren, &p.IsNationality,
		&religion, &education, &marital, &country,
		pq.Array(&phones), &props, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.ID = domain.PersonID(id)
	if pid.Valid {
		u := pid.UUID
		p.UUID = &u
	}
	p.Sex = models.Sex(sex)
	p.BloodType = models.BloodType(bloodType)
	if dob.Valid {
		p.DOB = time.Date(dob.Time.Year(), dob.Time.Month(), dob.Time.Day(), 0, 0, 0, 0, time.UTC)
	}
	p.ReligionID = refValue(religion)
	p.LastEducationID = refValue(education)
	p.MaritalStatusID = refValue(marital)
	p.CountryID = refValue(country)
	if len(phones) > 0 {
		p.Phones = phones
	}
	var err error
	if p.Props, err = unmarshalProps(props); err != nil {
		return nil, err
	}
	return &p, nil
}

func likePattern(search string) string {
	search = strings.ToLower(strings.TrimSpace(search))
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(search) + "%"
}

const familyColumns = `id, person_id, name, phone, sex, family_role_id, link_type, link_id, created_at, updated_at, deleted_at`

// FamilyStore persists family contacts. A partial unique index keeps at most
// one live contact per person.
type FamilyStore struct {
	db *sql.DB
}

func NewFamilyStore(db *sql.DB) *FamilyStore {
	return &FamilyStore{db: db}
}

func (s *FamilyStore) FindByPerson(ctx context.Context, personID domain.PersonID) (*models.FamilyContact, error) {
	c, err := scanFamily(querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+familyColumns+` FROM family_contacts WHERE person_id = $1 AND deleted_at IS NULL`,
		personID.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find family contact: %w", err)
	}
	return c, nil
}

// Save inserts or replaces c by ID.
func (s *FamilyStore) Save(ctx context.Context, c *models.FamilyContact) error {
	var linkType, linkID sql.NullString
	if c.Link != nil {
		linkType = sql.NullString{String: c.Link.Type, Valid: true}
		linkID = sql.NullString{String: c.Link.ID, Valid: true}
	}
	var deletedAt sql.NullTime
	if c.DeletedAt != nil {
		deletedAt = sql.NullTime{Time: *c.DeletedAt, Valid: true}
	}

	query := `INSERT INTO family_contacts (` + familyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			sex = EXCLUDED.sex,
			family_role_id = EXCLUDED.family_role_id,
			link_type = EXCLUDED.link_type,
			link_id = EXCLUDED.link_id,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at`
	_, err := querier(ctx, s.db).ExecContext(ctx, query,
		c.ID.String(), c.PersonID.String(), c.Name, c.Phone, string(c.Sex), c.FamilyRoleID.String(),
		linkType, linkID, c.CreatedAt, c.UpdatedAt, deletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save family contact: %w", err)
	}
	return nil
}

func (s *FamilyStore) SoftDelete(ctx context.Context, personID domain.PersonID, at time.Time) error {
	res, err := querier(ctx, s.db).ExecContext(ctx,
		`UPDATE family_contacts SET deleted_at = $2, updated_at = $2 WHERE person_id = $1 AND deleted_at IS NULL`,
		personID.String(), at,
	)
	if err != nil {
		return fmt.Errorf("soft delete family contact: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// List pages live contacts in ID order, filtered by contact name.
func (s *FamilyStore) List(ctx context.Context, q models.ListQuery) ([]*models.FamilyContact, int, error) {
	q = q.Normalized()
	pattern := likePattern(q.Search)
	db := querier(ctx, s.db)

	var total int
	if err := db.QueryRowContext(ctx,
		`SELECT count(*) FROM family_contacts WHERE deleted_at IS NULL AND lower(name) LIKE $1`, pattern,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count family contacts: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+familyColumns+` FROM family_contacts
		WHERE deleted_at IS NULL AND lower(name) LIKE $1
		ORDER BY id LIMIT $2 OFFSET $3`,
		pattern, q.Limit, q.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list family contacts: %w", err)
	}
	defer rows.Close()

	var out []*models.FamilyContact
	for rows.Next() {
		c, err := scanFamily(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan family contact: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list family contacts: %w", err)
	}
	return out, total, nil
}

func scanFamily(row scanner) (*models.FamilyContact, error) {
	var (
		c                    models.FamilyContact
		id, personID, roleID string
		sex                  string
		linkType, linkID     sql.NullString
		deletedAt            sql.NullTime
	)
	if err := row.Scan(
		&id, &personID, &c.Name, &c.Phone, &sex, &roleID,
		&linkType, &linkID, &c.CreatedAt, &c.UpdatedAt, &deletedAt,
	); err != nil {
		return nil, err
	}
	c.ID = domain.FamilyContactID(id)
	c.PersonID = domain.PersonID(personID)
	c.Sex = models.Sex(sex)
	c.FamilyRoleID = domain.ReferenceID(roleID)
	if linkType.Valid {
		c.Link = &models.Link{Type: linkType.String, ID: linkID.String}
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		c.DeletedAt = &t
	}
	return &c, nil
}
