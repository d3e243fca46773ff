package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"persona/internal/people/models"
	"persona/pkg/domain"
	"persona/pkg/platform/sentinel"
)

// PersonStore keeps person rows.
type PersonStore struct {
	db *Database
}

func NewPersonStore(db *Database) *PersonStore {
	return &PersonStore{db: db}
}

func (s *PersonStore) Create(_ context.Context, p *models.Person) error {
	return s.db.write(func(t *tables) error {
		if _, exists := t.persons[p.ID]; exists {
			return sentinel.ErrConflict
		}
		t.persons[p.ID] = p.Clone()
		return nil
	})
}

func (s *PersonStore) Update(_ context.Context, p *models.Person) error {
	return s.db.write(func(t *tables) error {
		if _, exists := t.persons[p.ID]; !exists {
			return sentinel.ErrNotFound
		}
		t.persons[p.ID] = p.Clone()
		return nil
	})
}

func (s *PersonStore) FindByID(_ context.Context, id domain.PersonID) (*models.Person, error) {
	var out *models.Person
	s.db.read(func(t *tables) {
		out = t.persons[id].Clone()
	})
	if out == nil {
		return nil, sentinel.ErrNotFound
	}
	return out, nil
}

// FindByIDForUpdate is FindByID; Atomic already serializes writers.
func (s *PersonStore) FindByIDForUpdate(ctx context.Context, id domain.PersonID) (*models.Person, error) {
	return s.FindByID(ctx, id)
}

// List pages persons in ID order, filtered by a case-insensitive name match.
func (s *PersonStore) List(_ context.Context, q models.ListQuery) ([]*models.Person, int, error) {
	q = q.Normalized()
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	var matched []*models.Person
	s.db.read(func(t *tables) {
		for _, p := range t.persons {
			if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
				matched = append(matched, p)
			}
		}
	})
	slices.SortFunc(matched, func(a, b *models.Person) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	total := len(matched)
	page := window(matched, q)
	out := make([]*models.Person, len(page))
	for i, p := range page {
		out[i] = p.Clone()
	}
	return out, total, nil
}

// FamilyStore keeps family contacts. At most one live contact per person.
type FamilyStore struct {
	db *Database
}

func NewFamilyStore(db *Database) *FamilyStore {
	return &FamilyStore{db: db}
}

func (s *FamilyStore) FindByPerson(_ context.Context, personID domain.PersonID) (*models.FamilyContact, error) {
	var out *models.FamilyContact
	s.db.read(func(t *tables) {
		out = liveContact(t, personID).Clone()
	})
	if out == nil {
		return nil, sentinel.ErrNotFound
	}
	return out, nil
}

// Save inserts or replaces c by ID. A different live contact of the same
// person is a conflict.
func (s *FamilyStore) Save(_ context.Context, c *models.FamilyContact) error {
	return s.db.write(func(t *tables) error {
		if live := liveContact(t, c.PersonID); live != nil && live.ID != c.ID {
			return sentinel.ErrConflict
		}
		t.families[c.ID] = c.Clone()
		return nil
	})
}

func (s *FamilyStore) SoftDelete(_ context.Context, personID domain.PersonID, at time.Time) error {
	return s.db.write(func(t *tables) error {
		live := liveContact(t, personID)
		if live == nil {
			return sentinel.ErrNotFound
		}
		deleted := live.Clone()
		deleted.DeletedAt = &at
		deleted.UpdatedAt = at
		t.families[deleted.ID] = deleted
		return nil
	})
}

// List pages live contacts in ID order, filtered by contact name.
func (s *FamilyStore) List(_ context.Context, q models.ListQuery) ([]*models.FamilyContact, int, error) {
	q = q.Normalized()
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	var matched []*models.FamilyContact
	s.db.read(func(t *tables) {
		for _, c := range t.families {
			if c.IsDeleted() {
				continue
			}
			if needle == "" || strings.Contains(strings.ToLower(c.Name), needle) {
				matched = append(matched, c)
			}
		}
	})
	slices.SortFunc(matched, func(a, b *models.FamilyContact) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	total := len(matched)
	page := window(matched, q)
	out := make([]*models.FamilyContact, len(page))
	for i, c := range page {
		out[i] = c.Clone()
	}
	return out, total, nil
}

func liveContact(t *tables, personID domain.PersonID) *models.FamilyContact {
	for _, c := range t.families {
		if c.PersonID == personID && !c.IsDeleted() {
			return c
		}
	}
	return nil
}

func window[T any](items []T, q models.ListQuery) []T {
	if q.Offset >= len(items) {
		return nil
	}
	end := min(q.Offset+q.Limit, len(items))
	return items[q.Offset:end]
}
