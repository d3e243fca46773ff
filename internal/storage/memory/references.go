package memory

import (
	"context"

	"persona/internal/reference/models"
	"persona/pkg/domain"
	"persona/pkg/platform/sentinel"
)

// ReferenceStore keeps the shared reference table.
type ReferenceStore struct {
	db *Database
}

func NewReferenceStore(db *Database) *ReferenceStore {
	return &ReferenceStore{db: db}
}

func (s *ReferenceStore) FindByID(_ context.Context, category models.Category, id domain.ReferenceID) (*models.Entity, error) {
	var out *models.Entity
	s.db.read(func(t *tables) {
		if e, ok := t.references[id]; ok && e.Category == category {
			c := *e
			out = &c
		}
	})
	if out == nil {
		return nil, sentinel.ErrNotFound
	}
	return out, nil
}

func (s *ReferenceStore) ListByCategory(_ context.Context, category models.Category) ([]*models.Entity, error) {
	var out []*models.Entity
	s.db.read(func(t *tables) {
		for _, e := range t.references {
			if e.Category == category {
				c := *e
				out = append(out, &c)
			}
		}
	})
	return out, nil
}

func (s *ReferenceStore) Create(_ context.Context, e *models.Entity) error {
	return s.db.write(func(t *tables) error {
		if _, exists := t.references[e.ID]; exists {
			return sentinel.ErrConflict
		}
		c := *e
		t.references[e.ID] = &c
		return nil
	})
}
