package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"persona/internal/reference/models"
	"persona/pkg/domain"
	"persona/pkg/platform/sentinel"
)

// ReferenceStore persists reference entities of every category in one table.
type ReferenceStore struct {
	db *sql.DB
}

func NewReferenceStore(db *sql.DB) *ReferenceStore {
	return &ReferenceStore{db: db}
}

func (s *ReferenceStore) FindByID(ctx context.Context, category models.Category, id domain.ReferenceID) (*models.Entity, error) {
	e, err := scanEntity(querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, category, label, weight FROM reference_entities WHERE id = $1 AND category = $2`,
		id.String(), string(category),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find reference: %w", err)
	}
	return e, nil
}

func (s *ReferenceStore) ListByCategory(ctx context.Context, category models.Category) ([]*models.Entity, error) {
	rows, err := querier(ctx, s.db).QueryContext(ctx,
		`SELECT id, category, label, weight FROM reference_entities WHERE category = $1`,
		string(category),
	)
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer rows.Close()

	var out []*models.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	return out, nil
}

func (s *ReferenceStore) Create(ctx context.Context, e *models.Entity) error {
	var weight sql.NullInt64
	if e.Weight != nil {
		weight = sql.NullInt64{Int64: int64(*e.Weight), Valid: true}
	}
	_, err := querier(ctx, s.db).ExecContext(ctx,
		`INSERT INTO reference_entities (id, category, label, weight) VALUES ($1, $2, $3, $4)`,
		e.ID.String(), string(e.Category), e.Label, weight,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert reference: %w", err)
	}
	return nil
}

func scanEntity(row scanner) (*models.Entity, error) {
	var (
		e            models.Entity
		id, category string
		weight       sql.NullInt64
	)
	if err := row.Scan(&id, &category, &e.Label, &weight); err != nil {
		return nil, err
	}
	e.ID = domain.ReferenceID(id)
	e.Category = models.Category(category)
	if weight.Valid {
		w := int(weight.Int64)
		e.Weight = &w
	}
	return &e, nil
}
