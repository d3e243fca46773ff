// Package postgres persists person aggregates, their collaborators' records
// and reference tables in PostgreSQL.
//
// Every store resolves its querier from context, so stores constructed once
// over *sql.DB join whatever transaction the caller opened with tx.WithTx.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"persona/pkg/domain"
	txcontext "persona/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// Tables lists every table in dependency order, children first.
var Tables = []string{"card_identities", "addresses", "family_contacts", "people", "reference_entities", "users"}

// Migrate creates the schema if it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func querier(ctx context.Context, db *sql.DB) txcontext.Querier {
	return txcontext.QuerierFrom(ctx, db)
}

func marshalProps(props map[string]any) ([]byte, error) {
	if len(props) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("marshal props: %w", err)
	}
	return b, nil
}

func unmarshalProps(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var props map[string]any
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("unmarshal props: %w", err)
	}
	return props, nil
}

func refArg(id *domain.ReferenceID) sql.NullString {
	if id == nil || id.IsNil() {
		return sql.NullString{}
	}
	return sql.NullString{String: id.String(), Valid: true}
}

func refValue(v sql.NullString) *domain.ReferenceID {
	if !v.Valid || v.String == "" {
		return nil
	}
	id := domain.ReferenceID(v.String)
	return &id
}
