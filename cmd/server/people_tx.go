package main

import (
	"context"
	"database/sql"
	"time"

	peopleservice "persona/internal/people/service"
	"persona/internal/storage/postgres"
	dErrors "persona/pkg/domain-errors"
	txcontext "persona/pkg/platform/tx"
)

const defaultPeopleTxTimeout = 5 * time.Second

// peoplePostgresTx runs a person write in one SQL transaction. The stores
// resolve their querier from context, so collaborator writes join it too.
type peoplePostgresTx struct {
	db      *sql.DB
	stores  peopleservice.Stores
	timeout time.Duration
}

func newPeoplePostgresTx(db *sql.DB, timeout time.Duration) *peoplePostgresTx {
	return &peoplePostgresTx{db: db, stores: postgresStores(db), timeout: timeout}
}

func (t *peoplePostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context, stores peopleservice.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultPeopleTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx), t.stores); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if ctx.Err() != nil {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: deadline exceeded")
		}
		return err
	}
	return nil
}

func postgresStores(db *sql.DB) peopleservice.Stores {
	return peopleservice.Stores{
		Persons:    postgres.NewPersonStore(db),
		Families:   postgres.NewFamilyStore(db),
		References: postgres.NewReferenceStore(db),
		Addresses:  postgres.NewAddressStore(db),
		Cards:      postgres.NewCardStore(db),
	}
}
