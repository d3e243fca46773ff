package service

import (
	"context"
	"time"

	"persona/internal/storage/memory"
	dErrors "persona/pkg/domain-errors"
)

// defaultTxTimeout is the maximum duration of a person write.
const defaultTxTimeout = 5 * time.Second

type inMemoryTx struct {
	db      *memory.Database
	timeout time.Duration
}

// NewInMemoryTx runs units of work against a snapshot of db that is published
// only on success.
func NewInMemoryTx(db *memory.Database, timeout time.Duration) StoreTx {
	return &inMemoryTx{db: db, timeout: timeout}
}

func (t *inMemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return t.db.Atomic(ctx, func(view *memory.Database) error {
		return fn(ctx, InMemoryStores(view))
	})
}

// InMemoryStores binds every store to db.
func InMemoryStores(db *memory.Database) Stores {
	return Stores{
		Persons:    memory.NewPersonStore(db),
		Families:   memory.NewFamilyStore(db),
		References: memory.NewReferenceStore(db),
		Addresses:  memory.NewAddressStore(db),
		Cards:      memory.NewCardStore(db),
	}
}
