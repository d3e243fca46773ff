// Package memory is the in-process storage used when no DATABASE_URL is set
// and by service tests. All feature stores share one Database so a single
// Atomic call spans every table.
package memory

import (
	"context"
	"maps"
	"sync"

	pmodels "persona/internal/people/models"
	"persona/internal/people/ports"
	refmodels "persona/internal/reference/models"
	"persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
)

type tables struct {
	persons    map[domain.PersonID]*pmodels.Person
	families   map[domain.FamilyContactID]*pmodels.FamilyContact
	references map[domain.ReferenceID]*refmodels.Entity
	addresses  map[domain.PersonID]map[pmodels.AddressRole]*pmodels.AddressRecord
	cards      map[domain.PersonID]map[string]string
	users      map[string]*ports.User
}

func newTables() *tables {
	return &tables{
		persons:    make(map[domain.PersonID]*pmodels.Person),
		families:   make(map[domain.FamilyContactID]*pmodels.FamilyContact),
		references: make(map[domain.ReferenceID]*refmodels.Entity),
		addresses:  make(map[domain.PersonID]map[pmodels.AddressRole]*pmodels.AddressRecord),
		cards:      make(map[domain.PersonID]map[string]string),
		users:      make(map[string]*ports.User),
	}
}

// clone copies every map. Row values are never mutated in place, so sharing
// them between snapshots is safe.
func (t *tables) clone() *tables {
	c := &tables{
		persons:    maps.Clone(t.persons),
		families:   maps.Clone(t.families),
		references: maps.Clone(t.references),
		addresses:  make(map[domain.PersonID]map[pmodels.AddressRole]*pmodels.AddressRecord, len(t.addresses)),
		cards:      make(map[domain.PersonID]map[string]string, len(t.cards)),
		users:      maps.Clone(t.users),
	}
	for id, byRole := range t.addresses {
		c.addresses[id] = maps.Clone(byRole)
	}
	for id, byType := range t.cards {
		c.cards[id] = maps.Clone(byType)
	}
	return c
}

// Database holds every in-memory table. Writes made outside Atomic (seeding)
// must not overlap a running transaction.
type Database struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *tables
}

func NewDatabase() *Database {
	return &Database{data: newTables()}
}

// Atomic runs fn against a private snapshot and publishes it only when fn
// succeeds. Transactions are serialized; readers keep seeing the last
// published snapshot while one runs.
func (db *Database) Atomic(ctx context.Context, fn func(view *Database) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	db.mu.RLock()
	view := &Database{data: db.data.clone()}
	db.mu.RUnlock()

	if err := fn(view); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	db.mu.Lock()
	db.data = view.data
	db.mu.Unlock()
	return nil
}

func (db *Database) read(fn func(t *tables)) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	fn(db.data)
}

func (db *Database) write(fn func(t *tables) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(db.data)
}
