package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"persona/internal/people/address"
	"persona/internal/people/family"
	"persona/internal/people/links"
	"persona/internal/people/metrics"
	"persona/internal/people/models"
	"persona/internal/people/normalize"
	"persona/internal/readcache"
	refmodels "persona/internal/reference/models"
	"persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
	"persona/pkg/platform/sentinel"
	pstrings "persona/pkg/platform/strings"
	"persona/pkg/requestcontext"
)

const tracerName = "persona/people"

// DefaultCardTypes is the identity-card allow-list used when none is injected.
var DefaultCardTypes = []string{"nik", "kk", "passport", "npwp", "bpjs", "sim"}

const (
	defaultFamilyIndexTTL = 24 * time.Hour
	defaultHookTimeout    = time.Second
)

// Service writes person aggregates and serves their cached reads.
type Service struct {
	tx          StoreTx
	reads       Stores
	references  ReferenceResolver
	links       *links.Registry
	family      *family.Resolver
	cache       *readcache.Cache
	cardTypes   map[string]struct{}
	familyTTL   time.Duration
	hooks       map[EntityType][]Hook
	hookTimeout time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCache fronts reads with cache and invalidates it after every write.
func WithCache(cache *readcache.Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithCardTypes sets the identity-card allow-list. Entries of other types are
// dropped on write and hidden on read.
func WithCardTypes(types []string) Option {
	return func(s *Service) {
		s.cardTypes = pstrings.Set(pstrings.DedupeAndTrimLower(types))
	}
}

// WithFamilyIndexTTL sets how long the family-contact index stays cached.
func WithFamilyIndexTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.familyTTL = ttl
		}
	}
}

// WithLinks sets the registry family-contact links are checked and loaded with.
func WithLinks(registry *links.Registry) Option {
	return func(s *Service) {
		s.links = registry
	}
}

// WithHook registers hook to run after commits touching entity.
func WithHook(entity EntityType, hook Hook) Option {
	return func(s *Service) {
		s.hooks[entity] = append(s.hooks[entity], hook)
	}
}

// WithHookTimeout bounds each post-commit hook call. A hook still running at
// the deadline sees its context cancelled and counts as failed.
func WithHookTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.hookTimeout = d
		}
	}
}

// New constructs a Service. reads are used outside transactions.
func New(tx StoreTx, reads Stores, references ReferenceResolver, opts ...Option) (*Service, error) {
	if tx == nil {
		return nil, errors.New("store tx is required")
	}
	if reads.Persons == nil || reads.Families == nil || reads.Addresses == nil || reads.Cards == nil {
		return nil, errors.New("read stores are required")
	}
	if references == nil {
		return nil, errors.New("reference resolver is required")
	}

	s := &Service{
		tx:          tx,
		reads:       reads,
		references:  references,
		cardTypes:   pstrings.Set(DefaultCardTypes),
		familyTTL:   defaultFamilyIndexTTL,
		hooks:       make(map[EntityType][]Hook),
		hookTimeout: defaultHookTimeout,
		logger:      slog.Default(),
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.links == nil {
		s.links = links.NewRegistry()
	}
	s.family = family.New(s.links)
	if s.cache != nil {
		invalidate := CacheInvalidation(s.cache)
		for _, entity := range []EntityType{EntityPeople, EntityFamilyRelationship} {
			s.hooks[entity] = append([]Hook{invalidate}, s.hooks[entity]...)
		}
	}
	return s, nil
}

// Store creates a person with its addresses, identity cards and family
// contact in one transaction.
func (s *Service) Store(ctx context.Context, sub *models.Submission) (*models.PersonView, error) {
	const op = "store"
	ctx, span := s.tracer.Start(ctx, "people.Store")
	defer span.End()
	start := time.Now()

	n, err := s.prepare(sub, normalize.ModeCreate)
	if err != nil {
		return nil, s.failed(ctx, span, op, err)
	}

	now := requestcontext.Now(ctx)
	id := n.ID
	if id.IsNil() {
		id = domain.NewPersonID()
	}
	person := &models.Person{ID: id, CreatedAt: now, UpdatedAt: now}
	n.Apply(person)
	if err := person.Validate(); err != nil {
		return nil, s.failed(ctx, span, op, dErrors.Wrap(err, dErrors.CodeValidation, err.Error()))
	}
	span.SetAttributes(attribute.String("person.id", id.String()))

	s.prefetchReferences(ctx, n)

	var familyChanged bool
	err = s.tx.RunInTx(ctx, func(ctx context.Context, stores Stores) error {
		if err := stores.Persons.Create(ctx, person); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Wrap(err, dErrors.CodeConflict, "person already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save person")
		}
		changed, err := s.writeDependents(ctx, stores, id, n, now)
		familyChanged = changed
		return err
	})
	if err != nil {
		return nil, s.failed(ctx, span, op, txError(err))
	}

	s.committed(ctx, OpPersonStored, id, now, familyChanged)
	if s.metrics != nil {
		s.metrics.IncrementStored()
		s.metrics.ObserveWrite(op, start)
	}
	s.logger.InfoContext(ctx, "person stored",
		"person_id", id,
		"family_changed", familyChanged,
		"request_id", requestcontext.RequestID(ctx),
	)
	return s.Get(ctx, id)
}

// Update applies a partial submission to an existing person. Omitted fields
// keep their stored values.
func (s *Service) Update(ctx context.Context, id domain.PersonID, sub *models.Submission) (*models.PersonView, error) {
	const op = "update"
	ctx, span := s.tracer.Start(ctx, "people.Update", trace.WithAttributes(attribute.String("person.id", id.String())))
	defer span.End()
	start := time.Now()

	n, err := s.prepare(sub, normalize.ModeUpdate)
	if err != nil {
		return nil, s.failed(ctx, span, op, err)
	}
	now := requestcontext.Now(ctx)

	s.prefetchReferences(ctx, n)

	var familyChanged bool
	err = s.tx.RunInTx(ctx, func(ctx context.Context, stores Stores) error {
		person, err := stores.Persons.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeNotFound, "person not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
		}
		n.Apply(person)
		person.UpdatedAt = now
		if err := person.Validate(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
		}
		if err := stores.Persons.Update(ctx, person); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update person")
		}
		changed, err := s.writeDependents(ctx, stores, id, n, now)
		familyChanged = changed
		return err
	})
	if err != nil {
		return nil, s.failed(ctx, span, op, txError(err))
	}

	s.committed(ctx, OpPersonUpdated, id, now, familyChanged)
	if s.metrics != nil {
		s.metrics.IncrementUpdated()
		s.metrics.ObserveWrite(op, start)
	}
	s.logger.InfoContext(ctx, "person updated",
		"person_id", id,
		"family_changed", familyChanged,
		"request_id", requestcontext.RequestID(ctx),
	)
	return s.Get(ctx, id)
}

// DeleteFamilyContact soft-deletes the person's live family contact.
func (s *Service) DeleteFamilyContact(ctx context.Context, personID domain.PersonID) error {
	const op = "delete_family"
	ctx, span := s.tracer.Start(ctx, "people.DeleteFamilyContact", trace.WithAttributes(attribute.String("person.id", personID.String())))
	defer span.End()

	now := requestcontext.Now(ctx)
	err := s.tx.RunInTx(ctx, func(ctx context.Context, stores Stores) error {
		if err := stores.Families.SoftDelete(ctx, personID, now); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeNotFound, "family contact not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete family contact")
		}
		return nil
	})
	if err != nil {
		return s.failed(ctx, span, op, txError(err))
	}

	s.afterCommit(ctx, OpFamilyContactDeleted, personID, now, EntityPeople, EntityFamilyRelationship)
	s.logger.InfoContext(ctx, "family contact deleted",
		"person_id", personID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// prepare runs every input check that needs no I/O, so bad input is rejected
// before a transaction opens.
func (s *Service) prepare(sub *models.Submission, mode normalize.Mode) (*models.NormalizedPerson, error) {
	n, err := normalize.Normalize(sub, mode)
	if err != nil {
		return nil, err
	}
	if err := s.family.Check(n.Family); err != nil {
		return nil, err
	}
	return n, nil
}

// prefetchReferences resolves the submitted reference IDs in parallel before
// the transaction opens. The results are not used here: resolving fills the
// resolver's TTL cache, so the enriched read that follows the commit labels
// the same references without another store round trip. Unknown IDs are kept
// on the row and only left out of that read.
func (s *Service) prefetchReferences(ctx context.Context, n *models.NormalizedPerson) {
	ctx, span := s.tracer.Start(ctx, "people.ResolveReferences")
	defer span.End()

	var refs []refmodels.Ref
	add := func(category refmodels.Category, id *domain.ReferenceID) {
		if id != nil && !id.IsNil() {
			refs = append(refs, refmodels.Ref{Category: category, ID: *id})
		}
	}
	add(refmodels.CategoryReligion, n.ReligionID)
	add(refmodels.CategoryEducation, n.LastEducationID)
	add(refmodels.CategoryMaritalStatus, n.MaritalStatusID)
	add(refmodels.CategoryCountry, n.CountryID)
	if f := n.Family; f != nil && f.HasRoleID() {
		roleID := f.RoleID()
		add(refmodels.CategoryFamilyRole, &roleID)
	}
	if len(refs) == 0 {
		return
	}

	resolved := s.references.ResolveMany(ctx, refs)
	span.SetAttributes(attribute.Int("refs.requested", len(refs)), attribute.Int("refs.resolved", len(resolved)))
	for _, ref := range refs {
		if _, ok := resolved[ref]; !ok {
			s.logger.DebugContext(ctx, "unresolved reference kept as given",
				"category", ref.Category,
				"reference_id", ref.ID,
			)
		}
	}
}

var addressRoles = []models.AddressRole{models.AddressRoleKTP, models.AddressRoleResidence}

// writeDependents persists addresses, identity cards and the family contact of
// personID. It reports whether the family contact changed.
func (s *Service) writeDependents(ctx context.Context, stores Stores, personID domain.PersonID, n *models.NormalizedPerson, now time.Time) (bool, error) {
	if n.Address != nil {
		byRole := address.FromInput(n.Address).ByRole()
		for _, role := range addressRoles {
			addr, ok := byRole[role]
			if !ok {
				continue
			}
			if _, err := stores.Addresses.SaveAddress(ctx, personID, role, addr); err != nil {
				return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save "+string(role)+" address")
			}
		}
	}

	if err := s.writeCards(ctx, stores, personID, n.CardIdentity); err != nil {
		return false, err
	}

	return s.writeFamily(ctx, stores, personID, n.Family, now)
}

func (s *Service) writeCards(ctx context.Context, stores Stores, personID domain.PersonID, cards map[string]string) error {
	types := make([]string, 0, len(cards))
	for typ := range cards {
		types = append(types, typ)
	}
	slices.Sort(types)

	dropped := 0
	for _, typ := range types {
		if _, ok := s.cardTypes[typ]; !ok {
			dropped++
			s.logger.DebugContext(ctx, "card identity type not allowed, dropped",
				"person_id", personID,
				"card_type", typ,
			)
			continue
		}
		if err := stores.Cards.SaveCardIdentity(ctx, personID, typ, cards[typ]); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save card identity")
		}
	}
	if dropped > 0 && s.metrics != nil {
		s.metrics.AddCardsDropped(dropped)
	}
	return nil
}

func (s *Service) writeFamily(ctx context.Context, stores Stores, personID domain.PersonID, in *models.FamilyInput, now time.Time) (bool, error) {
	if in.IsEmpty() {
		return false, nil
	}

	existing, err := stores.Families.FindByPerson(ctx, personID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load family contact")
	}

	contact, err := s.family.Resolve(ctx, in, personID, stores.References, now)
	if err != nil {
		return false, err
	}
	contact = family.Merge(existing, contact)
	if existing != nil && existing.SameContent(contact) {
		return false, nil
	}

	if err := stores.Families.Save(ctx, contact); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save family contact")
	}
	if s.metrics != nil {
		s.metrics.IncrementFamilyWritten()
	}
	return true, nil
}

func (s *Service) committed(ctx context.Context, op Op, id domain.PersonID, at time.Time, familyChanged bool) {
	touched := []EntityType{EntityPeople}
	if familyChanged {
		touched = append(touched, EntityFamilyRelationship)
	}
	s.afterCommit(ctx, op, id, at, touched...)
}

func (s *Service) failed(ctx context.Context, span trace.Span, op string, err error) error {
	code := dErrors.CodeInternal
	if de, ok := dErrors.As(err); ok {
		code = de.Code
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, string(code))
	if s.metrics != nil {
		s.metrics.IncrementFailure(op, string(code))
	}

	attrs := []any{"op", op, "code", code, "error", err, "request_id", requestcontext.RequestID(ctx)}
	if code == dErrors.CodeInternal || code == dErrors.CodeTimeout {
		s.logger.ErrorContext(ctx, "person write failed", attrs...)
	} else {
		s.logger.WarnContext(ctx, "person write rejected", attrs...)
	}
	return err
}

// txError keeps coded errors and wraps anything else as an opaque storage
// failure.
func txError(err error) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist person")
}
