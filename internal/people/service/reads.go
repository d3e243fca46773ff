package service

import (
	"context"
	"errors"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"persona/internal/people/address"
	"persona/internal/people/models"
	"persona/internal/readcache"
	refmodels "persona/internal/reference/models"
	"persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
	"persona/pkg/platform/sentinel"
	"persona/pkg/requestcontext"
)

var (
	detailTags = []string{string(EntityPeople), string(EntityFamilyRelationship)}
	indexTags  = []string{string(EntityPeople)}
	familyTags = []string{string(EntityFamilyRelationship)}
)

// Get returns the enriched view of a person. Age is computed on every call.
func (s *Service) Get(ctx context.Context, id domain.PersonID) (*models.PersonView, error) {
	ctx, span := s.tracer.Start(ctx, "people.Get", trace.WithAttributes(attribute.String("person.id", id.String())))
	defer span.End()

	key := readcache.Key("people", "detail", id.String())
	view, err := readcache.GetOrCompute(ctx, s.cache, key, detailTags, readcache.Forever, func(ctx context.Context) (*models.PersonView, error) {
		return s.buildView(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	view.Age = models.AgeAt(models.ParseDOBString(view.DOB), requestcontext.Now(ctx))
	view.CardIdentity = s.allowedCards(view.CardIdentity)
	return view, nil
}

// List pages the person index.
func (s *Service) List(ctx context.Context, q models.ListQuery) (*models.Page[*models.PersonSummary], error) {
	q = q.Normalized()
	key := readcache.Key("people", "index", q.Search, strconv.Itoa(q.Limit), strconv.Itoa(q.Offset))
	page, err := readcache.GetOrCompute(ctx, s.cache, key, indexTags, readcache.Forever, func(ctx context.Context) (*models.Page[*models.PersonSummary], error) {
		persons, total, err := s.reads.Persons.List(ctx, q)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list people")
		}
		items := make([]*models.PersonSummary, 0, len(persons))
		for _, p := range persons {
			items = append(items, &models.PersonSummary{
				ID:        p.ID,
				Name:      p.Name,
				Sex:       p.Sex,
				DOB:       models.DOBString(p.DOB),
				Phones:    nonNil(p.Phones),
				CreatedAt: p.CreatedAt,
			})
		}
		return &models.Page[*models.PersonSummary]{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
	})
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	for _, item := range page.Items {
		item.Age = models.AgeAt(models.ParseDOBString(item.DOB), now)
	}
	return page, nil
}

// ListFamilyContacts pages the live family contacts of every person.
func (s *Service) ListFamilyContacts(ctx context.Context, q models.ListQuery) (*models.Page[*models.FamilyContactView], error) {
	q = q.Normalized()
	key := readcache.Key("family_relationship", "index", q.Search, strconv.Itoa(q.Limit), strconv.Itoa(q.Offset))
	return readcache.GetOrCompute(ctx, s.cache, key, familyTags, readcache.For(s.familyTTL), func(ctx context.Context) (*models.Page[*models.FamilyContactView], error) {
		contacts, total, err := s.reads.Families.List(ctx, q)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list family contacts")
		}

		refs := make([]refmodels.Ref, 0, len(contacts))
		for _, c := range contacts {
			if !c.FamilyRoleID.IsNil() {
				refs = append(refs, refmodels.Ref{Category: refmodels.CategoryFamilyRole, ID: c.FamilyRoleID})
			}
		}
		resolved := s.references.ResolveMany(ctx, refs)

		items := make([]*models.FamilyContactView, 0, len(contacts))
		for _, c := range contacts {
			items = append(items, s.familyView(ctx, c, resolved))
		}
		return &models.Page[*models.FamilyContactView]{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
	})
}

func (s *Service) buildView(ctx context.Context, id domain.PersonID) (*models.PersonView, error) {
	p, err := s.reads.Persons.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "person not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
	}

	records, err := s.reads.Addresses.GetAddresses(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load addresses")
	}
	cards, err := s.reads.Cards.GetCardIdentities(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load card identities")
	}
	contact, err := s.reads.Families.FindByPerson(ctx, id)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load family contact")
	}

	refs := personRefs(p)
	if contact != nil && !contact.FamilyRoleID.IsNil() {
		refs = append(refs, refmodels.Ref{Category: refmodels.CategoryFamilyRole, ID: contact.FamilyRoleID})
	}
	resolved := s.references.ResolveMany(ctx, refs)
	label := func(category refmodels.Category, ref *domain.ReferenceID) *refmodels.Label {
		if ref == nil {
			return nil
		}
		return resolved[refmodels.Ref{Category: category, ID: *ref}].AsLabel()
	}

	view := &models.PersonView{
		ID:              p.ID,
		Name:            p.Name,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Sex:             p.Sex,
		DOB:             models.DOBString(p.DOB),
		POB:             p.POB,
		BloodType:       p.BloodType,
		MotherName:      p.MotherName,
		FatherName:      p.FatherName,
		TotalChildren:   p.TotalChildren,
		IsNationality:   p.IsNationality,
		ReligionID:      p.ReligionID,
		LastEducationID: p.LastEducationID,
		MaritalStatusID: p.MaritalStatusID,
		CountryID:       p.CountryID,
		Religion:        label(refmodels.CategoryReligion, p.ReligionID),
		LastEducation:   label(refmodels.CategoryEducation, p.LastEducationID),
		MaritalStatus:   label(refmodels.CategoryMaritalStatus, p.MaritalStatusID),
		Country:         label(refmodels.CategoryCountry, p.CountryID),
		Phones:          nonNil(p.Phones),
		Props:           models.CloneProps(p.Props),
		CardIdentity:    s.allowedCards(cards),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.UUID != nil {
		view.UUID = p.UUID.String()
	}

	var ktp, residence *models.Address
	if rec := records[models.AddressRoleKTP]; rec != nil {
		ktp = &rec.Address
	}
	if rec := records[models.AddressRoleResidence]; rec != nil {
		residence = &rec.Address
	}
	composed := address.Compose(ktp, residence, false)
	view.Address = models.AddressView{KTP: composed.KTP, Residence: composed.Residence}

	if contact != nil {
		view.FamilyRelationship = s.familyView(ctx, contact, resolved)
	}
	return view, nil
}

func (s *Service) familyView(ctx context.Context, c *models.FamilyContact, resolved map[refmodels.Ref]*refmodels.Entity) *models.FamilyContactView {
	view := &models.FamilyContactView{
		ID:           c.ID,
		PersonID:     c.PersonID,
		Name:         c.Name,
		Phone:        c.Phone,
		Sex:          c.Sex,
		FamilyRoleID: c.FamilyRoleID,
		FamilyRole:   resolved[refmodels.Ref{Category: refmodels.CategoryFamilyRole, ID: c.FamilyRoleID}].AsLabel(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.Link == nil {
		return view
	}

	view.Link = &models.LinkView{Type: c.Link.Type, ID: c.Link.ID}
	data, err := s.links.Load(ctx, c.Link)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load family contact link",
			"person_id", c.PersonID,
			"link_type", c.Link.Type,
			"link_id", c.Link.ID,
			"error", err,
		)
		return view
	}
	view.Link.Data = data
	return view
}

func (s *Service) allowedCards(cards map[string]string) map[string]string {
	out := make(map[string]string, len(cards))
	for typ, value := range cards {
		if _, ok := s.cardTypes[typ]; ok {
			out[typ] = value
		}
	}
	return out
}

func personRefs(p *models.Person) []refmodels.Ref {
	var refs []refmodels.Ref
	add := func(category refmodels.Category, id *domain.ReferenceID) {
		if id != nil && !id.IsNil() {
			refs = append(refs, refmodels.Ref{Category: category, ID: *id})
		}
	}
	add(refmodels.CategoryReligion, p.ReligionID)
	add(refmodels.CategoryEducation, p.LastEducationID)
	add(refmodels.CategoryMaritalStatus, p.MaritalStatusID)
	add(refmodels.CategoryCountry, p.CountryID)
	return refs
}

func nonNil(phones []string) []string {
	if phones == nil {
		return []string{}
	}
	return append([]string(nil), phones...)
}
