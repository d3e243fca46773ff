//go:build integration

package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"persona/internal/people/models"
	peopleservice "persona/internal/people/service"
	refmodels "persona/internal/reference/models"
	refservice "persona/internal/reference/service"
	"persona/internal/storage/postgres"
	dErrors "persona/pkg/domain-errors"
	"persona/pkg/testutil/containers"
)

func ptr[T any](v T) *T { return &v }

type failingFamilies struct {
	peopleservice.FamilyStore
}

func (failingFamilies) Save(context.Context, *models.FamilyContact) error {
	return errors.New("constraint exploded")
}

type failingFamilyTx struct {
	inner peopleservice.StoreTx
}

func (t failingFamilyTx) RunInTx(ctx context.Context, fn func(ctx context.Context, stores peopleservice.Stores) error) error {
	return t.inner.RunInTx(ctx, func(ctx context.Context, stores peopleservice.Stores) error {
		stores.Families = failingFamilies{stores.Families}
		return fn(ctx, stores)
	})
}

type PeoplePostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	resolver *refservice.Resolver
}

func TestPeoplePostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PeoplePostgresSuite))
}

func (s *PeoplePostgresSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(postgres.Migrate(context.Background(), s.postgres.DB))
	s.resolver = refservice.New(postgres.NewReferenceStore(s.postgres.DB))
}

func (s *PeoplePostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), postgres.Tables...))
}

func (s *PeoplePostgresSuite) newService(tx peopleservice.StoreTx) *peopleservice.Service {
	svc, err := peopleservice.New(tx, postgresStores(s.postgres.DB), s.resolver)
	s.Require().NoError(err)
	return svc
}

func submission() *models.Submission {
	return &models.Submission{
		Name: ptr("John Doe"),
		Sex:  ptr("Male"),
		DOB:  ptr("1990-01-15"),
		POB:  ptr("Jakarta"),
		Address: &models.AddressInput{
			KTP:                &models.Address{Street: "Jl. Merdeka 1"},
			ResidenceSameAsKTP: true,
		},
		CardIdentity: map[string]string{"nik": "3171"},
		FamilyRelationship: &models.FamilyInput{
			Name:       "Jane Doe",
			FamilyRole: &models.RoleInput{Label: "Mother"},
		},
	}
}

func (s *PeoplePostgresSuite) TestStoreCommitsAggregate() {
	ctx := context.Background()
	svc := s.newService(newPeoplePostgresTx(s.postgres.DB, 0))

	view, err := svc.Store(ctx, submission())
	s.Require().NoError(err)
	s.Equal("John Doe", view.Name)
	s.Require().NotNil(view.Address.Residence)
	s.Equal("Jl. Merdeka 1", view.Address.Residence.Street)
	s.Equal(map[string]string{"nik": "3171"}, view.CardIdentity)
	s.Require().NotNil(view.FamilyRelationship)
	s.Equal("Mother", view.FamilyRelationship.FamilyRole.Label)
}

func (s *PeoplePostgresSuite) TestFamilyFailureRollsBackEverything() {
	ctx := context.Background()
	svc := s.newService(failingFamilyTx{inner: newPeoplePostgresTx(s.postgres.DB, 0)})

	_, err := svc.Store(ctx, submission())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	_, total, err := postgres.NewPersonStore(s.postgres.DB).List(ctx, models.ListQuery{})
	s.Require().NoError(err)
	s.Zero(total)

	roles, err := postgres.NewReferenceStore(s.postgres.DB).ListByCategory(ctx, refmodels.CategoryFamilyRole)
	s.Require().NoError(err)
	s.Empty(roles)
}

func (s *PeoplePostgresSuite) TestCancelledContextNeverOpensTransaction() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newPeoplePostgresTx(s.postgres.DB, 0).RunInTx(ctx, func(context.Context, peopleservice.Stores) error {
		s.Fail("unit of work must not run")
		return nil
	})
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}
