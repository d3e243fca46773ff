package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"persona/internal/people/handler/mocks"
	"persona/internal/people/models"
	"persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
	"persona/pkg/testutil"
)

func newRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return r, svc
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestStorePerson(t *testing.T) {
	t.Run("created with enriched view", func(t *testing.T) {
		router, svc := newRouter(t)
		id := domain.NewPersonID()
		svc.EXPECT().Store(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, sub *models.Submission) (*models.PersonView, error) {
				require.NotNil(t, sub.FirstName)
				assert.Equal(t, "John", *sub.FirstName)
				require.NotNil(t, sub.FamilyRelationship)
				assert.Equal(t, "Jane Doe", sub.FamilyRelationship.Name)
				return &models.PersonView{ID: id, Name: "John Doe", Age: 36}, nil
			})

		rec := testutil.Do(router, testutil.NewJSONRequest(t, http.MethodPost, "/people", map[string]any{
			"first_name": "John",
			"last_name":  "Doe",
			"family_relationship": map[string]any{
				"name":           "Jane Doe",
				"family_role_id": "01",
			},
		}))

		require.Equal(t, http.StatusCreated, rec.Code)
		view := testutil.Decode[models.PersonView](t, rec)
		assert.Equal(t, id, view.ID)
		assert.Equal(t, 36, view.Age)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/people", strings.NewReader(`{"name":`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation error names the field", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Store(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "dob: invalid date").WithField("dob"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/people", strings.NewReader(`{"dob":"yesterday"}`)))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "validation_error", body["error"])
		assert.Equal(t, "dob", body["field"])
	})

	t.Run("ambiguous family role is 422", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Store(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeAmbiguousInput, "exactly one of family_role_id or family_role is required"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/people", strings.NewReader(`{}`)))

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "ambiguous_input", decodeError(t, rec)["error"])
	})

	t.Run("storage failure is opaque 500", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().Store(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("disk full"), dErrors.CodeInternal, "failed to save family contact"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/people", strings.NewReader(`{}`)))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "internal_error", body["error"])
		assert.NotContains(t, rec.Body.String(), "disk full")
	})
}

func TestUpdatePerson(t *testing.T) {
	t.Run("passes path id and partial body", func(t *testing.T) {
		router, svc := newRouter(t)
		id := domain.NewPersonID()
		svc.EXPECT().Update(gomock.Any(), id, gomock.Any()).DoAndReturn(
			func(_ any, _ domain.PersonID, sub *models.Submission) (*models.PersonView, error) {
				assert.Nil(t, sub.Name)
				require.NotNil(t, sub.POB)
				assert.Equal(t, "Bandung", *sub.POB)
				return &models.PersonView{ID: id, POB: "Bandung"}, nil
			})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/people/"+id.String(), strings.NewReader(`{"pob":"Bandung"}`)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid id is 400", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/people/not-an-id", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown person is 404", func(t *testing.T) {
		router, svc := newRouter(t)
		id := domain.NewPersonID()
		svc.EXPECT().Update(gomock.Any(), id, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "person not found"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/people/"+id.String(), strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetPerson(t *testing.T) {
	router, svc := newRouter(t)
	id := domain.NewPersonID()
	svc.EXPECT().Get(gomock.Any(), id).Return(&models.PersonView{
		ID:           id,
		Name:         "John Doe",
		Phones:       []string{},
		CardIdentity: map[string]string{"nik": "3171"},
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/people/"+id.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"phones":[]`)
	assert.Contains(t, rec.Body.String(), `"card_identity":{"nik":"3171"}`)
}

func TestListPeople(t *testing.T) {
	t.Run("forwards paging parameters", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().List(gomock.Any(), models.ListQuery{Search: "doe", Limit: 5, Offset: 10}).
			Return(&models.Page[*models.PersonSummary]{Items: []*models.PersonSummary{}, Total: 0, Limit: 5, Offset: 10}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/people?search=doe&limit=5&offset=10", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"items":[]`)
	})

	t.Run("defaults and clamps limit", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().List(gomock.Any(), models.ListQuery{Limit: models.MaxListLimit}).
			Return(&models.Page[*models.PersonSummary]{}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/people?limit=1000", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-numeric offset is 400", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/people?offset=abc", nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "offset", decodeError(t, rec)["field"])
	})
}

func TestFamilyRelationships(t *testing.T) {
	t.Run("lists contacts", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().ListFamilyContacts(gomock.Any(), models.ListQuery{Limit: models.DefaultListLimit}).
			Return(&models.Page[*models.FamilyContactView]{
				Items: []*models.FamilyContactView{{Name: "Jane Doe"}},
				Total: 1,
				Limit: models.DefaultListLimit,
			}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/family-relationships", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Jane Doe"`)
	})

	t.Run("delete returns 204", func(t *testing.T) {
		router, svc := newRouter(t)
		id := domain.NewPersonID()
		svc.EXPECT().DeleteFamilyContact(gomock.Any(), id).Return(nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/people/"+id.String()+"/family-relationship", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("delete without live contact is 404", func(t *testing.T) {
		router, svc := newRouter(t)
		id := domain.NewPersonID()
		svc.EXPECT().DeleteFamilyContact(gomock.Any(), id).
			Return(dErrors.New(dErrors.CodeNotFound, "family contact not found"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/people/"+id.String()+"/family-relationship", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
