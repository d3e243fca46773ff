package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"persona/internal/people/models"
	"persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
	"persona/pkg/platform/httputil"
	"persona/pkg/requestcontext"
)

// Service defines the interface for person operations.
type Service interface {
	Store(ctx context.Context, sub *models.Submission) (*models.PersonView, error)
	Update(ctx context.Context, id domain.PersonID, sub *models.Submission) (*models.PersonView, error)
	Get(ctx context.Context, id domain.PersonID) (*models.PersonView, error)
	List(ctx context.Context, q models.ListQuery) (*models.Page[*models.PersonSummary], error)
	ListFamilyContacts(ctx context.Context, q models.ListQuery) (*models.Page[*models.FamilyContactView], error)
	DeleteFamilyContact(ctx context.Context, personID domain.PersonID) error
}

// Handler handles person HTTP endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the person routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/people", h.handleStore)
	r.Get("/people", h.handleList)
	r.Get("/people/{id}", h.handleGet)
	r.Put("/people/{id}", h.handleUpdate)
	r.Delete("/people/{id}/family-relationship", h.handleDeleteFamily)
	r.Get("/family-relationships", h.handleListFamily)
}

func (h *Handler) handleStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var sub models.Submission
	if err := httputil.DecodeJSON(r, &sub); err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.service.Store(ctx, &sub)
	if err != nil {
		h.fail(ctx, w, "failed to store person", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var sub models.Submission
	if err := httputil.DecodeJSON(r, &sub); err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.service.Update(ctx, id, &sub)
	if err != nil {
		h.fail(ctx, w, "failed to update person", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.service.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, "failed to get person", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q, err := parseListQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, err := h.service.List(ctx, q)
	if err != nil {
		h.fail(ctx, w, "failed to list people", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleListFamily(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q, err := parseListQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, err := h.service.ListFamilyContacts(ctx, q)
	if err != nil {
		h.fail(ctx, w, "failed to list family contacts", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleDeleteFamily(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeleteFamilyContact(ctx, id); err != nil {
		h.fail(ctx, w, "failed to delete family contact", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail logs unexpected errors and writes the error response. Client errors
// are already logged by the service.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if de, ok := dErrors.As(err); !ok || de.Code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func parseListQuery(r *http.Request) (models.ListQuery, error) {
	values := r.URL.Query()
	q := models.ListQuery{Search: values.Get("search")}

	var err error
	if q.Limit, err = intParam(values.Get("limit"), "limit"); err != nil {
		return q, err
	}
	if q.Offset, err = intParam(values.Get("offset"), "offset"); err != nil {
		return q, err
	}
	return q.Normalized(), nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid "+name).WithField(name)
	}
	return n, nil
}
