package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"persona/internal/reference/models"
	dErrors "persona/pkg/domain-errors"
	"persona/pkg/platform/httputil"
	"persona/pkg/requestcontext"
)

// Service is the read side of the reference resolver.
type Service interface {
	List(ctx context.Context, category models.Category) ([]*models.Entity, error)
}

// Handler serves reference lookups for form pickers.
type Handler struct {
	logger   *slog.Logger
	resolver Service
}

func New(resolver Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, resolver: resolver}
}

// Register registers the reference routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/references/{category}", h.handleList)
}

type listResponse struct {
	Category models.Category  `json:"category"`
	Items    []*models.Entity `json:"items"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category, err := models.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	items, err := h.resolver.List(ctx, category)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.ErrorContext(ctx, "failed to list references",
				"request_id", requestcontext.RequestID(ctx),
				"category", category,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	if items == nil {
		items = []*models.Entity{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Category: category, Items: items})
}
