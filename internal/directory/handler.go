package directory

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/wicaksana/internal-portal/internal/transport"
)

type ServiceAPI interface {
	ListEmployees(ctx context.Context, activeOnly bool) ([]*Employee, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	SyncNow(ctx context.Context) (*SyncResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     svc,
	}
}

// ListEmployees handles GET /employees. Pass include_inactive=true to see
// deactivated rows.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("include_inactive") != "true"

	employees, err := h.Service.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		h.WriteAppError(w, err, "failed to list employees")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"employees": employees})
}

// GetEmployee handles GET /employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	e, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, err, "failed to load employee")
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

// SyncDirectory handles POST /directory/sync
func (h *Handler) SyncDirectory(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.SyncNow(r.Context())
	if err != nil {
		h.WriteAppError(w, err, "directory sync failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
