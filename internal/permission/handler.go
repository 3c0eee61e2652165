package permission

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/wicaksana/internal-portal/internal"
	"github.com/wicaksana/internal-portal/internal/transport"
)

type ServiceAPI interface {
	CheckPermission(ctx context.Context, userID int64, area Area, action Action) (bool, error)
	GetEffectivePermissions(ctx context.Context, userID int64) ([]EffectivePermission, error)
	UpsertGrant(ctx context.Context, actor internal.Actor, userID int64, area Area, canView, canEdit, canDelete bool) (*Grant, error)
	DeleteGrant(ctx context.Context, actor internal.Actor, userID int64, area Area) error
	GrantConfidentialAccess(ctx context.Context, actor internal.Actor, userID, documentID int64) error
	RevokeConfidentialAccess(ctx context.Context, actor internal.Actor, userID, documentID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetMyPermissions returns the acting user's materialized permissions.
func (h *Handler) GetMyPermissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	perms, err := h.Service.GetEffectivePermissions(r.Context(), actor.UserID)
	if err != nil {
		h.Logger.Error("GetMyPermissions: evaluation failed", "user_id", actor.UserID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to load permissions")
		return
	}

	h.WriteJSON(w, http.StatusOK, EffectivePermissionsResponse{UserID: actor.UserID, Permissions: perms})
}

// GetUserPermissions returns another user's materialized permissions. Gated
// to elevated roles; regular users only see their own.
func (h *Handler) GetUserPermissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if actor.Role != internal.RoleAdmin && actor.Role != internal.RoleSuperadmin {
		h.WriteError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	perms, err := h.Service.GetEffectivePermissions(r.Context(), userID)
	if err != nil {
		h.Logger.Error("GetUserPermissions: evaluation failed", "user_id", userID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to load permissions")
		return
	}

	h.WriteJSON(w, http.StatusOK, EffectivePermissionsResponse{UserID: userID, Permissions: perms})
}

func (h *Handler) UpsertGrant(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	area, err := ParseArea(chi.URLParam(r, "area"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "unknown permission area")
		return
	}

	var dto UpsertGrantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grant, err := h.Service.UpsertGrant(r.Context(), actor, userID, area, dto.CanView, dto.CanEdit, dto.CanDelete)
	if err != nil {
		h.WriteAppError(w, err, "failed to upsert grant")
		return
	}

	h.WriteJSON(w, http.StatusOK, GrantResponse{
		UserID:    grant.UserID,
		Area:      grant.Area.String(),
		CanView:   grant.CanView,
		CanEdit:   grant.CanEdit,
		CanDelete: grant.CanDelete,
	})
}

func (h *Handler) DeleteGrant(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	area, err := ParseArea(chi.URLParam(r, "area"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "unknown permission area")
		return
	}

	if err := h.Service.DeleteGrant(r.Context(), actor, userID, area); err != nil {
		h.WriteAppError(w, err, "failed to delete grant")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GrantConfidentialAccess(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	documentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	var dto ConfidentialAccessDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.GrantConfidentialAccess(r.Context(), actor, dto.UserID, documentID); err != nil {
		h.WriteAppError(w, err, "failed to grant confidential access")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RevokeConfidentialAccess(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	documentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.Service.RevokeConfidentialAccess(r.Context(), actor, userID, documentID); err != nil {
		h.WriteAppError(w, err, "failed to revoke confidential access")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
