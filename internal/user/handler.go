package user

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/wicaksana/internal-portal/internal"
	"github.com/wicaksana/internal-portal/internal/permission"
	"github.com/wicaksana/internal-portal/internal/transport"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, dto CreateUserDTO) (*User, error)
	Update(ctx context.Context, id int64, dto UpdateUserDTO) (*User, error)
}

type PermissionsAPI interface {
	GetEffectivePermissions(ctx context.Context, userID int64) ([]permission.EffectivePermission, error)
}

type Handler struct {
	*transport.BaseHandler
	Service     ServiceAPI
	Permissions PermissionsAPI
}

func NewHandler(svc ServiceAPI, perms PermissionsAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     svc,
		Permissions: perms,
	}
}

type currentUserResponse struct {
	*User
	Permissions []permission.EffectivePermission `json:"permissions"`
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(r.Context(), actor.UserID)
	if err != nil {
		h.Logger.Error("get current user failed", "user_id", actor.UserID, "error", err)
		h.WriteAppError(w, err, "failed to load user")
		return
	}

	perms, err := h.Permissions.GetEffectivePermissions(r.Context(), actor.UserID)
	if err != nil {
		h.Logger.Error("effective permissions for current user failed", "user_id", actor.UserID, "error", err)
		h.WriteAppError(w, err, "failed to load permissions")
		return
	}

	h.WriteJSON(w, http.StatusOK, currentUserResponse{User: u, Permissions: perms})
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		h.WriteAppError(w, err, "failed to list users")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			h.WriteError(w, http.StatusBadRequest, validationErr.Message)
			return
		}
		h.WriteAppError(w, err, "failed to create user")
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

// UpdateUser handles PATCH /users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			h.WriteError(w, http.StatusBadRequest, validationErr.Message)
			return
		}
		h.WriteAppError(w, err, "failed to update user")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}
