package permission

import (
	"errors"
	"time"

	"github.com/wicaksana/internal-portal/internal"
	permissionDatamodel "github.com/wicaksana/internal-portal/internal/core/datamodel/permission"
)

// Invalid enum values indicate a caller bug, not an access-control decision,
// so they surface as errors instead of silent denies.
var (
	ErrInvalidArea   = errors.New("invalid permission area")
	ErrInvalidAction = errors.New("invalid permission action")
)

// UserRecord is the slice of a user the evaluator needs to decide anything.
type UserRecord struct {
	ID       int64
	TenantID int64
	Role     internal.Role
	IsActive bool
}

// Grant is one user's view/edit/delete triple for one area.
type Grant struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Area      Area      `json:"area"`
	CanView   bool      `json:"can_view"`
	CanEdit   bool      `json:"can_edit"`
	CanDelete bool      `json:"can_delete"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Allows maps an action to the corresponding grant column.
func (g *Grant) Allows(action Action) bool {
	switch action {
	case ActionView:
		return g.CanView
	case ActionEdit:
		return g.CanEdit
	case ActionDelete:
		return g.CanDelete
	}
	return false
}

// EffectivePermission is a materialized row of the precedence rules: what a
// user can actually do in one area once role elevation is folded in.
type EffectivePermission struct {
	Area      Area `json:"area"`
	CanView   bool `json:"can_view"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// ResourceAttrs carries document-level attributes into a permission check.
// AllowList is the set of confidential document ids the user was explicitly
// granted; the caller loads it, the evaluator stays pure.
type ResourceAttrs struct {
	DocumentID     int64
	TenantID       int64
	IsConfidential bool
	AllowList      []int64
}

func (a *ResourceAttrs) allowListed() bool {
	for _, id := range a.AllowList {
		if id == a.DocumentID {
			return true
		}
	}
	return false
}

func ToDataModel(g *Grant) *permissionDatamodel.PermissionGrant {
	return &permissionDatamodel.PermissionGrant{
		ID:        g.ID,
		UserID:    g.UserID,
		Area:      string(g.Area),
		CanView:   g.CanView,
		CanEdit:   g.CanEdit,
		CanDelete: g.CanDelete,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func FromDataModel(m *permissionDatamodel.PermissionGrant) (*Grant, error) {
	area, err := ParseArea(m.Area)
	if err != nil {
		return nil, err
	}
	return &Grant{
		ID:        m.ID,
		UserID:    m.UserID,
		Area:      area,
		CanView:   m.CanView,
		CanEdit:   m.CanEdit,
		CanDelete: m.CanDelete,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
