package permission

import (
	"context"
	"fmt"

	"github.com/wicaksana/internal-portal/internal"
)

// GrantReader is the read-only store surface the evaluator consults. Lookups
// that find nothing return (nil, nil): a missing user or grant is a valid
// deny outcome, never an error.
type GrantReader interface {
	GetUser(ctx context.Context, userID int64) (*UserRecord, error)
	GetGrant(ctx context.Context, userID int64, area Area) (*Grant, error)
	ListGrants(ctx context.Context, userID int64) ([]Grant, error)
}

// Evaluator decides whether a user may perform an action in an area. It holds
// no state beyond its store dependency and performs no logging; callers audit
// the outcomes.
type Evaluator struct {
	store GrantReader
}

func NewEvaluator(store GrantReader) *Evaluator {
	return &Evaluator{store: store}
}

// CanAccess applies the precedence rules in order: role elevation first, then
// the persisted grant, then the confidentiality override. Tenant isolation is
// not decided here; the query layer enforces it on every read.
func (e *Evaluator) CanAccess(ctx context.Context, userID int64, area Area, action Action, attrs *ResourceAttrs) (bool, error) {
	if !area.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidArea, area)
	}
	if !action.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil || !user.IsActive {
		return false, nil
	}

	allowed, err := e.decide(ctx, user, area, action)
	if err != nil || !allowed {
		return false, err
	}

	// Confidentiality override applies to documents only: an allow earned by
	// grant is downgraded for non-elevated roles unless the document is on
	// the user's explicit allow-list.
	if area == AreaDocuments && attrs != nil && attrs.IsConfidential {
		if user.Role != internal.RoleAdmin && user.Role != internal.RoleSuperadmin && !attrs.allowListed() {
			return false, nil
		}
	}

	return true, nil
}

func (e *Evaluator) decide(ctx context.Context, user *UserRecord, area Area, action Action) (bool, error) {
	switch user.Role {
	case internal.RoleSuperadmin:
		return true, nil
	case internal.RoleAdmin:
		if action == ActionView {
			return true, nil
		}
		if area == AreaDocuments {
			return true, nil
		}
		// admins hold no implicit edit/delete outside documents
	case internal.RoleManager, internal.RoleUser:
		// no elevation
	default:
		return false, fmt.Errorf("user %d has unknown role %v", user.ID, user.Role)
	}

	grant, err := e.store.GetGrant(ctx, user.ID, area)
	if err != nil {
		return false, err
	}
	if grant == nil {
		return false, nil
	}
	return grant.Allows(action), nil
}

// EffectivePermissions materializes the precedence rules into one row per
// area the user can see at all. Elevated roles get synthesized rows for every
// known area; regular users get exactly their persisted grants.
func (e *Evaluator) EffectivePermissions(ctx context.Context, userID int64) ([]EffectivePermission, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return []EffectivePermission{}, nil
	}

	switch user.Role {
	case internal.RoleSuperadmin:
		perms := make([]EffectivePermission, 0, len(allAreas))
		for _, area := range Areas() {
			perms = append(perms, EffectivePermission{Area: area, CanView: true, CanEdit: true, CanDelete: true})
		}
		return perms, nil

	case internal.RoleAdmin:
		grants, err := e.store.ListGrants(ctx, userID)
		if err != nil {
			return nil, err
		}
		byArea := make(map[Area]EffectivePermission, len(grants))
		for _, g := range grants {
			byArea[g.Area] = EffectivePermission{
				Area:      g.Area,
				CanView:   true, // role elevation forces view everywhere
				CanEdit:   g.CanEdit,
				CanDelete: g.CanDelete,
			}
		}
		perms := make([]EffectivePermission, 0, len(allAreas))
		for _, area := range Areas() {
			if area == AreaDocuments {
				perms = append(perms, EffectivePermission{Area: area, CanView: true, CanEdit: true, CanDelete: true})
				continue
			}
			if p, ok := byArea[area]; ok {
				perms = append(perms, p)
				continue
			}
			perms = append(perms, EffectivePermission{Area: area, CanView: true})
		}
		return perms, nil

	case internal.RoleManager, internal.RoleUser:
		grants, err := e.store.ListGrants(ctx, userID)
		if err != nil {
			return nil, err
		}
		perms := make([]EffectivePermission, 0, len(grants))
		for _, g := range grants {
			perms = append(perms, EffectivePermission{
				Area:      g.Area,
				CanView:   g.CanView,
				CanEdit:   g.CanEdit,
				CanDelete: g.CanDelete,
			})
		}
		return perms, nil

	default:
		return nil, fmt.Errorf("user %d has unknown role %v", user.ID, user.Role)
	}
}
