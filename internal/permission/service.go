package permission

import (
	"context"
	"log/slog"
	"time"

	"github.com/wicaksana/internal-portal/internal"
	"github.com/wicaksana/internal-portal/internal/core/events"
)

// RepositoryAPI is the full store surface: the evaluator's reads plus the
// superadmin-only mutation paths.
type RepositoryAPI interface {
	GrantReader
	UpsertGrant(ctx context.Context, grant *Grant) error
	DeleteGrant(ctx context.Context, userID int64, area Area) (bool, error)
	AddConfidentialAccess(ctx context.Context, userID, documentID, grantedBy int64) error
	RemoveConfidentialAccess(ctx context.Context, userID, documentID int64) (bool, error)
	ListConfidentialDocumentIDs(ctx context.Context, userID int64) ([]int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service fronts the evaluator for route handlers and owns the administrative
// grant mutations. Allow/deny outcomes are logged here for audit; the
// evaluator itself stays silent.
type Service struct {
	evaluator *Evaluator
	repo      RepositoryAPI
	bus       EventPublisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		evaluator: NewEvaluator(repo),
		repo:      repo,
		bus:       bus,
		logger:    logger,
	}
}

func (s *Service) CheckPermission(ctx context.Context, userID int64, area Area, action Action) (bool, error) {
	allowed, err := s.evaluator.CanAccess(ctx, userID, area, action, nil)
	if err != nil {
		return false, err
	}

	s.logger.Info("permission check",
		"user_id", userID,
		"area", area.String(),
		"action", action.String(),
		"allowed", allowed)
	return allowed, nil
}

// CheckDocumentAccess runs the full check including the confidentiality
// override, loading the user's allow-list when the document is confidential.
func (s *Service) CheckDocumentAccess(ctx context.Context, userID int64, action Action, documentID, tenantID int64, isConfidential bool) (bool, error) {
	attrs := &ResourceAttrs{
		DocumentID:     documentID,
		TenantID:       tenantID,
		IsConfidential: isConfidential,
	}
	if isConfidential {
		allowList, err := s.repo.ListConfidentialDocumentIDs(ctx, userID)
		if err != nil {
			return false, err
		}
		attrs.AllowList = allowList
	}

	allowed, err := s.evaluator.CanAccess(ctx, userID, AreaDocuments, action, attrs)
	if err != nil {
		return false, err
	}

	s.logger.Info("document access check",
		"user_id", userID,
		"document_id", documentID,
		"action", action.String(),
		"confidential", isConfidential,
		"allowed", allowed)
	return allowed, nil
}

func (s *Service) GetEffectivePermissions(ctx context.Context, userID int64) ([]EffectivePermission, error) {
	return s.evaluator.EffectivePermissions(ctx, userID)
}

// ConfidentialAllowList exposes the persisted allow-list so the document
// listing path can filter without a per-row store read.
func (s *Service) ConfidentialAllowList(ctx context.Context, userID int64) ([]int64, error) {
	return s.repo.ListConfidentialDocumentIDs(ctx, userID)
}

// UpsertGrant creates or replaces the (user, area) grant. Superadmin only.
func (s *Service) UpsertGrant(ctx context.Context, actor internal.Actor, userID int64, area Area, canView, canEdit, canDelete bool) (*Grant, error) {
	if actor.Role != internal.RoleSuperadmin {
		s.logger.Warn("grant mutation denied", "actor_id", actor.UserID, "target_user_id", userID)
		return nil, internal.ErrSuperadminOnly
	}
	if !area.Valid() {
		return nil, internal.NewValidationError("unknown permission area", internal.ErrCodeInvalidArea)
	}

	target, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if target == nil {
		return nil, internal.ErrUserNotFound
	}

	grant := &Grant{
		UserID:    userID,
		Area:      area,
		CanView:   canView,
		CanEdit:   canEdit,
		CanDelete: canDelete,
		UpdatedAt: time.Now(),
	}
	if err := s.repo.UpsertGrant(ctx, grant); err != nil {
		return nil, internal.NewInternalError("failed to persist grant", err)
	}

	s.logger.Info("permission grant upserted",
		"actor_id", actor.UserID,
		"user_id", userID,
		"area", area.String(),
		"can_view", canView,
		"can_edit", canEdit,
		"can_delete", canDelete)
	return grant, nil
}

func (s *Service) DeleteGrant(ctx context.Context, actor internal.Actor, userID int64, area Area) error {
	if actor.Role != internal.RoleSuperadmin {
		s.logger.Warn("grant deletion denied", "actor_id", actor.UserID, "target_user_id", userID)
		return internal.ErrSuperadminOnly
	}
	if !area.Valid() {
		return internal.NewValidationError("unknown permission area", internal.ErrCodeInvalidArea)
	}

	deleted, err := s.repo.DeleteGrant(ctx, userID, area)
	if err != nil {
		return internal.NewInternalError("failed to delete grant", err)
	}
	if !deleted {
		return internal.ErrGrantNotFound
	}

	s.logger.Info("permission grant deleted", "actor_id", actor.UserID, "user_id", userID, "area", area.String())
	return nil
}

// GrantConfidentialAccess puts one document on one user's allow-list.
// Superadmin only, like every other grant mutation.
func (s *Service) GrantConfidentialAccess(ctx context.Context, actor internal.Actor, userID, documentID int64) error {
	if actor.Role != internal.RoleSuperadmin {
		return internal.ErrSuperadminOnly
	}

	target, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return internal.NewInternalError("failed to load user", err)
	}
	if target == nil {
		return internal.ErrUserNotFound
	}

	if err := s.repo.AddConfidentialAccess(ctx, userID, documentID, actor.UserID); err != nil {
		return internal.NewInternalError("failed to persist confidential access", err)
	}

	s.logger.Info("confidential access granted",
		"actor_id", actor.UserID,
		"user_id", userID,
		"document_id", documentID)

	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewConfidentialAccessGranted(userID, documentID, actor.UserID))
	}
	return nil
}

func (s *Service) RevokeConfidentialAccess(ctx context.Context, actor internal.Actor, userID, documentID int64) error {
	if actor.Role != internal.RoleSuperadmin {
		return internal.ErrSuperadminOnly
	}

	removed, err := s.repo.RemoveConfidentialAccess(ctx, userID, documentID)
	if err != nil {
		return internal.NewInternalError("failed to revoke confidential access", err)
	}
	if !removed {
		return internal.ErrGrantNotFound
	}

	s.logger.Info("confidential access revoked",
		"actor_id", actor.UserID,
		"user_id", userID,
		"document_id", documentID)
	return nil
}
