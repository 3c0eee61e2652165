package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wicaksana/internal-portal/internal"
	"github.com/wicaksana/internal-portal/internal/auth"
	"github.com/wicaksana/internal-portal/internal/core/events"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, tenantID int64, username string) (*User, error)
	List(ctx context.Context, tenantID int64) ([]*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo       RepositoryAPI
	bus        EventPublisher
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bus EventPublisher, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bus:        bus,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

// EmailForUser resolves a user id to its address, for notification mail.
func (s *Service) EmailForUser(ctx context.Context, userID int64) (string, string, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return u.Email, u.Name, nil
}

// List returns the users of the caller's tenant. Admins and superadmins only;
// superadmins are still scoped to the tenant they are acting in.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	actor, ok := internal.ActorFromContext(ctx)
	if !ok {
		return nil, internal.ErrUnauthenticated
	}
	if actor.Role < internal.RoleAdmin {
		return nil, internal.ErrPermissionDenied
	}
	return s.repo.List(ctx, actor.TenantID)
}

// Create provisions a portal account in the caller's tenant. Only admins and
// superadmins may create users, and neither may mint a role above their own.
func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	actor, ok := internal.ActorFromContext(ctx)
	if !ok {
		return nil, internal.ErrUnauthenticated
	}
	if actor.Role < internal.RoleAdmin {
		return nil, internal.ErrPermissionDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, err := internal.ParseRole(dto.Role)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}
	if role > actor.Role {
		return nil, internal.NewForbiddenError("cannot assign a role above your own", internal.ErrCodePermissionDenied)
	}

	existing, err := s.repo.GetByUsername(ctx, actor.TenantID, dto.Username)
	if err != nil {
		return nil, fmt.Errorf("check existing username: %w", err)
	}
	if existing != nil {
		return nil, NewValidationError(fmt.Sprintf("username %q is already taken", dto.Username))
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		TenantID:     actor.TenantID,
		Username:     dto.Username,
		Email:        dto.Email,
		Name:         dto.Name,
		Role:         role.String(),
		IsActive:     true,
		passwordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created",
		"user_id", u.ID,
		"tenant_id", u.TenantID,
		"role", u.Role,
		"created_by", actor.UserID)
	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewUserCreated(u.ID, u.Email, u.Name))
	}

	return u, nil
}

// Update changes profile fields, role, or active state of a user in the
// caller's tenant. Role changes follow the same ceiling as Create.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateUserDTO) (*User, error) {
	actor, ok := internal.ActorFromContext(ctx)
	if !ok {
		return nil, internal.ErrUnauthenticated
	}
	if actor.Role < internal.RoleAdmin {
		return nil, internal.ErrPermissionDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.TenantID != actor.TenantID {
		return nil, internal.ErrUserNotFound
	}

	currentRole, err := u.ParsedRole()
	if err != nil {
		return nil, fmt.Errorf("stored role for user %d: %w", u.ID, err)
	}
	if currentRole > actor.Role {
		return nil, internal.NewForbiddenError("cannot modify a user with a role above your own", internal.ErrCodePermissionDenied)
	}

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Role != nil {
		newRole, parseErr := internal.ParseRole(*dto.Role)
		if parseErr != nil {
			return nil, NewValidationError(parseErr.Error())
		}
		if newRole > actor.Role {
			return nil, internal.NewForbiddenError("cannot assign a role above your own", internal.ErrCodePermissionDenied)
		}
		u.Role = newRole.String()
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("user updated",
		"user_id", u.ID,
		"tenant_id", u.TenantID,
		"updated_by", actor.UserID)

	return u, nil
}
