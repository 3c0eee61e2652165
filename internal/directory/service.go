package directory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wicaksana/internal-portal/internal"
	"github.com/wicaksana/internal-portal/internal/core/events"
	"github.com/wicaksana/internal-portal/internal/directory/bubble"
	"github.com/wicaksana/internal-portal/internal/permission"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, tenantID, id int64) (*Employee, error)
	GetByExternalID(ctx context.Context, tenantID int64, externalID string) (*Employee, error)
	List(ctx context.Context, tenantID int64, activeOnly bool) ([]*Employee, error)
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, e *Employee) error
	DeactivateMissing(ctx context.Context, tenantID int64, seenExternalIDs []string, syncedAt time.Time) (int64, error)
}

// Fetcher pulls the upstream directory. Satisfied by the Bubble client in
// production and by fakes in tests.
type Fetcher interface {
	FetchEmployees(ctx context.Context) ([]bubble.EmployeeRecord, error)
}

type AccessChecker interface {
	CheckPermission(ctx context.Context, userID int64, area permission.Area, action permission.Action) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo    RepositoryAPI
	fetcher Fetcher
	access  AccessChecker
	bus     EventPublisher
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, fetcher Fetcher, access AccessChecker, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		fetcher: fetcher,
		access:  access,
		bus:     bus,
		logger:  logger,
	}
}

// ListEmployees returns the tenant's directory. Requires view access to the
// hr area.
func (s *Service) ListEmployees(ctx context.Context, activeOnly bool) ([]*Employee, error) {
	actor, ok := internal.ActorFromContext(ctx)
	if !ok {
		return nil, internal.ErrUnauthenticated
	}

	allowed, err := s.access.CheckPermission(ctx, actor.UserID, permission.AreaHR, permission.ActionView)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, internal.ErrPermissionDenied
	}

	return s.repo.List(ctx, actor.TenantID, activeOnly)
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	actor, ok := internal.ActorFromContext(ctx)
	if !ok {
		return nil, internal.ErrUnauthenticated
	}

	allowed, err := s.access.CheckPermission(ctx, actor.UserID, permission.AreaHR, permission.ActionView)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, internal.ErrPermissionDenied
	}

	e, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	if e == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return e, nil
}

// SyncNow runs a directory sync for the caller's tenant. Admins and
// superadmins only.
func (s *Service) SyncNow(ctx context.Context) (*SyncResult, error) {
	actor, ok := internal.ActorFromContext(ctx)
	if !ok {
		return nil, internal.ErrUnauthenticated
	}
	if actor.Role < internal.RoleAdmin {
		return nil, internal.ErrPermissionDenied
	}
	return s.SyncTenant(ctx, actor.TenantID)
}

// SyncTenant mirrors the upstream directory into the employees table: new
// rows are created, known rows updated, and rows absent upstream are
// deactivated. Nothing is ever hard-deleted so local references stay valid.
func (s *Service) SyncTenant(ctx context.Context, tenantID int64) (*SyncResult, error) {
	records, err := s.fetcher.FetchEmployees(ctx)
	if err != nil {
		s.logger.Error("directory sync failed to fetch upstream", "tenant_id", tenantID, "error", err)
		return nil, internal.NewExternalError("directory sync failed", err)
	}

	now := time.Now().UTC()
	result := &SyncResult{SyncedAt: now}
	seen := make([]string, 0, len(records))

	for _, record := range records {
		if record.ID == "" {
			s.logger.Warn("directory sync skipping record without id", "tenant_id", tenantID, "name", record.Name)
			continue
		}
		seen = append(seen, record.ID)

		existing, err := s.repo.GetByExternalID(ctx, tenantID, record.ID)
		if err != nil {
			return nil, fmt.Errorf("lookup employee %s: %w", record.ID, err)
		}

		if existing == nil {
			e := &Employee{
				TenantID:   tenantID,
				ExternalID: record.ID,
				Name:       record.Name,
				Email:      record.Email,
				Department: record.Department,
				JobTitle:   record.JobTitle,
				IsActive:   record.Active,
				SyncedAt:   now,
			}
			if err := s.repo.Create(ctx, e); err != nil {
				return nil, fmt.Errorf("create employee %s: %w", record.ID, err)
			}
			result.Created++
			continue
		}

		existing.Name = record.Name
		existing.Email = record.Email
		existing.Department = record.Department
		existing.JobTitle = record.JobTitle
		existing.IsActive = record.Active
		existing.SyncedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update employee %s: %w", record.ID, err)
		}
		result.Updated++
	}

	deactivated, err := s.repo.DeactivateMissing(ctx, tenantID, seen, now)
	if err != nil {
		return nil, fmt.Errorf("deactivate missing employees: %w", err)
	}
	result.Deactivated = int(deactivated)

	s.logger.Info("directory sync completed",
		"tenant_id", tenantID,
		"created", result.Created,
		"updated", result.Updated,
		"deactivated", result.Deactivated)
	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewEmployeeSyncCompleted(tenantID, result.Created, result.Updated, result.Deactivated))
	}

	return result, nil
}
