package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	employeeDatamodel "github.com/wicaksana/internal-portal/internal/core/datamodel/employee"
	"github.com/wicaksana/internal-portal/internal/directory"
	"github.com/wicaksana/internal-portal/internal/tenant"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) directory.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*directory.Employee, error) {
	var row employeeDatamodel.Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.ScopeID(tenantID)).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return directory.FromDataModel(&row), nil
}

func (r *Repository) GetByExternalID(ctx context.Context, tenantID int64, externalID string) (*directory.Employee, error) {
	var row employeeDatamodel.Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.ScopeID(tenantID)).
		Where("external_id = ?", externalID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return directory.FromDataModel(&row), nil
}

func (r *Repository) List(ctx context.Context, tenantID int64, activeOnly bool) ([]*directory.Employee, error) {
	query := r.db.WithContext(ctx).
		Scopes(tenant.ScopeID(tenantID)).
		Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var rows []employeeDatamodel.Employee
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	employees := make([]*directory.Employee, 0, len(rows))
	for i := range rows {
		employees = append(employees, directory.FromDataModel(&rows[i]))
	}
	return employees, nil
}

func (r *Repository) Create(ctx context.Context, e *directory.Employee) error {
	row := directory.ToDataModel(e)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	e.ID = row.ID
	e.CreatedAt = row.CreatedAt
	e.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *Repository) Update(ctx context.Context, e *directory.Employee) error {
	return r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Scopes(tenant.ScopeID(e.TenantID)).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"name":       e.Name,
			"email":      e.Email,
			"department": e.Department,
			"job_title":  e.JobTitle,
			"is_active":  e.IsActive,
			"synced_at":  e.SyncedAt,
		}).Error
}

// DeactivateMissing marks every active employee whose external id was not
// seen in the current sync run as inactive.
func (r *Repository) DeactivateMissing(ctx context.Context, tenantID int64, seenExternalIDs []string, syncedAt time.Time) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Scopes(tenant.ScopeID(tenantID)).
		Where("is_active = ?", true)
	if len(seenExternalIDs) > 0 {
		query = query.Where("external_id NOT IN ?", seenExternalIDs)
	}

	result := query.Updates(map[string]interface{}{
		"is_active": false,
		"synced_at": syncedAt,
	})
	return result.RowsAffected, result.Error
}
