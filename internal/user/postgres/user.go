package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wicaksana/internal-portal/internal"
	userDatamodel "github.com/wicaksana/internal-portal/internal/core/datamodel/user"
	"github.com/wicaksana/internal-portal/internal/tenant"
	"github.com/wicaksana/internal-portal/internal/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) user.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *Repository) GetByUsername(ctx context.Context, tenantID int64, username string) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).
		Scopes(tenant.ScopeID(tenantID)).
		Where("username = ?", username).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *Repository) List(ctx context.Context, tenantID int64) ([]*user.User, error) {
	var rows []userDatamodel.User
	err := r.db.WithContext(ctx).
		Scopes(tenant.ScopeID(tenantID)).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(rows))
	for i := range rows {
		users = append(users, user.FromDataModel(&rows[i]))
	}
	return users, nil
}

func (r *Repository) Create(ctx context.Context, u *user.User) error {
	row := user.ToDataModel(u)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	u.ID = row.ID
	u.CreatedAt = row.CreatedAt
	u.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *Repository) Update(ctx context.Context, u *user.User) error {
	result := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ? AND tenant_id = ?", u.ID, u.TenantID).
		Updates(map[string]interface{}{
			"name":      u.Name,
			"role":      u.Role,
			"is_active": u.IsActive,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}
