package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wicaksana/internal-portal/internal"
	permissionDatamodel "github.com/wicaksana/internal-portal/internal/core/datamodel/permission"
	userDatamodel "github.com/wicaksana/internal-portal/internal/core/datamodel/user"
	"github.com/wicaksana/internal-portal/internal/permission"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) permission.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetUser(ctx context.Context, userID int64) (*permission.UserRecord, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	role, err := internal.ParseRole(row.Role)
	if err != nil {
		return nil, err
	}
	return &permission.UserRecord{
		ID:       row.ID,
		TenantID: row.TenantID,
		Role:     role,
		IsActive: row.IsActive,
	}, nil
}

func (r *Repository) GetGrant(ctx context.Context, userID int64, area permission.Area) (*permission.Grant, error) {
	var row permissionDatamodel.PermissionGrant
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND area = ?", userID, string(area)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return permission.FromDataModel(&row)
}

func (r *Repository) ListGrants(ctx context.Context, userID int64) ([]permission.Grant, error) {
	var rows []permissionDatamodel.PermissionGrant
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("area ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	grants := make([]permission.Grant, 0, len(rows))
	for i := range rows {
		g, err := permission.FromDataModel(&rows[i])
		if err != nil {
			return nil, err
		}
		grants = append(grants, *g)
	}
	return grants, nil
}

// UpsertGrant relies on the (user_id, area) unique index: an existing row is
// replaced in place, last writer wins.
func (r *Repository) UpsertGrant(ctx context.Context, grant *permission.Grant) error {
	row := permission.ToDataModel(grant)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "area"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"can_view", "can_edit", "can_delete", "updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		return err
	}
	grant.ID = row.ID
	return nil
}

func (r *Repository) DeleteGrant(ctx context.Context, userID int64, area permission.Area) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND area = ?", userID, string(area)).
		Delete(&permissionDatamodel.PermissionGrant{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) AddConfidentialAccess(ctx context.Context, userID, documentID, grantedBy int64) error {
	row := &permissionDatamodel.ConfidentialAccessGrant{
		UserID:     userID,
		DocumentID: documentID,
		GrantedBy:  &grantedBy,
	}
	// repeated grants are a no-op, the allow-list is a set
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "document_id"}},
		DoNothing: true,
	}).Create(row).Error
}

func (r *Repository) RemoveConfidentialAccess(ctx context.Context, userID, documentID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND document_id = ?", userID, documentID).
		Delete(&permissionDatamodel.ConfidentialAccessGrant{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) ListConfidentialDocumentIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&permissionDatamodel.ConfidentialAccessGrant{}).
		Where("user_id = ?", userID).
		Pluck("document_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
