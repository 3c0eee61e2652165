package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	documentDatamodel "github.com/wicaksana/internal-portal/internal/core/datamodel/document"
	"github.com/wicaksana/internal-portal/internal/document"
	"github.com/wicaksana/internal-portal/internal/tenant"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) document.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, d *document.Document) error {
	row := document.ToDataModel(d)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	d.ID = row.ID
	d.CreatedAt = row.CreatedAt
	d.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*document.Document, error) {
	var row documentDatamodel.Document
	err := r.db.WithContext(ctx).
		Scopes(tenant.ScopeID(tenantID)).
		Where("id = ? AND deleted = ?", id, false).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return document.FromDataModel(&row), nil
}

func (r *Repository) List(ctx context.Context, tenantID int64, limit, offset int) ([]*document.Document, error) {
	var rows []documentDatamodel.Document
	err := r.db.WithContext(ctx).
		Scopes(tenant.ScopeID(tenantID)).
		Where("deleted = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	docs := make([]*document.Document, 0, len(rows))
	for i := range rows {
		docs = append(docs, document.FromDataModel(&rows[i]))
	}
	return docs, nil
}

func (r *Repository) Update(ctx context.Context, d *document.Document) error {
	return r.db.WithContext(ctx).
		Model(&documentDatamodel.Document{}).
		Scopes(tenant.ScopeID(d.TenantID)).
		Where("id = ? AND deleted = ?", d.ID, false).
		Updates(map[string]interface{}{
			"title":           d.Title,
			"is_confidential": d.IsConfidential,
		}).Error
}

func (r *Repository) SoftDelete(ctx context.Context, tenantID, id int64) error {
	return r.db.WithContext(ctx).
		Model(&documentDatamodel.Document{}).
		Scopes(tenant.ScopeID(tenantID)).
		Where("id = ?", id).
		Update("deleted", true).Error
}
