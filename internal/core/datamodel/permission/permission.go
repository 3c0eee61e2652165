package permission

import "time"

// PermissionGrant is the persisted (user, area) permission triple. Grants are
// unique per (user_id, area); absence of a row means no access.
type PermissionGrant struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_grants_user_area"`
	Area      string    `gorm:"column:area;not null;uniqueIndex:idx_grants_user_area"`
	CanView   bool      `gorm:"column:can_view;default:false"`
	CanEdit   bool      `gorm:"column:can_edit;default:false"`
	CanDelete bool      `gorm:"column:can_delete;default:false"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (PermissionGrant) TableName() string {
	return "permission_grants"
}

// ConfidentialAccessGrant is an ad hoc allow-list entry letting one non-admin
// user view one confidential document.
type ConfidentialAccessGrant struct {
	ID         int64     `gorm:"primaryKey"`
	UserID     int64     `gorm:"column:user_id;not null;uniqueIndex:idx_confidential_user_doc"`
	DocumentID int64     `gorm:"column:document_id;not null;uniqueIndex:idx_confidential_user_doc"`
	GrantedBy  *int64    `gorm:"column:granted_by"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (ConfidentialAccessGrant) TableName() string {
	return "confidential_access_grants"
}
