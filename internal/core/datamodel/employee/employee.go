package employee

import "time"

// Employee is a directory row mirrored from the Bubble.io data API. ExternalID
// is Bubble's unique id; rows missing from a sync run are deactivated, not
// deleted, so local references stay valid.
type Employee struct {
	ID         int64     `gorm:"primaryKey"`
	TenantID   int64     `gorm:"column:tenant_id;not null;uniqueIndex:idx_employees_tenant_external"`
	ExternalID string    `gorm:"column:external_id;not null;uniqueIndex:idx_employees_tenant_external"`
	Name       string    `gorm:"column:name;not null"`
	Email      string    `gorm:"column:email"`
	Department string    `gorm:"column:department"`
	JobTitle   string    `gorm:"column:job_title"`
	IsActive   bool      `gorm:"column:is_active;default:true"`
	SyncedAt   time.Time `gorm:"column:synced_at"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}
