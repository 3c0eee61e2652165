package directory

import (
	"time"

	employeeDatamodel "github.com/wicaksana/internal-portal/internal/core/datamodel/employee"
)

type Employee struct {
	ID         int64     `json:"id"`
	TenantID   int64     `json:"tenant_id"`
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	JobTitle   string    `json:"job_title"`
	IsActive   bool      `json:"is_active"`
	SyncedAt   time.Time `json:"synced_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SyncResult summarizes one directory synchronization run.
type SyncResult struct {
	Created     int       `json:"created"`
	Updated     int       `json:"updated"`
	Deactivated int       `json:"deactivated"`
	SyncedAt    time.Time `json:"synced_at"`
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:         e.ID,
		TenantID:   e.TenantID,
		ExternalID: e.ExternalID,
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
		JobTitle:   e.JobTitle,
		IsActive:   e.IsActive,
		SyncedAt:   e.SyncedAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func FromDataModel(dm *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:         dm.ID,
		TenantID:   dm.TenantID,
		ExternalID: dm.ExternalID,
		Name:       dm.Name,
		Email:      dm.Email,
		Department: dm.Department,
		JobTitle:   dm.JobTitle,
		IsActive:   dm.IsActive,
		SyncedAt:   dm.SyncedAt,
		CreatedAt:  dm.CreatedAt,
		UpdatedAt:  dm.UpdatedAt,
	}
}
