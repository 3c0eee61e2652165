package tenant

import (
	"gorm.io/gorm"

	"github.com/wicaksana/internal-portal/internal"
)

// Scope restricts a query to rows belonging to the actor's tenant. It is the
// outermost filter: repositories apply it before any confidentiality or grant
// filtering, and no role bypasses it on the tenant-scoped paths. Superadmin
// authority is about permission elevation, not tenant-boundary crossing.
func Scope(actor internal.Actor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", actor.TenantID)
	}
}

// ScopeID is Scope for callers that only hold a tenant id.
func ScopeID(tenantID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
