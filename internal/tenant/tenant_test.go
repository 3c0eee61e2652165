package tenant_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wicaksana/internal-portal/internal"
	"github.com/wicaksana/internal-portal/internal/tenant"
)

func TestTenant(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Tenant Scope Suite")
}

// SQLiteDocument is a SQLite-compatible model for testing
type SQLiteDocument struct {
	ID        int64     `gorm:"primaryKey"`
	TenantID  int64     `gorm:"column:tenant_id;not null"`
	Title     string    `gorm:"column:title"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SQLiteDocument) TableName() string {
	return "documents"
}

var _ = Describe("Scope", func() {
	var db *gorm.DB

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&SQLiteDocument{})).To(Succeed())

		rows := []SQLiteDocument{
			{TenantID: 1, Title: "tenant one handbook"},
			{TenantID: 1, Title: "tenant one org chart"},
			{TenantID: 2, Title: "tenant two handbook"},
		}
		Expect(db.Create(&rows).Error).To(Succeed())
	})

	It("returns only rows from the actor's tenant", func() {
		actor := internal.Actor{UserID: 1, TenantID: 1, Role: internal.RoleUser}

		var docs []SQLiteDocument
		err := db.Scopes(tenant.Scope(actor)).Find(&docs).Error
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(2))
		for _, d := range docs {
			Expect(d.TenantID).To(Equal(int64(1)))
		}
	})

	It("returns empty for a tenant with no rows instead of failing", func() {
		actor := internal.Actor{UserID: 1, TenantID: 3, Role: internal.RoleUser}

		var docs []SQLiteDocument
		err := db.Scopes(tenant.Scope(actor)).Find(&docs).Error
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(BeEmpty())
	})

	It("scopes superadmin actors like everyone else", func() {
		actor := internal.Actor{UserID: 9, TenantID: 2, Role: internal.RoleSuperadmin}

		var docs []SQLiteDocument
		err := db.Scopes(tenant.Scope(actor)).Find(&docs).Error
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(1))
		Expect(docs[0].TenantID).To(Equal(int64(2)))
	})

	It("hides single rows from other tenants on fetch", func() {
		actor := internal.Actor{UserID: 1, TenantID: 1, Role: internal.RoleAdmin}

		var doc SQLiteDocument
		err := db.Scopes(tenant.Scope(actor)).Where("title = ?", "tenant two handbook").First(&doc).Error
		Expect(err).To(MatchError(gorm.ErrRecordNotFound))
	})
})
