package directory_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wicaksana/internal-portal/internal"
	employeeDatamodel "github.com/wicaksana/internal-portal/internal/core/datamodel/employee"
	"github.com/wicaksana/internal-portal/internal/core/events"
	"github.com/wicaksana/internal-portal/internal/directory"
	directoryPostgres "github.com/wicaksana/internal-portal/internal/directory/postgres"
	"github.com/wicaksana/internal-portal/internal/permission"
)

type hrChecker struct {
	allowed bool
}

func (c *hrChecker) CheckPermission(_ context.Context, _ int64, _ permission.Area, _ permission.Action) (bool, error) {
	return c.allowed, nil
}

var _ = Describe("Directory Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    directory.RepositoryAPI
		checker *hrChecker
		handler *directory.Handler
		slogger *slog.Logger
	)

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&employeeDatamodel.Employee{})
		Expect(err).NotTo(HaveOccurred())

		repo = directoryPostgres.NewRepository(db)
		checker = &hrChecker{allowed: true}
		service := directory.NewService(repo, nil, checker, events.NewEventBus(slogger), slogger)
		handler = directory.NewHandler(service, slogger)

		now := time.Now().UTC()
		seed := []*directory.Employee{
			{TenantID: 1, ExternalID: "bbl-1", Name: "Ayu", Email: "ayu@acme.example", Department: "Finance", JobTitle: "Analyst", IsActive: true, SyncedAt: now},
			{TenantID: 1, ExternalID: "bbl-2", Name: "Joko", Email: "joko@acme.example", Department: "Legal", JobTitle: "Counsel", IsActive: false, SyncedAt: now},
			{TenantID: 2, ExternalID: "bbl-3", Name: "Rina", Email: "rina@other.example", Department: "HR", JobTitle: "Partner", IsActive: true, SyncedAt: now},
		}
		for _, e := range seed {
			Expect(repo.Create(context.Background(), e)).To(Succeed())
		}
	})

	requestAs := func(actor internal.Actor, target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req = req.WithContext(internal.ContextWithActor(req.Context(), actor))
		w := httptest.NewRecorder()
		handler.ListEmployees(w, req)
		return w
	}

	It("lists only the caller tenant's active employees", func() {
		w := requestAs(internal.Actor{UserID: 10, TenantID: 1, Role: internal.RoleUser}, "/employees")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response struct {
			Employees []*directory.Employee `json:"employees"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Employees).To(HaveLen(1))
		Expect(response.Employees[0].Name).To(Equal("Ayu"))
	})

	It("includes deactivated employees when asked", func() {
		w := requestAs(internal.Actor{UserID: 10, TenantID: 1, Role: internal.RoleUser}, "/employees?include_inactive=true")

		Expect(w.Code).To(Equal(http.StatusOK))

		var response struct {
			Employees []*directory.Employee `json:"employees"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Employees).To(HaveLen(2))
	})

	It("returns 403 when the caller lacks hr view access", func() {
		checker.allowed = false

		w := requestAs(internal.Actor{UserID: 10, TenantID: 1, Role: internal.RoleUser}, "/employees")

		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("returns 401 without an authenticated actor", func() {
		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		w := httptest.NewRecorder()

		handler.ListEmployees(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
