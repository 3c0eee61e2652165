package directory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/wicaksana/internal-portal/internal"
	"github.com/wicaksana/internal-portal/internal/core/events"
	"github.com/wicaksana/internal-portal/internal/directory/bubble"
	"github.com/wicaksana/internal-portal/internal/permission"
)

func TestDirectory(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Directory Module Suite")
}

type mockEmployeeRepository struct {
	employees map[string]*Employee // keyed by externalID
	nextID    int64
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{employees: map[string]*Employee{}}
}

func (m *mockEmployeeRepository) GetByID(_ context.Context, tenantID, id int64) (*Employee, error) {
	for _, e := range m.employees {
		if e.ID == id && e.TenantID == tenantID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockEmployeeRepository) GetByExternalID(_ context.Context, tenantID int64, externalID string) (*Employee, error) {
	e, ok := m.employees[externalID]
	if !ok || e.TenantID != tenantID {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (m *mockEmployeeRepository) List(_ context.Context, tenantID int64, activeOnly bool) ([]*Employee, error) {
	var out []*Employee
	for _, e := range m.employees {
		if e.TenantID != tenantID {
			continue
		}
		if activeOnly && !e.IsActive {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockEmployeeRepository) Create(_ context.Context, e *Employee) error {
	m.nextID++
	e.ID = m.nextID
	copied := *e
	m.employees[e.ExternalID] = &copied
	return nil
}

func (m *mockEmployeeRepository) Update(_ context.Context, e *Employee) error {
	copied := *e
	m.employees[e.ExternalID] = &copied
	return nil
}

func (m *mockEmployeeRepository) DeactivateMissing(_ context.Context, tenantID int64, seen []string, syncedAt time.Time) (int64, error) {
	seenSet := make(map[string]struct{}, len(seen))
	for _, id := range seen {
		seenSet[id] = struct{}{}
	}

	var count int64
	for extID, e := range m.employees {
		if e.TenantID != tenantID || !e.IsActive {
			continue
		}
		if _, ok := seenSet[extID]; !ok {
			e.IsActive = false
			e.SyncedAt = syncedAt
			count++
		}
	}
	return count, nil
}

type stubFetcher struct {
	records []bubble.EmployeeRecord
	err     error
}

func (f *stubFetcher) FetchEmployees(_ context.Context) ([]bubble.EmployeeRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type allowAllChecker struct{ denied map[int64]bool }

func (c *allowAllChecker) CheckPermission(_ context.Context, userID int64, _ permission.Area, _ permission.Action) (bool, error) {
	return !c.denied[userID], nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

var _ = ginkgo.Describe("Directory Service", func() {
	var (
		repo    *mockEmployeeRepository
		fetcher *stubFetcher
		access  *allowAllChecker
		bus     *recordingBus
		service *Service
	)

	adminCtx := internal.ContextWithActor(context.Background(), internal.Actor{
		UserID: 2, TenantID: 1, Role: internal.RoleAdmin,
	})
	regularCtx := internal.ContextWithActor(context.Background(), internal.Actor{
		UserID: 1, TenantID: 1, Role: internal.RoleUser,
	})

	ginkgo.BeforeEach(func() {
		repo = newMockEmployeeRepository()
		fetcher = &stubFetcher{
			records: []bubble.EmployeeRecord{
				{ID: "bbl-1", Name: "Dina", Email: "dina@acme.example", Department: "Engineering", JobTitle: "Engineer", Active: true},
				{ID: "bbl-2", Name: "Bagus", Email: "bagus@acme.example", Department: "Finance", JobTitle: "Analyst", Active: true},
			},
		}
		access = &allowAllChecker{denied: map[int64]bool{}}
		bus = &recordingBus{}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = NewService(repo, fetcher, access, bus, logger)
	})

	ginkgo.Describe("SyncTenant", func() {
		ginkgo.It("creates rows on the first run", func() {
			result, err := service.SyncTenant(context.Background(), 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.Created).To(gomega.Equal(2))
			gomega.Expect(result.Updated).To(gomega.Equal(0))
			gomega.Expect(result.Deactivated).To(gomega.Equal(0))
		})

		ginkgo.It("updates known rows on later runs", func() {
			_, err := service.SyncTenant(context.Background(), 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			fetcher.records[0].JobTitle = "Staff Engineer"
			result, err := service.SyncTenant(context.Background(), 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.Created).To(gomega.Equal(0))
			gomega.Expect(result.Updated).To(gomega.Equal(2))

			e, err := repo.GetByExternalID(context.Background(), 1, "bbl-1")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(e.JobTitle).To(gomega.Equal("Staff Engineer"))
		})

		ginkgo.It("deactivates rows missing upstream", func() {
			_, err := service.SyncTenant(context.Background(), 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			fetcher.records = fetcher.records[:1]
			result, err := service.SyncTenant(context.Background(), 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.Deactivated).To(gomega.Equal(1))

			e, err := repo.GetByExternalID(context.Background(), 1, "bbl-2")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(e.IsActive).To(gomega.BeFalse())
		})

		ginkgo.It("skips records without an id", func() {
			fetcher.records = append(fetcher.records, bubble.EmployeeRecord{Name: "Ghost"})
			result, err := service.SyncTenant(context.Background(), 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.Created).To(gomega.Equal(2))
		})

		ginkgo.It("publishes a completion event", func() {
			_, err := service.SyncTenant(context.Background(), 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(bus.published).To(gomega.HaveLen(1))
			gomega.Expect(bus.published[0].EventType()).To(gomega.Equal(events.EventTypeEmployeeSyncCompleted))
		})

		ginkgo.It("surfaces upstream failures as external errors", func() {
			fetcher.err = errors.New("bubble is down")
			_, err := service.SyncTenant(context.Background(), 1)
			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeExternal))
		})
	})

	ginkgo.Describe("SyncNow", func() {
		ginkgo.It("allows admins", func() {
			result, err := service.SyncNow(adminCtx)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.Created).To(gomega.Equal(2))
		})

		ginkgo.It("rejects regular users", func() {
			_, err := service.SyncNow(regularCtx)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrPermissionDenied))
		})
	})

	ginkgo.Describe("ListEmployees", func() {
		ginkgo.BeforeEach(func() {
			_, err := service.SyncTenant(context.Background(), 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("returns active employees", func() {
			employees, err := service.ListEmployees(regularCtx, true)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(employees).To(gomega.HaveLen(2))
		})

		ginkgo.It("rejects callers without hr view access", func() {
			access.denied[1] = true
			_, err := service.ListEmployees(regularCtx, true)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrPermissionDenied))
		})

		ginkgo.It("can include deactivated employees", func() {
			fetcher.records = fetcher.records[:1]
			_, err := service.SyncTenant(context.Background(), 1)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			active, err := service.ListEmployees(regularCtx, true)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(active).To(gomega.HaveLen(1))

			all, err := service.ListEmployees(regularCtx, false)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(all).To(gomega.HaveLen(2))
		})
	})

	ginkgo.Describe("GetEmployee", func() {
		ginkgo.It("returns not found for unknown ids", func() {
			_, err := service.GetEmployee(regularCtx, 999)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrEmployeeNotFound))
		})
	})
})
