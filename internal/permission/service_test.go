package permission

import (
	"context"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/wicaksana/internal-portal/internal"
	"github.com/wicaksana/internal-portal/internal/core/events"
	"github.com/wicaksana/internal-portal/pkg/logger"
)

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

var _ = ginkgo.Describe("PermissionService", func() {
	var (
		store   *memStore
		bus     *recordingBus
		service *Service
		ctx     context.Context

		superadmin internal.Actor
		admin      internal.Actor
		regular    internal.Actor
	)

	ginkgo.BeforeEach(func() {
		store = newMemStore()
		seedUsers(store)
		bus = &recordingBus{}
		service = NewService(store, bus, logger.L())
		ctx = context.Background()

		superadmin = internal.Actor{UserID: superadminUserID, TenantID: 1, Role: internal.RoleSuperadmin}
		admin = internal.Actor{UserID: adminUserID, TenantID: 1, Role: internal.RoleAdmin}
		regular = internal.Actor{UserID: regularUserID, TenantID: 1, Role: internal.RoleUser}
	})

	ginkgo.Describe("UpsertGrant", func() {
		ginkgo.It("persists a grant when the actor is superadmin", func() {
			grant, err := service.UpsertGrant(ctx, superadmin, regularUserID, AreaFinance, true, true, false)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(grant.Area).To(gomega.Equal(AreaFinance))

			allowed, err := service.CheckPermission(ctx, regularUserID, AreaFinance, ActionEdit)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeTrue())
		})

		ginkgo.It("replaces an existing grant for the same user and area", func() {
			_, err := service.UpsertGrant(ctx, superadmin, regularUserID, AreaHR, true, true, true)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.UpsertGrant(ctx, superadmin, regularUserID, AreaHR, true, false, false)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			allowed, err := service.CheckPermission(ctx, regularUserID, AreaHR, ActionDelete)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeFalse())
		})

		ginkgo.It("rejects an admin actor", func() {
			_, err := service.UpsertGrant(ctx, admin, regularUserID, AreaFinance, true, false, false)
			gomega.Expect(err).To(gomega.Equal(internal.ErrSuperadminOnly))
		})

		ginkgo.It("rejects a regular actor", func() {
			_, err := service.UpsertGrant(ctx, regular, managerUserID, AreaFinance, true, false, false)
			gomega.Expect(err).To(gomega.Equal(internal.ErrSuperadminOnly))
		})

		ginkgo.It("rejects an unknown target user", func() {
			_, err := service.UpsertGrant(ctx, superadmin, unknownUserID, AreaFinance, true, false, false)
			gomega.Expect(err).To(gomega.Equal(internal.ErrUserNotFound))
		})
	})

	ginkgo.Describe("DeleteGrant", func() {
		ginkgo.It("removes the grant and the user loses access", func() {
			_, err := service.UpsertGrant(ctx, superadmin, regularUserID, AreaLegal, true, false, false)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			err = service.DeleteGrant(ctx, superadmin, regularUserID, AreaLegal)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			allowed, err := service.CheckPermission(ctx, regularUserID, AreaLegal, ActionView)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeFalse())
		})

		ginkgo.It("returns not found when no grant row exists", func() {
			err := service.DeleteGrant(ctx, superadmin, regularUserID, AreaLegal)
			gomega.Expect(err).To(gomega.Equal(internal.ErrGrantNotFound))
		})

		ginkgo.It("rejects non-superadmin actors", func() {
			err := service.DeleteGrant(ctx, admin, regularUserID, AreaLegal)
			gomega.Expect(err).To(gomega.Equal(internal.ErrSuperadminOnly))
		})
	})

	ginkgo.Describe("GrantConfidentialAccess", func() {
		ginkgo.It("adds the document to the allow-list and publishes an event", func() {
			err := service.GrantConfidentialAccess(ctx, superadmin, regularUserID, 42)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			ids, err := service.ConfidentialAllowList(ctx, regularUserID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ids).To(gomega.ContainElement(int64(42)))

			gomega.Expect(bus.published).To(gomega.HaveLen(1))
			gomega.Expect(bus.published[0].EventType()).To(gomega.Equal(events.EventTypeConfidentialAccessGranted))
		})

		ginkgo.It("is idempotent for repeated grants", func() {
			gomega.Expect(service.GrantConfidentialAccess(ctx, superadmin, regularUserID, 42)).To(gomega.Succeed())
			gomega.Expect(service.GrantConfidentialAccess(ctx, superadmin, regularUserID, 42)).To(gomega.Succeed())

			ids, err := service.ConfidentialAllowList(ctx, regularUserID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ids).To(gomega.HaveLen(1))
		})

		ginkgo.It("rejects non-superadmin actors", func() {
			err := service.GrantConfidentialAccess(ctx, admin, regularUserID, 42)
			gomega.Expect(err).To(gomega.Equal(internal.ErrSuperadminOnly))
		})
	})

	ginkgo.Describe("RevokeConfidentialAccess", func() {
		ginkgo.It("removes the allow-list entry", func() {
			gomega.Expect(service.GrantConfidentialAccess(ctx, superadmin, regularUserID, 42)).To(gomega.Succeed())

			err := service.RevokeConfidentialAccess(ctx, superadmin, regularUserID, 42)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			ids, err := service.ConfidentialAllowList(ctx, regularUserID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ids).To(gomega.BeEmpty())
		})

		ginkgo.It("returns not found for a missing entry", func() {
			err := service.RevokeConfidentialAccess(ctx, superadmin, regularUserID, 42)
			gomega.Expect(err).To(gomega.Equal(internal.ErrGrantNotFound))
		})
	})

	ginkgo.Describe("CheckDocumentAccess", func() {
		ginkgo.BeforeEach(func() {
			store.addGrant(&Grant{UserID: regularUserID, Area: AreaDocuments, CanView: true})
		})

		ginkgo.It("denies a confidential document without an allow-list entry", func() {
			allowed, err := service.CheckDocumentAccess(ctx, regularUserID, ActionView, 42, 1, true)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeFalse())
		})

		ginkgo.It("allows once confidential access has been granted", func() {
			gomega.Expect(service.GrantConfidentialAccess(ctx, superadmin, regularUserID, 42)).To(gomega.Succeed())

			allowed, err := service.CheckDocumentAccess(ctx, regularUserID, ActionView, 42, 1, true)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeTrue())
		})

		ginkgo.It("allows a non-confidential document on the area grant alone", func() {
			allowed, err := service.CheckDocumentAccess(ctx, regularUserID, ActionView, 7, 1, false)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(allowed).To(gomega.BeTrue())
		})
	})
})
