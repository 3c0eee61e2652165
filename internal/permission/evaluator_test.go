package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/wicaksana/internal-portal/internal"
)

func TestPermission(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Permission Module Suite")
}

// in-memory store standing in for the postgres repository
type memStore struct {
	users       map[int64]*UserRecord
	grants      map[int64]map[Area]*Grant
	allowLists  map[int64][]int64
	failWith    error
	grantReads  int
	deletedRows int
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[int64]*UserRecord),
		grants:     make(map[int64]map[Area]*Grant),
		allowLists: make(map[int64][]int64),
	}
}

func (m *memStore) addUser(u *UserRecord) { m.users[u.ID] = u }

func (m *memStore) addGrant(g *Grant) {
	if m.grants[g.UserID] == nil {
		m.grants[g.UserID] = make(map[Area]*Grant)
	}
	m.grants[g.UserID][g.Area] = g
}

func (m *memStore) GetUser(ctx context.Context, userID int64) (*UserRecord, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.users[userID], nil
}

func (m *memStore) GetGrant(ctx context.Context, userID int64, area Area) (*Grant, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.grantReads++
	if byArea, ok := m.grants[userID]; ok {
		return byArea[area], nil
	}
	return nil, nil
}

func (m *memStore) ListGrants(ctx context.Context, userID int64) ([]Grant, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []Grant
	for _, area := range Areas() {
		if g, ok := m.grants[userID][area]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *memStore) UpsertGrant(ctx context.Context, grant *Grant) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.addGrant(grant)
	return nil
}

func (m *memStore) DeleteGrant(ctx context.Context, userID int64, area Area) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	if g, ok := m.grants[userID][area]; ok && g != nil {
		delete(m.grants[userID], area)
		m.deletedRows++
		return true, nil
	}
	return false, nil
}

func (m *memStore) AddConfidentialAccess(ctx context.Context, userID, documentID, grantedBy int64) error {
	if m.failWith != nil {
		return m.failWith
	}
	for _, id := range m.allowLists[userID] {
		if id == documentID {
			return nil
		}
	}
	m.allowLists[userID] = append(m.allowLists[userID], documentID)
	return nil
}

func (m *memStore) RemoveConfidentialAccess(ctx context.Context, userID, documentID int64) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	ids := m.allowLists[userID]
	for i, id := range ids {
		if id == documentID {
			m.allowLists[userID] = append(ids[:i], ids[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListConfidentialDocumentIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.allowLists[userID], nil
}

const (
	regularUserID    int64 = 1
	managerUserID    int64 = 2
	adminUserID      int64 = 3
	superadminUserID int64 = 4
	inactiveUserID   int64 = 5
	unknownUserID    int64 = 99
)

func seedUsers(store *memStore) {
	store.addUser(&UserRecord{ID: regularUserID, TenantID: 1, Role: internal.RoleUser, IsActive: true})
	store.addUser(&UserRecord{ID: managerUserID, TenantID: 1, Role: internal.RoleManager, IsActive: true})
	store.addUser(&UserRecord{ID: adminUserID, TenantID: 1, Role: internal.RoleAdmin, IsActive: true})
	store.addUser(&UserRecord{ID: superadminUserID, TenantID: 1, Role: internal.RoleSuperadmin, IsActive: true})
	store.addUser(&UserRecord{ID: inactiveUserID, TenantID: 1, Role: internal.RoleUser, IsActive: false})
}

var _ = ginkgo.Describe("Evaluator", func() {
	var (
		store     *memStore
		evaluator *Evaluator
		ctx       context.Context
	)

	ginkgo.BeforeEach(func() {
		store = newMemStore()
		seedUsers(store)
		evaluator = NewEvaluator(store)
		ctx = context.Background()
	})

	ginkgo.Describe("CanAccess", func() {
		ginkgo.Context("with a superadmin user", func() {
			ginkgo.It("allows every area and action regardless of grant rows", func() {
				for _, area := range Areas() {
					for _, action := range []Action{ActionView, ActionEdit, ActionDelete} {
						allowed, err := evaluator.CanAccess(ctx, superadminUserID, area, action, nil)
						gomega.Expect(err).ToNot(gomega.HaveOccurred())
						gomega.Expect(allowed).To(gomega.BeTrue(), "area=%s action=%s", area, action)
					}
				}
			})

			ginkgo.It("never reads the grant table", func() {
				_, err := evaluator.CanAccess(ctx, superadminUserID, AreaFinance, ActionDelete, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(store.grantReads).To(gomega.BeZero())
			})
		})

		ginkgo.Context("with an admin user", func() {
			ginkgo.It("allows view in every area without a grant row", func() {
				for _, area := range Areas() {
					allowed, err := evaluator.CanAccess(ctx, adminUserID, area, ActionView, nil)
					gomega.Expect(err).ToNot(gomega.HaveOccurred())
					gomega.Expect(allowed).To(gomega.BeTrue(), "area=%s", area)
				}
			})

			ginkgo.It("allows every action in the documents area without a grant row", func() {
				allowed, err := evaluator.CanAccess(ctx, adminUserID, AreaDocuments, ActionDelete, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeTrue())
			})

			ginkgo.It("falls back to the grant table for edit outside documents", func() {
				allowed, err := evaluator.CanAccess(ctx, adminUserID, AreaFinance, ActionEdit, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeFalse())

				store.addGrant(&Grant{UserID: adminUserID, Area: AreaFinance, CanEdit: true})
				allowed, err = evaluator.CanAccess(ctx, adminUserID, AreaFinance, ActionEdit, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeTrue())
			})
		})

		ginkgo.Context("with a regular user", func() {
			ginkgo.It("honours the grant triple exactly", func() {
				store.addGrant(&Grant{UserID: regularUserID, Area: AreaHR, CanView: true, CanEdit: true, CanDelete: false})

				allowed, err := evaluator.CanAccess(ctx, regularUserID, AreaHR, ActionView, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeTrue())

				allowed, err = evaluator.CanAccess(ctx, regularUserID, AreaHR, ActionEdit, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeTrue())

				allowed, err = evaluator.CanAccess(ctx, regularUserID, AreaHR, ActionDelete, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeFalse())
			})

			ginkgo.It("denies every action in an area with no grant row", func() {
				for _, action := range []Action{ActionView, ActionEdit, ActionDelete} {
					allowed, err := evaluator.CanAccess(ctx, regularUserID, AreaFinance, action, nil)
					gomega.Expect(err).ToNot(gomega.HaveOccurred())
					gomega.Expect(allowed).To(gomega.BeFalse(), "action=%s", action)
				}
			})

			ginkgo.It("is idempotent across repeated identical checks", func() {
				store.addGrant(&Grant{UserID: regularUserID, Area: AreaLegal, CanView: true})

				first, err := evaluator.CanAccess(ctx, regularUserID, AreaLegal, ActionView, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				second, err := evaluator.CanAccess(ctx, regularUserID, AreaLegal, ActionView, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(first).To(gomega.Equal(second))
			})
		})

		ginkgo.Context("with a manager user", func() {
			ginkgo.It("gets no elevation beyond persisted grants", func() {
				allowed, err := evaluator.CanAccess(ctx, managerUserID, AreaOperations, ActionView, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeFalse())
			})
		})

		ginkgo.Context("with unknown or inactive users", func() {
			ginkgo.It("denies an unknown user without returning an error", func() {
				allowed, err := evaluator.CanAccess(ctx, unknownUserID, AreaDocuments, ActionView, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeFalse())
			})

			ginkgo.It("denies an inactive user", func() {
				store.addGrant(&Grant{UserID: inactiveUserID, Area: AreaDocuments, CanView: true})
				allowed, err := evaluator.CanAccess(ctx, inactiveUserID, AreaDocuments, ActionView, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeFalse())
			})
		})

		ginkgo.Context("with invalid enumeration values", func() {
			ginkgo.It("returns an error for a bad area instead of silently denying", func() {
				_, err := evaluator.CanAccess(ctx, regularUserID, Area("payroll"), ActionView, nil)
				gomega.Expect(err).To(gomega.MatchError(ErrInvalidArea))
			})

			ginkgo.It("returns an error for a bad action", func() {
				_, err := evaluator.CanAccess(ctx, regularUserID, AreaDocuments, Action("share"), nil)
				gomega.Expect(err).To(gomega.MatchError(ErrInvalidAction))
			})
		})

		ginkgo.Context("with confidential documents", func() {
			attrs := func(docID int64, allowList ...int64) *ResourceAttrs {
				return &ResourceAttrs{DocumentID: docID, TenantID: 1, IsConfidential: true, AllowList: allowList}
			}

			ginkgo.It("downgrades a grant-based allow for a regular user", func() {
				store.addGrant(&Grant{UserID: regularUserID, Area: AreaDocuments, CanView: true})

				allowed, err := evaluator.CanAccess(ctx, regularUserID, AreaDocuments, ActionView, attrs(42))
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeFalse())
			})

			ginkgo.It("keeps the allow when the document is on the allow-list", func() {
				store.addGrant(&Grant{UserID: regularUserID, Area: AreaDocuments, CanView: true})

				allowed, err := evaluator.CanAccess(ctx, regularUserID, AreaDocuments, ActionView, attrs(42, 42))
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeTrue())
			})

			ginkgo.It("does not let the allow-list override a missing grant", func() {
				allowed, err := evaluator.CanAccess(ctx, regularUserID, AreaDocuments, ActionView, attrs(42, 42))
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeFalse())
			})

			ginkgo.It("leaves admin access untouched", func() {
				allowed, err := evaluator.CanAccess(ctx, adminUserID, AreaDocuments, ActionView, attrs(42))
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeTrue())
			})

			ginkgo.It("leaves superadmin access untouched", func() {
				allowed, err := evaluator.CanAccess(ctx, superadminUserID, AreaDocuments, ActionDelete, attrs(42))
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(allowed).To(gomega.BeTrue())
			})
		})

		ginkgo.Context("when the store fails", func() {
			ginkgo.It("propagates the error", func() {
				store.failWith = errors.New("connection refused")
				_, err := evaluator.CanAccess(ctx, regularUserID, AreaDocuments, ActionView, nil)
				gomega.Expect(err).To(gomega.HaveOccurred())
			})
		})
	})

	ginkgo.Describe("EffectivePermissions", func() {
		ginkgo.It("returns all-true rows for every area for a superadmin", func() {
			perms, err := evaluator.EffectivePermissions(ctx, superadminUserID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(perms).To(gomega.HaveLen(len(Areas())))
			for _, p := range perms {
				gomega.Expect(p.CanView).To(gomega.BeTrue())
				gomega.Expect(p.CanEdit).To(gomega.BeTrue())
				gomega.Expect(p.CanDelete).To(gomega.BeTrue())
			}
		})

		ginkgo.It("returns one view-true entry per known area for an admin with no grants", func() {
			perms, err := evaluator.EffectivePermissions(ctx, adminUserID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(perms).To(gomega.HaveLen(len(Areas())))
			for _, p := range perms {
				gomega.Expect(p.CanView).To(gomega.BeTrue(), "area=%s", p.Area)
				if p.Area == AreaDocuments {
					gomega.Expect(p.CanEdit).To(gomega.BeTrue())
					gomega.Expect(p.CanDelete).To(gomega.BeTrue())
				} else {
					gomega.Expect(p.CanEdit).To(gomega.BeFalse(), "area=%s", p.Area)
					gomega.Expect(p.CanDelete).To(gomega.BeFalse(), "area=%s", p.Area)
				}
			}
		})

		ginkgo.It("passes an admin's persisted grants through with view forced true", func() {
			store.addGrant(&Grant{UserID: adminUserID, Area: AreaFinance, CanView: false, CanEdit: true, CanDelete: true})

			perms, err := evaluator.EffectivePermissions(ctx, adminUserID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			for _, p := range perms {
				if p.Area == AreaFinance {
					gomega.Expect(p.CanView).To(gomega.BeTrue())
					gomega.Expect(p.CanEdit).To(gomega.BeTrue())
					gomega.Expect(p.CanDelete).To(gomega.BeTrue())
				}
			}
		})

		ginkgo.It("returns an empty list for a brand-new regular user", func() {
			perms, err := evaluator.EffectivePermissions(ctx, regularUserID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(perms).To(gomega.BeEmpty())
		})

		ginkgo.It("returns exactly the persisted grants for a regular user", func() {
			store.addGrant(&Grant{UserID: regularUserID, Area: AreaHR, CanView: true, CanEdit: true})

			perms, err := evaluator.EffectivePermissions(ctx, regularUserID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(perms).To(gomega.HaveLen(1))
			gomega.Expect(perms[0].Area).To(gomega.Equal(AreaHR))
			gomega.Expect(perms[0].CanView).To(gomega.BeTrue())
			gomega.Expect(perms[0].CanEdit).To(gomega.BeTrue())
			gomega.Expect(perms[0].CanDelete).To(gomega.BeFalse())
		})

		ginkgo.It("returns an empty list for an unknown user", func() {
			perms, err := evaluator.EffectivePermissions(ctx, unknownUserID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(perms).To(gomega.BeEmpty())
		})
	})
})
