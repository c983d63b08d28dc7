package user_test

import (
	"context"
	"errors"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	"github.com/corpotravel/trip-management/internal/user"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockUserRepo struct {
	users map[int64]*auth.User
}

func (m *mockUserRepo) ListUsers(_ context.Context) ([]*auth.User, error) {
	var out []*auth.User
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockUserRepo) UpdateRole(_ context.Context, userID int64, role string, isActive *bool) (*auth.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	u.Role = role
	if isActive != nil {
		u.IsActive = *isActive
	}
	cp := *u
	return &cp, nil
}

var _ = Describe("User Service", func() {
	var (
		repo  *mockUserRepo
		svc   *user.Service
		admin *auth.User
		ctx   context.Context
	)

	BeforeEach(func() {
		repo = &mockUserRepo{users: map[int64]*auth.User{
			1: {ID: 1, Role: auth.RoleDesenvolvedor, IsActive: true},
			2: {ID: 2, Role: auth.RoleColaborador, IsActive: true},
		}}
		svc = user.NewService(repo)
		admin = &auth.User{ID: 1, Role: auth.RoleDesenvolvedor, IsActive: true}
		ctx = context.Background()
	})

	It("promotes an account to an approver role", func() {
		updated, err := svc.UpdateRole(ctx, admin, 2, user.UpdateRoleDTO{Role: auth.RoleGestor})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Role).To(Equal(auth.RoleGestor))
	})

	It("rejects an unknown role", func() {
		_, err := svc.UpdateRole(ctx, admin, 2, user.UpdateRoleDTO{Role: "SUPREMO"})
		Expect(err).To(HaveOccurred())
	})

	It("refuses self role changes", func() {
		_, err := svc.UpdateRole(ctx, admin, 1, user.UpdateRoleDTO{Role: auth.RoleColaborador})
		Expect(err).To(HaveOccurred())
	})

	It("surfaces not found for a missing account", func() {
		_, err := svc.UpdateRole(ctx, admin, 999, user.UpdateRoleDTO{Role: auth.RoleGestor})
		Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
	})

	It("can deactivate an account alongside a role change", func() {
		inactive := false
		updated, err := svc.UpdateRole(ctx, admin, 2, user.UpdateRoleDTO{Role: auth.RoleColaborador, IsActive: &inactive})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.IsActive).To(BeFalse())
	})
})
