package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/residency-service/internal/domain"
	"github.com/spec-kit/residency-service/internal/events"
	"github.com/spec-kit/residency-service/internal/repository/repositorytest"
)

func newUserService(t *testing.T) (*UserService, *repositorytest.UserRepo, *domain.User, *domain.User) {
	t.Helper()
	users := repositorytest.NewUserRepo()
	ctx := context.Background()

	super := &domain.User{Email: "root@example.com", Role: domain.RoleSuperAdmin}
	require.NoError(t, users.Create(ctx, super))
	resident := &domain.User{Email: "alice@example.com", Role: domain.RoleResident}
	require.NoError(t, users.Create(ctx, resident))

	return NewUserService(users, events.NewInMemoryDispatcher()), users, super, resident
}

func TestListUsersRequiresViewer(t *testing.T) {
	svc, _, super, resident := newUserService(t)
	ctx := context.Background()

	listed, err := svc.ListUsers(ctx, super)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	_, err = svc.ListUsers(ctx, resident)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestUpdateRole(t *testing.T) {
	svc, users, super, resident := newUserService(t)
	ctx := context.Background()

	updated, err := svc.UpdateRole(ctx, super, resident.ID, domain.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, updated.Role)

	stored, err := users.GetByID(ctx, resident.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, stored.Role)
}

func TestUpdateRoleRequiresSuperAdmin(t *testing.T) {
	svc, users, _, resident := newUserService(t)
	ctx := context.Background()

	admin := &domain.User{Email: "marta@example.com", Role: domain.RoleBuildingAdmin}
	require.NoError(t, users.Create(ctx, admin))

	_, err := svc.UpdateRole(ctx, admin, resident.ID, domain.RoleManager)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestUpdateRoleValidation(t *testing.T) {
	svc, _, super, resident := newUserService(t)
	ctx := context.Background()

	_, err := svc.UpdateRole(ctx, super, resident.ID, domain.Role("wizard"))
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = svc.UpdateRole(ctx, super, "missing", domain.RoleManager)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestUpdateRoleSameRoleIsNoOp(t *testing.T) {
	svc, _, super, resident := newUserService(t)

	updated, err := svc.UpdateRole(context.Background(), super, resident.ID, domain.RoleResident)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleResident, updated.Role)
}
