package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/residency-service/internal/domain"
	"github.com/spec-kit/residency-service/internal/events"
	"github.com/spec-kit/residency-service/internal/repository/repositorytest"
	apperrors "github.com/spec-kit/residency-service/pkg/util"
)

type membershipFixture struct {
	svc       *MembershipService
	users     *repositorytest.UserRepo
	buildings *repositorytest.BuildingRepo
	building  *domain.Building
	unit      *domain.Unit
	resident  *domain.User
	admin     *domain.User
	manager   *domain.User
}

func newMembershipFixture(t *testing.T) *membershipFixture {
	t.Helper()
	ctx := context.Background()

	users := repositorytest.NewUserRepo()
	buildings := repositorytest.NewBuildingRepo()
	units := repositorytest.NewUnitRepo()
	memberships := repositorytest.NewMembershipRepo()

	building := &domain.Building{Name: "Harbor Tower", Address: "12 Quay St"}
	require.NoError(t, buildings.Create(ctx, building))
	unit := &domain.Unit{BuildingID: building.ID, UnitNumber: "4B", Floor: 4}
	require.NoError(t, units.Create(ctx, unit))

	resident := &domain.User{Email: "alice@example.com", Role: domain.RoleResident}
	require.NoError(t, users.Create(ctx, resident))
	admin := &domain.User{Email: "marta@example.com", Role: domain.RoleBuildingAdmin}
	require.NoError(t, users.Create(ctx, admin))
	manager := &domain.User{Email: "max@example.com", Role: domain.RoleManager}
	require.NoError(t, users.Create(ctx, manager))

	svc := NewMembershipService(MembershipDependencies{
		MembershipRepo: memberships,
		BuildingRepo:   buildings,
		UnitRepo:       units,
		UserRepo:       users,
		Dispatcher:     events.NewInMemoryDispatcher(),
	})

	return &membershipFixture{
		svc:       svc,
		users:     users,
		buildings: buildings,
		building:  building,
		unit:      unit,
		resident:  resident,
		admin:     admin,
		manager:   manager,
	}
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}

func TestRequestAccessCreatesPendingMembership(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	m, err := fx.svc.RequestAccess(ctx, fx.resident, fx.building.ID, fx.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipStatusPending, m.Status)
	assert.Equal(t, fx.unit.ID, m.UnitID)
	assert.Equal(t, fx.resident.ID, m.UserID)
	assert.Equal(t, domain.MemberRoleResident, m.Role)
	assert.NotEmpty(t, m.ID)
}

func TestRequestAccessUnknownBuilding(t *testing.T) {
	fx := newMembershipFixture(t)

	_, err := fx.svc.RequestAccess(context.Background(), fx.resident, "missing", fx.unit.ID)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestRequestAccessUnitFromAnotherBuilding(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	other := &domain.Building{Name: "Annex", Address: "1 Side St"}
	require.NoError(t, fx.buildings.Create(ctx, other))

	_, err := fx.svc.RequestAccess(ctx, fx.resident, other.ID, fx.unit.ID)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestRequestAccessDuplicateConflicts(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	first, err := fx.svc.RequestAccess(ctx, fx.resident, fx.building.ID, fx.unit.ID)
	require.NoError(t, err)

	_, err = fx.svc.RequestAccess(ctx, fx.resident, fx.building.ID, fx.unit.ID)
	assert.Equal(t, "CONFLICT", errCode(t, err))

	// Still a conflict once the membership is active.
	_, err = fx.svc.Decide(ctx, fx.admin, fx.building.ID, first.ID, domain.MembershipStatusActive)
	require.NoError(t, err)
	_, err = fx.svc.RequestAccess(ctx, fx.resident, fx.building.ID, fx.unit.ID)
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestRequestAccessAllowedAfterRejection(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	first, err := fx.svc.RequestAccess(ctx, fx.resident, fx.building.ID, fx.unit.ID)
	require.NoError(t, err)
	_, err = fx.svc.Decide(ctx, fx.admin, fx.building.ID, first.ID, domain.MembershipStatusRejected)
	require.NoError(t, err)

	second, err := fx.svc.RequestAccess(ctx, fx.resident, fx.building.ID, fx.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipStatusPending, second.Status)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestListPendingRequiresDecider(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	for _, actor := range []*domain.User{fx.resident, fx.manager} {
		_, err := fx.svc.ListPending(ctx, actor, fx.building.ID)
		assert.Equal(t, "FORBIDDEN", errCode(t, err))
	}
}

func TestListPendingOnlyIncludesPending(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	bob := &domain.User{Email: "bob@example.com", Role: domain.RoleResident}
	require.NoError(t, fx.users.Create(ctx, bob))

	mAlice, err := fx.svc.RequestAccess(ctx, fx.resident, fx.building.ID, fx.unit.ID)
	require.NoError(t, err)
	mBob, err := fx.svc.RequestAccess(ctx, bob, fx.building.ID, fx.unit.ID)
	require.NoError(t, err)

	_, err = fx.svc.Decide(ctx, fx.admin, fx.building.ID, mAlice.ID, domain.MembershipStatusActive)
	require.NoError(t, err)

	pending, err := fx.svc.ListPending(ctx, fx.admin, fx.building.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, mBob.ID, pending[0].ID)
	assert.Equal(t, domain.MembershipStatusPending, pending[0].Status)
}

func TestDecideApproveWorkflow(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	requested, err := fx.svc.RequestAccess(ctx, fx.resident, fx.building.ID, fx.unit.ID)
	require.NoError(t, err)

	pending, err := fx.svc.ListPending(ctx, fx.admin, fx.building.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, requested.ID, pending[0].ID)

	decided, err := fx.svc.Decide(ctx, fx.admin, fx.building.ID, requested.ID, domain.MembershipStatusActive)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipStatusActive, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, fx.admin.ID, *decided.DecidedBy)
	assert.NotNil(t, decided.DecidedAt)

	mine, err := fx.svc.MyStatus(ctx, fx.resident, fx.building.ID)
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, domain.MembershipStatusActive, mine.Status)
}

func TestDecideTwiceFailsWithInvalidTransition(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	requested, err := fx.svc.RequestAccess(ctx, fx.resident, fx.building.ID, fx.unit.ID)
	require.NoError(t, err)

	_, err = fx.svc.Decide(ctx, fx.admin, fx.building.ID, requested.ID, domain.MembershipStatusActive)
	require.NoError(t, err)

	// A second decision, even with a different outcome, must fail loudly.
	_, err = fx.svc.Decide(ctx, fx.admin, fx.building.ID, requested.ID, domain.MembershipStatusRejected)
	assert.Equal(t, "INVALID_TRANSITION", errCode(t, err))

	// The record keeps its first decision.
	mine, err := fx.svc.MyStatus(ctx, fx.resident, fx.building.ID)
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, domain.MembershipStatusActive, mine.Status)
}

func TestDecideRejectsBadDecisionValue(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	requested, err := fx.svc.RequestAccess(ctx, fx.resident, fx.building.ID, fx.unit.ID)
	require.NoError(t, err)

	_, err = fx.svc.Decide(ctx, fx.admin, fx.building.ID, requested.ID, domain.MembershipStatusPending)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = fx.svc.Decide(ctx, fx.admin, fx.building.ID, requested.ID, domain.MembershipStatus("bogus"))
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestDecideForbiddenForNonAdmins(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	requested, err := fx.svc.RequestAccess(ctx, fx.resident, fx.building.ID, fx.unit.ID)
	require.NoError(t, err)

	for _, actor := range []*domain.User{fx.resident, fx.manager} {
		_, err := fx.svc.Decide(ctx, actor, fx.building.ID, requested.ID, domain.MembershipStatusActive)
		assert.Equal(t, "FORBIDDEN", errCode(t, err))
	}
}

func TestDecideMembershipFromAnotherBuilding(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	other := &domain.Building{Name: "Annex", Address: "1 Side St"}
	require.NoError(t, fx.buildings.Create(ctx, other))

	requested, err := fx.svc.RequestAccess(ctx, fx.resident, fx.building.ID, fx.unit.ID)
	require.NoError(t, err)

	_, err = fx.svc.Decide(ctx, fx.admin, other.ID, requested.ID, domain.MembershipStatusActive)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestMyStatusWithoutMembershipReturnsNil(t *testing.T) {
	fx := newMembershipFixture(t)

	membership, err := fx.svc.MyStatus(context.Background(), fx.resident, fx.building.ID)
	require.NoError(t, err)
	assert.Nil(t, membership)
}

func TestMyStatusUnknownBuilding(t *testing.T) {
	fx := newMembershipFixture(t)

	_, err := fx.svc.MyStatus(context.Background(), fx.resident, "missing")
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestAddMemberCreatesActiveMembership(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	m, err := fx.svc.AddMember(ctx, fx.admin, fx.building.ID, fx.unit.ID, fx.resident.ID, domain.MemberRoleOwner)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipStatusActive, m.Status)
	assert.Equal(t, domain.MemberRoleOwner, m.Role)
	require.NotNil(t, m.DecidedBy)
	assert.Equal(t, fx.admin.ID, *m.DecidedBy)
}

func TestAddMemberConflictsWithOpenMembership(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	_, err := fx.svc.RequestAccess(ctx, fx.resident, fx.building.ID, fx.unit.ID)
	require.NoError(t, err)

	_, err = fx.svc.AddMember(ctx, fx.admin, fx.building.ID, fx.unit.ID, fx.resident.ID, domain.MemberRoleResident)
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestAddMemberValidation(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	_, err := fx.svc.AddMember(ctx, fx.admin, fx.building.ID, fx.unit.ID, fx.resident.ID, domain.MembershipRole("janitor"))
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = fx.svc.AddMember(ctx, fx.resident, fx.building.ID, fx.unit.ID, fx.admin.ID, domain.MemberRoleResident)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	_, err = fx.svc.AddMember(ctx, fx.admin, fx.building.ID, fx.unit.ID, "missing", domain.MemberRoleResident)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestMultipleActiveMembershipsPerUnitAllowed(t *testing.T) {
	fx := newMembershipFixture(t)
	ctx := context.Background()

	bob := &domain.User{Email: "bob@example.com", Role: domain.RoleResident}
	require.NoError(t, fx.users.Create(ctx, bob))

	_, err := fx.svc.AddMember(ctx, fx.admin, fx.building.ID, fx.unit.ID, fx.resident.ID, domain.MemberRoleResident)
	require.NoError(t, err)
	_, err = fx.svc.AddMember(ctx, fx.admin, fx.building.ID, fx.unit.ID, bob.ID, domain.MemberRoleResident)
	require.NoError(t, err)
}
