package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		current MembershipStatus
		next    MembershipStatus
		want    bool
	}{
		{MembershipStatusPending, MembershipStatusActive, true},
		{MembershipStatusPending, MembershipStatusRejected, true},
		{MembershipStatusPending, MembershipStatusPending, false},
		{MembershipStatusActive, MembershipStatusRejected, false},
		{MembershipStatusActive, MembershipStatusPending, false},
		{MembershipStatusRejected, MembershipStatusActive, false},
		{MembershipStatusRejected, MembershipStatusPending, false},
		{MembershipStatus("bogus"), MembershipStatusActive, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.current, tc.next),
			"transition %s -> %s", tc.current, tc.next)
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, MembershipStatusPending.Terminal())
	assert.True(t, MembershipStatusActive.Terminal())
	assert.True(t, MembershipStatusRejected.Terminal())
	assert.False(t, MembershipStatus("bogus").Terminal())
}

func TestValidDecision(t *testing.T) {
	assert.True(t, ValidDecision(MembershipStatusActive))
	assert.True(t, ValidDecision(MembershipStatusRejected))
	assert.False(t, ValidDecision(MembershipStatusPending))
	assert.False(t, ValidDecision(MembershipStatus("bogus")))
}

func TestMembershipRoleValid(t *testing.T) {
	assert.True(t, MemberRoleResident.Valid())
	assert.True(t, MemberRoleOwner.Valid())
	assert.True(t, MemberRoleAdmin.Valid())
	assert.False(t, MembershipRole("janitor").Valid())
}

func TestSystemRoleValid(t *testing.T) {
	for _, role := range []Role{RoleResident, RoleBuildingAdmin, RoleManager, RoleProvider, RoleSuperAdmin} {
		assert.True(t, role.Valid(), "role %s", role)
	}
	assert.False(t, Role("wizard").Valid())
}
