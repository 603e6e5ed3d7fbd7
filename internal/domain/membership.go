package domain

import "time"

// MembershipStatus enumerates lifecycle states for a membership.
type MembershipStatus string

const (
	MembershipStatusPending  MembershipStatus = "pending"
	MembershipStatusActive   MembershipStatus = "active"
	MembershipStatusRejected MembershipStatus = "rejected"
)

// MembershipRole is the capacity in which a user occupies a unit,
// independent of their system role.
type MembershipRole string

const (
	MemberRoleResident MembershipRole = "resident"
	MemberRoleOwner    MembershipRole = "owner"
	MemberRoleAdmin    MembershipRole = "admin"
)

// Valid reports whether the membership role is known.
func (r MembershipRole) Valid() bool {
	switch r {
	case MemberRoleResident, MemberRoleOwner, MemberRoleAdmin:
		return true
	}
	return false
}

// Membership is a user's access grant or request for a unit within a
// building. Created pending; resolved to active or rejected exactly once.
type Membership struct {
	ID         string
	BuildingID string
	UnitID     string
	UserID     string
	Role       MembershipRole
	Status     MembershipStatus
	DecidedBy  *string
	DecidedAt  *time.Time
	CreatedAt  time.Time
}

// PendingMembership joins a pending membership with the requester's
// summary for review listings.
type PendingMembership struct {
	Membership
	RequesterEmail string
}

var allowedMembershipTransitions = map[MembershipStatus][]MembershipStatus{
	MembershipStatusPending:  {MembershipStatusActive, MembershipStatusRejected},
	MembershipStatusActive:   {},
	MembershipStatusRejected: {},
}

// CanTransition reports whether a membership may move from current to next.
func CanTransition(current, next MembershipStatus) bool {
	for _, candidate := range allowedMembershipTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s MembershipStatus) Terminal() bool {
	return s == MembershipStatusActive || s == MembershipStatusRejected
}

// ValidDecision reports whether the status is an acceptable verify outcome.
func ValidDecision(s MembershipStatus) bool {
	return s == MembershipStatusActive || s == MembershipStatusRejected
}
