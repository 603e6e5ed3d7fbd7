package dto

import (
	"time"

	"github.com/spec-kit/residency-service/internal/domain"
)

// RequestAccessRequest payload.
type RequestAccessRequest struct {
	UnitID string `json:"unit_id"`
}

// VerifyMembershipRequest payload for approve/reject.
type VerifyMembershipRequest struct {
	Status domain.MembershipStatus `json:"status"`
}

// AddMemberRequest payload for direct member assignment.
type AddMemberRequest struct {
	UnitID string                `json:"unit_id"`
	UserID string                `json:"user_id"`
	Role   domain.MembershipRole `json:"role"`
}

// MembershipResponse summary.
type MembershipResponse struct {
	ID         string                  `json:"id"`
	BuildingID string                  `json:"building_id"`
	UnitID     string                  `json:"unit_id"`
	UserID     string                  `json:"user_id"`
	Role       domain.MembershipRole   `json:"role"`
	Status     domain.MembershipStatus `json:"status"`
	DecidedBy  *string                 `json:"decided_by,omitempty"`
	DecidedAt  *time.Time              `json:"decided_at,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
}

// PendingMembershipResponse joins the membership with requester info.
type PendingMembershipResponse struct {
	MembershipResponse
	RequesterEmail string `json:"requester_email"`
}
