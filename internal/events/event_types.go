package events

import (
	"time"

	"github.com/spec-kit/residency-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMembershipRequested EventType = "membership_requested"
	EventMembershipDecided   EventType = "membership_decided"
	EventMemberAdded         EventType = "member_added"
	EventBuildingCreated     EventType = "building_created"
	EventUnitCreated         EventType = "unit_created"
	EventUserRoleChanged     EventType = "user_role_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	BuildingID string      `json:"building_id,omitempty"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// MembershipRequestedPayload payload.
type MembershipRequestedPayload struct {
	MembershipID string                `json:"membership_id"`
	UnitID       string                `json:"unit_id"`
	UserID       string                `json:"user_id"`
	Role         domain.MembershipRole `json:"role"`
}

// MembershipDecidedPayload payload.
type MembershipDecidedPayload struct {
	MembershipID string                  `json:"membership_id"`
	OldStatus    domain.MembershipStatus `json:"old_status"`
	NewStatus    domain.MembershipStatus `json:"new_status"`
	DecidedBy    string                  `json:"decided_by"`
}

// MemberAddedPayload payload.
type MemberAddedPayload struct {
	MembershipID string                `json:"membership_id"`
	UnitID       string                `json:"unit_id"`
	UserID       string                `json:"user_id"`
	Role         domain.MembershipRole `json:"role"`
}

// BuildingCreatedPayload payload.
type BuildingCreatedPayload struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// UnitCreatedPayload payload.
type UnitCreatedPayload struct {
	UnitID     string `json:"unit_id"`
	UnitNumber string `json:"unit_number"`
	Floor      int    `json:"floor"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	UserID  string      `json:"user_id"`
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}
