package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/residency-service/internal/auth"
	"github.com/spec-kit/residency-service/internal/domain"
	"github.com/spec-kit/residency-service/internal/events"
	"github.com/spec-kit/residency-service/internal/repository"
	apperrors "github.com/spec-kit/residency-service/pkg/util"
)

// MembershipService coordinates the membership lifecycle: request access,
// review pending requests, approve/reject, and direct member assignment.
type MembershipService struct {
	memberships repository.MembershipRepository
	buildings   repository.BuildingRepository
	units       repository.UnitRepository
	users       repository.UserRepository
	dispatcher  events.Dispatcher
}

// MembershipDependencies bundles repositories for the membership service.
type MembershipDependencies struct {
	MembershipRepo repository.MembershipRepository
	BuildingRepo   repository.BuildingRepository
	UnitRepo       repository.UnitRepository
	UserRepo       repository.UserRepository
	Dispatcher     events.Dispatcher
}

// NewMembershipService constructs the service.
func NewMembershipService(deps MembershipDependencies) *MembershipService {
	return &MembershipService{
		memberships: deps.MembershipRepo,
		buildings:   deps.BuildingRepo,
		units:       deps.UnitRepo,
		users:       deps.UserRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// RequestAccess creates a pending membership for the actor on the unit.
// At most one pending-or-active membership per (user, building) is
// allowed; a duplicate request fails with CONFLICT.
func (s *MembershipService) RequestAccess(ctx context.Context, actor *domain.User, buildingID, unitID string) (*domain.Membership, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if unitID == "" {
		return nil, apperrors.NewValidationError("unit_id required", nil)
	}

	if _, err := s.buildings.GetByID(ctx, buildingID); err != nil {
		return nil, mapNoRows(err, "building")
	}
	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return nil, mapNoRows(err, "unit")
	}
	if unit.BuildingID != buildingID {
		return nil, apperrors.NewNotFound("unit", map[string]any{"unit_id": unitID})
	}

	existing, err := s.memberships.GetOpenByUserAndBuilding(ctx, actor.ID, buildingID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if existing != nil {
		return nil, apperrors.NewConflict("membership already requested for this building", map[string]any{
			"membership_id": existing.ID,
			"status":        existing.Status,
		})
	}

	membership := &domain.Membership{
		BuildingID: buildingID,
		UnitID:     unitID,
		UserID:     actor.ID,
		Role:       domain.MemberRoleResident,
		Status:     domain.MembershipStatusPending,
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventMembershipRequested,
		BuildingID: buildingID,
		Actor:      eventActor(actor),
		Payload: events.MembershipRequestedPayload{
			MembershipID: membership.ID,
			UnitID:       unitID,
			UserID:       actor.ID,
			Role:         membership.Role,
		},
	})
	return membership, nil
}

// ListPending returns the building's pending memberships joined with each
// requester's email, oldest first.
func (s *MembershipService) ListPending(ctx context.Context, actor *domain.User, buildingID string) ([]domain.PendingMembership, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !auth.CanDecide(actor.Role) {
		return nil, apperrors.NewForbidden("membership review requires building admin")
	}
	if _, err := s.buildings.GetByID(ctx, buildingID); err != nil {
		return nil, mapNoRows(err, "building")
	}

	pending, err := s.memberships.ListPendingByBuilding(ctx, buildingID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return pending, nil
}

// Decide resolves a pending membership to active or rejected. Re-deciding
// an already-decided membership fails with INVALID_TRANSITION; there is
// no silent no-op.
func (s *MembershipService) Decide(ctx context.Context, actor *domain.User, buildingID, membershipID string, decision domain.MembershipStatus) (*domain.Membership, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !auth.CanDecide(actor.Role) {
		return nil, apperrors.NewForbidden("membership decisions require building admin")
	}
	if !domain.ValidDecision(decision) {
		return nil, apperrors.NewValidationError("status must be active or rejected", map[string]any{"status": decision})
	}

	membership, err := s.memberships.GetByID(ctx, membershipID)
	if err != nil {
		return nil, mapNoRows(err, "membership")
	}
	if membership.BuildingID != buildingID {
		return nil, apperrors.NewNotFound("membership", map[string]any{"membership_id": membershipID})
	}
	if !domain.CanTransition(membership.Status, decision) {
		return nil, apperrors.NewInvalidTransition("membership already decided", map[string]any{
			"status": membership.Status,
		})
	}

	oldStatus := membership.Status
	updated, err := s.memberships.Decide(ctx, membershipID, decision, actor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race to another decider between read and update.
			return nil, apperrors.NewInvalidTransition("membership already decided", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventMembershipDecided,
		BuildingID: buildingID,
		Actor:      eventActor(actor),
		Payload: events.MembershipDecidedPayload{
			MembershipID: updated.ID,
			OldStatus:    oldStatus,
			NewStatus:    updated.Status,
			DecidedBy:    actor.ID,
		},
	})
	return updated, nil
}

// MyStatus returns the actor's membership for the building, or nil when
// none exists. Absence is data, not an error.
func (s *MembershipService) MyStatus(ctx context.Context, actor *domain.User, buildingID string) (*domain.Membership, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if _, err := s.buildings.GetByID(ctx, buildingID); err != nil {
		return nil, mapNoRows(err, "building")
	}

	membership, err := s.memberships.GetByUserAndBuilding(ctx, actor.ID, buildingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return membership, nil
}

// AddMember assigns a user to a unit directly, creating an immediately
// active membership. The approval step is the admin's own action.
func (s *MembershipService) AddMember(ctx context.Context, actor *domain.User, buildingID, unitID, userID string, role domain.MembershipRole) (*domain.Membership, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !auth.CanDecide(actor.Role) {
		return nil, apperrors.NewForbidden("adding members requires building admin")
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid membership role", map[string]any{"role": role})
	}

	if _, err := s.buildings.GetByID(ctx, buildingID); err != nil {
		return nil, mapNoRows(err, "building")
	}
	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return nil, mapNoRows(err, "unit")
	}
	if unit.BuildingID != buildingID {
		return nil, apperrors.NewNotFound("unit", map[string]any{"unit_id": unitID})
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, mapNoRows(err, "user")
	}

	existing, err := s.memberships.GetOpenByUserAndBuilding(ctx, userID, buildingID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if existing != nil {
		return nil, apperrors.NewConflict("user already has a membership in this building", map[string]any{
			"membership_id": existing.ID,
			"status":        existing.Status,
		})
	}

	now := time.Now()
	membership := &domain.Membership{
		BuildingID: buildingID,
		UnitID:     unitID,
		UserID:     userID,
		Role:       role,
		Status:     domain.MembershipStatusActive,
		DecidedBy:  &actor.ID,
		DecidedAt:  &now,
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventMemberAdded,
		BuildingID: buildingID,
		Actor:      eventActor(actor),
		Payload: events.MemberAddedPayload{
			MembershipID: membership.ID,
			UnitID:       unitID,
			UserID:       userID,
			Role:         role,
		},
	})
	return membership, nil
}

func (s *MembershipService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func eventActor(actor *domain.User) events.Actor {
	return events.Actor{UserID: actor.ID, Role: actor.Role}
}

func mapNoRows(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.MapError(err)
}
