package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/residency-service/internal/auth"
	"github.com/spec-kit/residency-service/internal/domain"
	"github.com/spec-kit/residency-service/internal/events"
	"github.com/spec-kit/residency-service/internal/repository"
	apperrors "github.com/spec-kit/residency-service/pkg/util"
)

// UserService coordinates account administration.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// ListUsers returns all accounts for administrative views.
func (s *UserService) ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !auth.CanViewUsers(actor.Role) {
		return nil, apperrors.NewForbidden("listing users requires manager or admin")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// UpdateRole changes a user's system role.
func (s *UserService) UpdateRole(ctx context.Context, actor *domain.User, userID string, newRole domain.Role) (*domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !auth.CanManageUsers(actor.Role) {
		return nil, apperrors.NewForbidden("role changes require super admin")
	}
	if !newRole.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": newRole})
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapNoRows(err, "user")
	}
	if user.Role == newRole {
		return user, nil
	}

	oldRole := user.Role
	user.Role = newRole
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRoleChanged,
			Actor:     eventActor(actor),
			Timestamp: time.Now(),
			Payload: events.UserRoleChangedPayload{
				UserID:  user.ID,
				OldRole: oldRole,
				NewRole: newRole,
			},
		})
	}
	return user, nil
}
