// Package repositorytest provides in-memory repository fakes for tests.
// They mirror the Postgres implementations' error contracts: pgx.ErrNoRows
// for missing rows, redis.Nil for missing refresh tokens.
package repositorytest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/residency-service/internal/domain"
)

type UserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*domain.User)}
}

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *UserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *UserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, *user)
	}
	return result, nil
}

type BuildingRepo struct {
	mu        sync.Mutex
	buildings map[string]*domain.Building
}

func NewBuildingRepo() *BuildingRepo {
	return &BuildingRepo{buildings: make(map[string]*domain.Building)}
}

func (r *BuildingRepo) Create(_ context.Context, building *domain.Building) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	building.ID = uuid.NewString()
	building.CreatedAt = time.Now()
	building.UpdatedAt = building.CreatedAt
	clone := *building
	r.buildings[building.ID] = &clone
	return nil
}

func (r *BuildingRepo) GetByID(_ context.Context, id string) (*domain.Building, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	building, ok := r.buildings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *building
	return &clone, nil
}

func (r *BuildingRepo) List(_ context.Context) ([]domain.Building, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Building, 0, len(r.buildings))
	for _, building := range r.buildings {
		result = append(result, *building)
	}
	return result, nil
}

type UnitRepo struct {
	mu    sync.Mutex
	units map[string]*domain.Unit
	// CreateErr, when set, is returned by Create to simulate DB failures
	// such as unique violations.
	CreateErr error
}

func NewUnitRepo() *UnitRepo {
	return &UnitRepo{units: make(map[string]*domain.Unit)}
}

func (r *UnitRepo) Create(_ context.Context, unit *domain.Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	unit.ID = uuid.NewString()
	unit.CreatedAt = time.Now()
	clone := *unit
	r.units[unit.ID] = &clone
	return nil
}

func (r *UnitRepo) GetByID(_ context.Context, id string) (*domain.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	unit, ok := r.units[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *unit
	return &clone, nil
}

func (r *UnitRepo) ListByBuilding(_ context.Context, buildingID string) ([]domain.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Unit
	for _, unit := range r.units {
		if unit.BuildingID == buildingID {
			result = append(result, *unit)
		}
	}
	return result, nil
}

type MembershipRepo struct {
	mu          sync.Mutex
	memberships []*domain.Membership
}

func NewMembershipRepo() *MembershipRepo {
	return &MembershipRepo{}
}

func (r *MembershipRepo) Create(_ context.Context, membership *domain.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	membership.ID = uuid.NewString()
	membership.CreatedAt = time.Now()
	clone := *membership
	r.memberships = append(r.memberships, &clone)
	return nil
}

func (r *MembershipRepo) GetByID(_ context.Context, id string) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.memberships {
		if m.ID == id {
			clone := *m
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MembershipRepo) GetByUserAndBuilding(_ context.Context, userID, buildingID string) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Newest first, matching the SQL ORDER BY created_at DESC LIMIT 1.
	for i := len(r.memberships) - 1; i >= 0; i-- {
		m := r.memberships[i]
		if m.UserID == userID && m.BuildingID == buildingID {
			clone := *m
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MembershipRepo) GetOpenByUserAndBuilding(_ context.Context, userID, buildingID string) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.memberships {
		if m.UserID == userID && m.BuildingID == buildingID &&
			(m.Status == domain.MembershipStatusPending || m.Status == domain.MembershipStatusActive) {
			clone := *m
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MembershipRepo) ListPendingByBuilding(_ context.Context, buildingID string) ([]domain.PendingMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.PendingMembership
	for _, m := range r.memberships {
		if m.BuildingID == buildingID && m.Status == domain.MembershipStatusPending {
			result = append(result, domain.PendingMembership{
				Membership:     *m,
				RequesterEmail: m.UserID + "@fake.local",
			})
		}
	}
	return result, nil
}

func (r *MembershipRepo) Decide(_ context.Context, membershipID string, status domain.MembershipStatus, decidedBy string) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.memberships {
		if m.ID == membershipID && m.Status == domain.MembershipStatusPending {
			now := time.Now()
			m.Status = status
			m.DecidedBy = &decidedBy
			m.DecidedAt = &now
			clone := *m
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type RefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewRefreshTokenRepo() *RefreshTokenRepo {
	return &RefreshTokenRepo{tokens: make(map[string]string)}
}

func (r *RefreshTokenRepo) Store(_ context.Context, token, userID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = userID
	return nil
}

func (r *RefreshTokenRepo) Lookup(_ context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.tokens[token]
	if !ok {
		return "", redis.Nil
	}
	return userID, nil
}

func (r *RefreshTokenRepo) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}
