package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/residency-service/internal/domain"
)

// MembershipRepository encapsulates membership persistence.
type MembershipRepository interface {
	Create(ctx context.Context, membership *domain.Membership) error
	GetByID(ctx context.Context, id string) (*domain.Membership, error)
	// GetByUserAndBuilding returns the caller's most recent membership
	// for the building, regardless of status.
	GetByUserAndBuilding(ctx context.Context, userID, buildingID string) (*domain.Membership, error)
	// GetOpenByUserAndBuilding returns a pending or active membership for
	// the pair, used as the duplicate-request guard.
	GetOpenByUserAndBuilding(ctx context.Context, userID, buildingID string) (*domain.Membership, error)
	ListPendingByBuilding(ctx context.Context, buildingID string) ([]domain.PendingMembership, error)
	// Decide resolves a pending membership. The update is guarded on
	// status='pending' so a concurrent decision loses with pgx.ErrNoRows
	// instead of overwriting a terminal state.
	Decide(ctx context.Context, membershipID string, status domain.MembershipStatus, decidedBy string) (*domain.Membership, error)
}

type membershipRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipRepository instantiates repository.
func NewMembershipRepository(pool *pgxpool.Pool) MembershipRepository {
	return &membershipRepository{pool: pool}
}

const membershipColumns = `id, building_id, unit_id, user_id, role, status, decided_by, decided_at, created_at`

func (r *membershipRepository) Create(ctx context.Context, membership *domain.Membership) error {
	const query = `
        INSERT INTO memberships (building_id, unit_id, user_id, role, status, decided_by, decided_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		membership.BuildingID,
		membership.UnitID,
		membership.UserID,
		membership.Role,
		membership.Status,
		membership.DecidedBy,
		membership.DecidedAt,
	).Scan(&membership.ID, &membership.CreatedAt)
}

func (r *membershipRepository) GetByID(ctx context.Context, id string) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *membershipRepository) GetByUserAndBuilding(ctx context.Context, userID, buildingID string) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + `
        FROM memberships WHERE user_id=$1 AND building_id=$2
        ORDER BY created_at DESC LIMIT 1`
	return r.fetchSingle(ctx, query, userID, buildingID)
}

func (r *membershipRepository) GetOpenByUserAndBuilding(ctx context.Context, userID, buildingID string) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + `
        FROM memberships WHERE user_id=$1 AND building_id=$2 AND status IN ('pending','active')
        LIMIT 1`
	return r.fetchSingle(ctx, query, userID, buildingID)
}

func (r *membershipRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Membership, error) {
	var m domain.Membership
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&m.ID,
		&m.BuildingID,
		&m.UnitID,
		&m.UserID,
		&m.Role,
		&m.Status,
		&m.DecidedBy,
		&m.DecidedAt,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) ListPendingByBuilding(ctx context.Context, buildingID string) ([]domain.PendingMembership, error) {
	const query = `
        SELECT m.id, m.building_id, m.unit_id, m.user_id, m.role, m.status,
               m.decided_by, m.decided_at, m.created_at, u.email
        FROM memberships m
        JOIN users u ON u.id = m.user_id
        WHERE m.building_id=$1 AND m.status='pending'
        ORDER BY m.created_at ASC`

	rows, err := r.pool.Query(ctx, query, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PendingMembership
	for rows.Next() {
		var p domain.PendingMembership
		if err := rows.Scan(
			&p.ID,
			&p.BuildingID,
			&p.UnitID,
			&p.UserID,
			&p.Role,
			&p.Status,
			&p.DecidedBy,
			&p.DecidedAt,
			&p.CreatedAt,
			&p.RequesterEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *membershipRepository) Decide(ctx context.Context, membershipID string, status domain.MembershipStatus, decidedBy string) (*domain.Membership, error) {
	query := `
        UPDATE memberships SET status=$1, decided_by=$2, decided_at=NOW()
        WHERE id=$3 AND status='pending'
        RETURNING ` + membershipColumns

	return r.fetchSingle(ctx, query, status, decidedBy, membershipID)
}
