package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/residency-service/internal/domain"
)

// UnitRepository encapsulates unit persistence.
type UnitRepository interface {
	Create(ctx context.Context, unit *domain.Unit) error
	GetByID(ctx context.Context, id string) (*domain.Unit, error)
	ListByBuilding(ctx context.Context, buildingID string) ([]domain.Unit, error)
}

type unitRepository struct {
	pool *pgxpool.Pool
}

// NewUnitRepository instantiates repository.
func NewUnitRepository(pool *pgxpool.Pool) UnitRepository {
	return &unitRepository{pool: pool}
}

func (r *unitRepository) Create(ctx context.Context, unit *domain.Unit) error {
	const query = `
        INSERT INTO units (building_id, unit_number, floor)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		unit.BuildingID,
		unit.UnitNumber,
		unit.Floor,
	).Scan(&unit.ID, &unit.CreatedAt)
}

func (r *unitRepository) GetByID(ctx context.Context, id string) (*domain.Unit, error) {
	const query = `
        SELECT id, building_id, unit_number, floor, created_at
        FROM units WHERE id=$1`

	var unit domain.Unit
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&unit.ID,
		&unit.BuildingID,
		&unit.UnitNumber,
		&unit.Floor,
		&unit.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) ListByBuilding(ctx context.Context, buildingID string) ([]domain.Unit, error) {
	const query = `
        SELECT id, building_id, unit_number, floor, created_at
        FROM units WHERE building_id=$1 ORDER BY floor ASC, unit_number ASC`

	rows, err := r.pool.Query(ctx, query, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Unit
	for rows.Next() {
		var unit domain.Unit
		if err := rows.Scan(
			&unit.ID,
			&unit.BuildingID,
			&unit.UnitNumber,
			&unit.Floor,
			&unit.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, unit)
	}
	return result, rows.Err()
}
