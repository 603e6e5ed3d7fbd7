package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/residency-service/internal/auth"
	"github.com/spec-kit/residency-service/internal/domain"
	"github.com/spec-kit/residency-service/internal/events"
	"github.com/spec-kit/residency-service/internal/repository"
	apperrors "github.com/spec-kit/residency-service/pkg/util"
)

const pgUniqueViolation = "23505"

// BuildingService coordinates building and unit management.
type BuildingService struct {
	buildings  repository.BuildingRepository
	units      repository.UnitRepository
	dispatcher events.Dispatcher
}

// NewBuildingService constructs the service.
func NewBuildingService(buildings repository.BuildingRepository, units repository.UnitRepository, dispatcher events.Dispatcher) *BuildingService {
	return &BuildingService{buildings: buildings, units: units, dispatcher: dispatcher}
}

// CreateBuilding registers a new building.
func (s *BuildingService) CreateBuilding(ctx context.Context, actor *domain.User, name, address string) (*domain.Building, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !auth.CanManageBuildings(actor.Role) {
		return nil, apperrors.NewForbidden("building management requires building admin")
	}
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" || address == "" {
		return nil, apperrors.NewValidationError("name and address required", nil)
	}

	building := &domain.Building{Name: name, Address: address}
	if err := s.buildings.Create(ctx, building); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventBuildingCreated,
		BuildingID: building.ID,
		Actor:      eventActor(actor),
		Payload:    events.BuildingCreatedPayload{Name: building.Name, Address: building.Address},
	})
	return building, nil
}

// ListBuildings returns all buildings.
func (s *BuildingService) ListBuildings(ctx context.Context) ([]domain.Building, error) {
	buildings, err := s.buildings.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return buildings, nil
}

// GetBuilding returns a single building.
func (s *BuildingService) GetBuilding(ctx context.Context, buildingID string) (*domain.Building, error) {
	building, err := s.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return nil, mapNoRows(err, "building")
	}
	return building, nil
}

// CreateUnit adds a unit to an existing building. Unit numbers are unique
// per building; a duplicate fails with CONFLICT.
func (s *BuildingService) CreateUnit(ctx context.Context, actor *domain.User, buildingID, unitNumber string, floor int) (*domain.Unit, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !auth.CanManageBuildings(actor.Role) {
		return nil, apperrors.NewForbidden("unit management requires building admin")
	}
	unitNumber = strings.TrimSpace(unitNumber)
	if unitNumber == "" {
		return nil, apperrors.NewValidationError("unit_number required", nil)
	}

	if _, err := s.buildings.GetByID(ctx, buildingID); err != nil {
		return nil, mapNoRows(err, "building")
	}

	unit := &domain.Unit{BuildingID: buildingID, UnitNumber: unitNumber, Floor: floor}
	if err := s.units.Create(ctx, unit); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperrors.NewConflict("unit number already exists in this building", map[string]any{
				"unit_number": unitNumber,
			})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventUnitCreated,
		BuildingID: buildingID,
		Actor:      eventActor(actor),
		Payload:    events.UnitCreatedPayload{UnitID: unit.ID, UnitNumber: unit.UnitNumber, Floor: unit.Floor},
	})
	return unit, nil
}

// ListUnits returns all units for a building.
func (s *BuildingService) ListUnits(ctx context.Context, buildingID string) ([]domain.Unit, error) {
	if _, err := s.buildings.GetByID(ctx, buildingID); err != nil {
		return nil, mapNoRows(err, "building")
	}
	units, err := s.units.ListByBuilding(ctx, buildingID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return units, nil
}

func (s *BuildingService) publishEvent(ctx context.Context, event events.Event) {
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
