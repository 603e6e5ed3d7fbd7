package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/residency-service/internal/api/dto"
	"github.com/spec-kit/residency-service/internal/auth"
	"github.com/spec-kit/residency-service/internal/domain"
	"github.com/spec-kit/residency-service/internal/service"
	apperrors "github.com/spec-kit/residency-service/pkg/util"
)

// BuildingsHandler manages building and unit endpoints.
type BuildingsHandler struct {
	buildings *service.BuildingService
}

// NewBuildingsHandler constructs handler.
func NewBuildingsHandler(buildingService *service.BuildingService) *BuildingsHandler {
	return &BuildingsHandler{buildings: buildingService}
}

// Create handles POST /buildings/.
func (h *BuildingsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateBuildingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	building, err := h.buildings.CreateBuilding(c.Context(), principal.User, req.Name, req.Address)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(buildingResponse(building))
}

// List handles GET /buildings/.
func (h *BuildingsHandler) List(c *fiber.Ctx) error {
	buildings, err := h.buildings.ListBuildings(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.BuildingResponse, 0, len(buildings))
	for i := range buildings {
		items = append(items, buildingResponse(&buildings[i]))
	}
	return c.JSON(fiber.Map{"buildings": items})
}

// Get handles GET /buildings/:buildingId.
func (h *BuildingsHandler) Get(c *fiber.Ctx) error {
	building, err := h.buildings.GetBuilding(c.Context(), c.Params("buildingId"))
	if err != nil {
		return err
	}
	return c.JSON(buildingResponse(building))
}

// CreateUnit handles POST /buildings/:buildingId/units.
func (h *BuildingsHandler) CreateUnit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateUnitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	unit, err := h.buildings.CreateUnit(c.Context(), principal.User, c.Params("buildingId"), req.UnitNumber, req.Floor)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(unitResponse(unit))
}

// ListUnits handles GET /buildings/:buildingId/units.
func (h *BuildingsHandler) ListUnits(c *fiber.Ctx) error {
	units, err := h.buildings.ListUnits(c.Context(), c.Params("buildingId"))
	if err != nil {
		return err
	}
	items := make([]dto.UnitResponse, 0, len(units))
	for i := range units {
		items = append(items, unitResponse(&units[i]))
	}
	return c.JSON(fiber.Map{"units": items})
}

func buildingResponse(building *domain.Building) dto.BuildingResponse {
	return dto.BuildingResponse{
		ID:        building.ID,
		Name:      building.Name,
		Address:   building.Address,
		CreatedAt: building.CreatedAt,
	}
}

func unitResponse(unit *domain.Unit) dto.UnitResponse {
	return dto.UnitResponse{
		ID:         unit.ID,
		BuildingID: unit.BuildingID,
		UnitNumber: unit.UnitNumber,
		Floor:      unit.Floor,
		CreatedAt:  unit.CreatedAt,
	}
}
