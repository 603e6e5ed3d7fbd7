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

// MembershipsHandler exposes the membership lifecycle endpoints.
type MembershipsHandler struct {
	memberships *service.MembershipService
}

// NewMembershipsHandler constructs handler.
func NewMembershipsHandler(membershipService *service.MembershipService) *MembershipsHandler {
	return &MembershipsHandler{memberships: membershipService}
}

// RequestAccess handles POST /buildings/:buildingId/request-access.
func (h *MembershipsHandler) RequestAccess(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.RequestAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	membership, err := h.memberships.RequestAccess(c.Context(), principal.User, c.Params("buildingId"), req.UnitID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(membershipResponse(membership))
}

// MyStatus handles GET /buildings/:buildingId/me. A missing membership is
// returned as a null body member, never an error.
func (h *MembershipsHandler) MyStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	membership, err := h.memberships.MyStatus(c.Context(), principal.User, c.Params("buildingId"))
	if err != nil {
		return err
	}
	if membership == nil {
		return c.JSON(fiber.Map{"membership": nil})
	}
	return c.JSON(fiber.Map{"membership": membershipResponse(membership)})
}

// ListPending handles GET /buildings/:buildingId/memberships/pending.
func (h *MembershipsHandler) ListPending(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	pending, err := h.memberships.ListPending(c.Context(), principal.User, c.Params("buildingId"))
	if err != nil {
		return err
	}
	items := make([]dto.PendingMembershipResponse, 0, len(pending))
	for i := range pending {
		items = append(items, dto.PendingMembershipResponse{
			MembershipResponse: membershipResponse(&pending[i].Membership),
			RequesterEmail:     pending[i].RequesterEmail,
		})
	}
	return c.JSON(fiber.Map{"memberships": items})
}

// Verify handles PATCH /buildings/:buildingId/memberships/:membershipId/verify.
func (h *MembershipsHandler) Verify(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.VerifyMembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	membership, err := h.memberships.Decide(c.Context(), principal.User, c.Params("buildingId"), c.Params("membershipId"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(membershipResponse(membership))
}

// AddMember handles POST /buildings/:buildingId/members.
func (h *MembershipsHandler) AddMember(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UnitID == "" || req.UserID == "" {
		return apperrors.NewValidationError("unit_id and user_id required", nil)
	}

	membership, err := h.memberships.AddMember(c.Context(), principal.User, c.Params("buildingId"), req.UnitID, req.UserID, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(membershipResponse(membership))
}

func membershipResponse(membership *domain.Membership) dto.MembershipResponse {
	return dto.MembershipResponse{
		ID:         membership.ID,
		BuildingID: membership.BuildingID,
		UnitID:     membership.UnitID,
		UserID:     membership.UserID,
		Role:       membership.Role,
		Status:     membership.Status,
		DecidedBy:  membership.DecidedBy,
		DecidedAt:  membership.DecidedAt,
		CreatedAt:  membership.CreatedAt,
	}
}
