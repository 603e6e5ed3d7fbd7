package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/residency-service/internal/api/dto"
	"github.com/spec-kit/residency-service/internal/auth"
	"github.com/spec-kit/residency-service/internal/service"
	apperrors "github.com/spec-kit/residency-service/pkg/util"
)

// UsersHandler exposes account administration endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /iam/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	users, err := h.users.ListUsers(c.Context(), principal.User)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"users": items})
}

// UpdateRole handles PATCH /iam/users/:id/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.UpdateRole(c.Context(), principal.User, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}
