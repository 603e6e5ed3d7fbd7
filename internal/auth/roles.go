package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/residency-service/internal/domain"
	apperrors "github.com/spec-kit/residency-service/pkg/util"
)

// Capability reports whether a system role may perform a class of actions.
// All role gating goes through these functions; call sites never compare
// role strings directly.
type Capability func(domain.Role) bool

// CanDecide reports whether the role may approve or reject membership
// requests and add members directly.
func CanDecide(role domain.Role) bool {
	return role == domain.RoleBuildingAdmin || role == domain.RoleSuperAdmin
}

// CanManageBuildings reports whether the role may create buildings and units.
func CanManageBuildings(role domain.Role) bool {
	return role == domain.RoleBuildingAdmin || role == domain.RoleSuperAdmin
}

// CanManageUsers reports whether the role may change system roles.
func CanManageUsers(role domain.Role) bool {
	return role == domain.RoleSuperAdmin
}

// CanViewUsers reports whether the role may list accounts.
func CanViewUsers(role domain.Role) bool {
	return role == domain.RoleManager || role == domain.RoleBuildingAdmin || role == domain.RoleSuperAdmin
}

// Require ensures the caller is authenticated and holds the capability.
// Route-level enforcement is advisory; services re-check before mutating.
func Require(capability Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !capability(principal.User.Role) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures the caller presented a valid token.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
