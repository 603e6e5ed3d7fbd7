package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/residency-service/internal/api/http/handlers"
	"github.com/spec-kit/residency-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Buildings      *handlers.BuildingsHandler
	Memberships    *handlers.MembershipsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Route-level role guards mirror the
// service-layer checks; the service layer is authoritative.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.Logout)

	iam := app.Group("/iam", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	iam.Get("/me", cfg.Auth.Me)
	iam.Get("/users", auth.Require(auth.CanViewUsers), cfg.Users.List)
	iam.Patch("/users/:id/role", auth.Require(auth.CanManageUsers), cfg.Users.UpdateRole)

	buildings := app.Group("/buildings", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	buildings.Get("/", cfg.Buildings.List)
	buildings.Post("/", auth.Require(auth.CanManageBuildings), cfg.Buildings.Create)
	buildings.Get("/:buildingId", cfg.Buildings.Get)
	buildings.Get("/:buildingId/units", cfg.Buildings.ListUnits)
	buildings.Post("/:buildingId/units", auth.Require(auth.CanManageBuildings), cfg.Buildings.CreateUnit)

	buildings.Post("/:buildingId/request-access", cfg.Memberships.RequestAccess)
	buildings.Get("/:buildingId/me", cfg.Memberships.MyStatus)
	buildings.Get("/:buildingId/memberships/pending", auth.Require(auth.CanDecide), cfg.Memberships.ListPending)
	buildings.Patch("/:buildingId/memberships/:membershipId/verify", auth.Require(auth.CanDecide), cfg.Memberships.Verify)
	buildings.Post("/:buildingId/members", auth.Require(auth.CanDecide), cfg.Memberships.AddMember)
}
