package domain

import "time"

// Role enumerates system-wide roles an account can hold.
type Role string

const (
	RoleResident      Role = "resident"
	RoleBuildingAdmin Role = "building_admin"
	RoleManager       Role = "manager"
	RoleProvider      Role = "provider"
	RoleSuperAdmin    Role = "super_admin"
)

// Valid reports whether the role is one of the known system roles.
func (r Role) Valid() bool {
	switch r {
	case RoleResident, RoleBuildingAdmin, RoleManager, RoleProvider, RoleSuperAdmin:
		return true
	}
	return false
}

// User is the domain model for an account. The system role is distinct
// from any per-building membership role the user may hold.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
