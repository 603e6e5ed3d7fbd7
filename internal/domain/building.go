package domain

import "time"

// Building is a managed property containing units.
type Building struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
