package domain

import "time"

// Unit is a single occupiable space within a building.
type Unit struct {
	ID         string
	BuildingID string
	UnitNumber string
	Floor      int
	CreatedAt  time.Time
}
