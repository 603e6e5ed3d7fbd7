package dto

import "time"

// CreateBuildingRequest payload.
type CreateBuildingRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// BuildingResponse summary.
type BuildingResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUnitRequest payload.
type CreateUnitRequest struct {
	UnitNumber string `json:"unit_number"`
	Floor      int    `json:"floor"`
}

// UnitResponse summary.
type UnitResponse struct {
	ID         string    `json:"id"`
	BuildingID string    `json:"building_id"`
	UnitNumber string    `json:"unit_number"`
	Floor      int       `json:"floor"`
	CreatedAt  time.Time `json:"created_at"`
}
