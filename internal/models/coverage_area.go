package models

import (
	"github.com/jengzang/wifi-coverage-backend/internal/coverage"
)

// CoverageAreaRecord is a coverage area stored for a floor
type CoverageAreaRecord struct {
	ID         string                `json:"id" db:"id"`
	LocationID string                `json:"locationId" db:"location_id"`
	FloorID    string                `json:"floorId" db:"floor_id"`
	Area       coverage.CoverageArea `json:"area" db:"area_json"`
	CreatedAt  int64                 `json:"createdAt" db:"created_at"`
	UpdatedAt  int64                 `json:"updatedAt" db:"updated_at"`
}

// CoverageAreaInput is the create payload
type CoverageAreaInput struct {
	LocationID string                `json:"locationId" binding:"required"`
	FloorID    string                `json:"floorId" binding:"required"`
	Area       coverage.CoverageArea `json:"area"`
}
