package models

import (
	"github.com/jengzang/wifi-coverage-backend/internal/coverage"
	"github.com/jengzang/wifi-coverage-backend/internal/propagation"
)

// CoverageSettings is the stored coverage configuration of a location
type CoverageSettings struct {
	LocationID string `json:"locationId" db:"location_id"`

	Model         string  `json:"model" db:"model"`                 // itu-indoor, log-distance, multi-wall
	Interpolation string  `json:"interpolation" db:"interpolation"` // linear, idw, kriging
	Resolution    float64 `json:"resolution" db:"resolution"`
	MaxDistance   float64 `json:"maxDistance" db:"max_distance"`
	Shadowing     bool    `json:"shadowing" db:"shadowing"`

	Environment propagation.Environment `json:"environment"`
	Thresholds  coverage.Thresholds     `json:"thresholds"`

	UpdatedAt int64 `json:"updatedAt" db:"updated_at"` // Unix timestamp
}

// DefaultCoverageSettings mirrors coverage.DefaultSettings for a location
func DefaultCoverageSettings(locationID string) CoverageSettings {
	return FromEngineSettings(locationID, coverage.DefaultSettings())
}

// FromEngineSettings wraps engine settings as a stored record
func FromEngineSettings(locationID string, s coverage.Settings) CoverageSettings {
	return CoverageSettings{
		LocationID:    locationID,
		Model:         string(s.Model),
		Interpolation: string(s.Interpolation),
		Resolution:    s.Resolution,
		MaxDistance:   s.MaxDistance,
		Shadowing:     s.Shadowing,
		Environment:   s.Environment,
		Thresholds:    s.Thresholds,
	}
}

// EngineSettings converts the record into the explicit engine configuration
func (c CoverageSettings) EngineSettings() coverage.Settings {
	return coverage.Settings{
		Model:         propagation.ParseMethod(c.Model),
		Interpolation: coverage.ParseWeighting(c.Interpolation).Method(),
		Environment:   c.Environment,
		Resolution:    c.Resolution,
		MaxDistance:   c.MaxDistance,
		Shadowing:     c.Shadowing,
		Thresholds:    c.Thresholds,
	}
}
