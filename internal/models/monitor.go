package models

import (
	"github.com/jengzang/wifi-coverage-backend/internal/coverage"
	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
)

// Monitor is a WiFi access-point monitor placed on a floor plan
type Monitor struct {
	ID         string `json:"id" db:"id"`
	LocationID string `json:"locationId" db:"location_id"`
	FloorID    string `json:"floorId" db:"floor_id"`
	Name       string `json:"name" db:"name"`
	Status     string `json:"status" db:"status"` // active, inactive

	// Position on the floor plan; nil until the monitor is placed
	X *float64 `json:"x,omitempty" db:"x"`
	Y *float64 `json:"y,omitempty" db:"y"`

	FrequencyMHz         float64  `json:"frequencyMHz" db:"frequency_mhz"`
	CalibratedTxPowerDBm *float64 `json:"calibratedTxPowerDbm,omitempty" db:"calibrated_tx_power_dbm"`
	LastKnownRSSIDBm     *float64 `json:"lastKnownRssi,omitempty" db:"last_known_rssi_dbm"`

	CreatedAt int64 `json:"createdAt" db:"created_at"` // Unix timestamp
	UpdatedAt int64 `json:"updatedAt" db:"updated_at"` // Unix timestamp
}

// Position returns the placed position or nil
func (m Monitor) Position() *spatial.Point {
	if m.X == nil || m.Y == nil {
		return nil
	}
	return &spatial.Point{X: *m.X, Y: *m.Y}
}

// Transmitter converts the monitor into the engine's transmitter
func (m Monitor) Transmitter() coverage.Transmitter {
	status := coverage.StatusInactive
	if coverage.Status(m.Status) == coverage.StatusActive {
		status = coverage.StatusActive
	}
	return coverage.Transmitter{
		ID:                   m.ID,
		Position:             m.Position(),
		Status:               status,
		FrequencyMHz:         m.FrequencyMHz,
		CalibratedTxPowerDBm: m.CalibratedTxPowerDBm,
		LastKnownRSSIDBm:     m.LastKnownRSSIDBm,
	}
}

// Transmitters converts a monitor list
func Transmitters(monitors []Monitor) []coverage.Transmitter {
	out := make([]coverage.Transmitter, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, m.Transmitter())
	}
	return out
}

// MonitorSummary is the monitor view embedded in heatmap responses
type MonitorSummary struct {
	ID            string         `json:"id"`
	Position      *spatial.Point `json:"position"`
	LastKnownRSSI *float64       `json:"lastKnownRssi"`
}

// MonitorInput is the create/update payload
type MonitorInput struct {
	ID                   string   `json:"id"`
	LocationID           string   `json:"locationId" binding:"required"`
	FloorID              string   `json:"floorId" binding:"required"`
	Name                 string   `json:"name"`
	Status               string   `json:"status"`
	X                    *float64 `json:"x"`
	Y                    *float64 `json:"y"`
	FrequencyMHz         float64  `json:"frequencyMHz"`
	CalibratedTxPowerDBm *float64 `json:"calibratedTxPowerDbm"`
	LastKnownRSSIDBm     *float64 `json:"lastKnownRssi"`
}
