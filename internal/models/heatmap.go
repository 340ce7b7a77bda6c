package models

import (
	"github.com/jengzang/wifi-coverage-backend/internal/coverage"
	"github.com/jengzang/wifi-coverage-backend/internal/spatial"
	"github.com/jengzang/wifi-coverage-backend/internal/stats"
)

// HeatmapQuery is the query string of GET /coverage/heatmap
type HeatmapQuery struct {
	LocationID string  `form:"locationId" binding:"required"`
	FloorID    string  `form:"floorId" binding:"required"`
	Width      float64 `form:"width" binding:"required,gt=0"`
	Height     float64 `form:"height" binding:"required,gt=0"`
	Resolution float64 `form:"resolution"` // 0 = location setting
	Method     string  `form:"method"`     // interpolation override
	Zoom       float64 `form:"zoom"`
}

// HeatmapSettings echoes the settings a heatmap was computed with
type HeatmapSettings struct {
	Method     string              `json:"method"`
	Model      string              `json:"model"`
	Resolution float64             `json:"resolution"`
	Thresholds coverage.Thresholds `json:"thresholds"`
}

// HeatmapResponse represents the heatmap API response
type HeatmapResponse struct {
	Grid     [][]float64        `json:"grid"`
	Bounds   spatial.Bounds     `json:"bounds"`
	Monitors []MonitorSummary   `json:"monitors"`
	Settings HeatmapSettings    `json:"settings"`
	Stats    *stats.GridSummary `json:"stats,omitempty"`
	Cached   bool               `json:"cached"`
}

// PointQuery is the body of POST /coverage/point
type PointQuery struct {
	Point      spatial.Point `json:"point"`
	LocationID string        `json:"locationId" binding:"required"`
	FloorID    string        `json:"floorId" binding:"required"`
	Method     string        `json:"method"`    // path-loss model override
	TotalMode  string        `json:"totalMode"` // linear (default) or dbm
}

// ClassifyRequest is the body of the classification endpoints. Area is only
// read by the ad-hoc endpoint; stored areas come from the path.
type ClassifyRequest struct {
	Area   *coverage.CoverageArea `json:"area,omitempty"`
	Point  spatial.Point          `json:"point"`
	Signal float64                `json:"signal"`
}

// ClassifyResponse reports the quality band for a point
type ClassifyResponse struct {
	AreaID  string           `json:"areaId,omitempty"`
	Point   spatial.Point    `json:"point"`
	Signal  float64          `json:"signal"`
	Inside  bool             `json:"inside"`
	Quality coverage.Quality `json:"quality"`
}

// AreaReportQuery is the query string of GET /coverage/areas/:id/report
type AreaReportQuery struct {
	Width      float64 `form:"width" binding:"required,gt=0"`
	Height     float64 `form:"height" binding:"required,gt=0"`
	Resolution float64 `form:"resolution"`
}
