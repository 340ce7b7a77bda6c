package models

// MonitorFilter represents filter parameters for querying monitors
type MonitorFilter struct {
	LocationID string `form:"locationId" binding:"required"`
	FloorID    string `form:"floorId"`
	Status     string `form:"status"` // active, inactive
}

// AreaFilter represents filter parameters for querying coverage areas
type AreaFilter struct {
	LocationID string `form:"locationId" binding:"required"`
	FloorID    string `form:"floorId"`
}
