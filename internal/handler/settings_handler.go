package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/wifi-coverage-backend/internal/models"
	"github.com/jengzang/wifi-coverage-backend/internal/service"
	"github.com/jengzang/wifi-coverage-backend/pkg/response"
)

// SettingsHandler handles HTTP requests for coverage settings and areas
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetSettings handles GET /api/v1/coverage/settings/:locationId
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context(), c.Param("locationId"))
	if err != nil {
		respondError(c, "Failed to get coverage settings", err)
		return
	}

	response.Success(c, settings)
}

// UpdateSettings handles PUT /api/v1/coverage/settings/:locationId
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var in models.CoverageSettings
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid coverage settings", err)
		return
	}
	in.LocationID = c.Param("locationId")

	settings, err := h.service.Update(c.Request.Context(), in)
	if err != nil {
		respondError(c, "Failed to update coverage settings", err)
		return
	}

	response.Success(c, settings)
}

// ListAreas handles GET /api/v1/coverage/areas
func (h *SettingsHandler) ListAreas(c *gin.Context) {
	var filter models.AreaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	areas, err := h.service.ListAreas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to list coverage areas", err)
		return
	}

	response.Success(c, gin.H{
		"data":  areas,
		"count": len(areas),
	})
}

// GetArea handles GET /api/v1/coverage/areas/:id
func (h *SettingsHandler) GetArea(c *gin.Context) {
	area, err := h.service.GetArea(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to get coverage area", err)
		return
	}

	response.Success(c, area)
}

// CreateArea handles POST /api/v1/coverage/areas
func (h *SettingsHandler) CreateArea(c *gin.Context) {
	var in models.CoverageAreaInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid coverage area", err)
		return
	}

	area, err := h.service.CreateArea(c.Request.Context(), in)
	if err != nil {
		respondError(c, "Failed to create coverage area", err)
		return
	}

	response.Created(c, area)
}

// DeleteArea handles DELETE /api/v1/coverage/areas/:id
func (h *SettingsHandler) DeleteArea(c *gin.Context) {
	if err := h.service.DeleteArea(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Failed to delete coverage area", err)
		return
	}

	response.Success(c, gin.H{"id": c.Param("id")})
}
