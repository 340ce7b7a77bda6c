package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/wifi-coverage-backend/internal/models"
	"github.com/jengzang/wifi-coverage-backend/internal/service"
	"github.com/jengzang/wifi-coverage-backend/pkg/response"
)

// MonitorHandler handles HTTP requests for monitors
type MonitorHandler struct {
	service *service.MonitorService
}

// NewMonitorHandler creates a new monitor handler
func NewMonitorHandler(service *service.MonitorService) *MonitorHandler {
	return &MonitorHandler{service: service}
}

// List handles GET /api/v1/monitors
func (h *MonitorHandler) List(c *gin.Context) {
	var filter models.MonitorFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	monitors, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to list monitors", err)
		return
	}

	response.Success(c, gin.H{
		"data":  monitors,
		"count": len(monitors),
	})
}

// Get handles GET /api/v1/monitors/:id
func (h *MonitorHandler) Get(c *gin.Context) {
	monitor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to get monitor", err)
		return
	}

	response.Success(c, monitor)
}

// Save handles POST /api/v1/monitors (create or update by id)
func (h *MonitorHandler) Save(c *gin.Context) {
	var in models.MonitorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid monitor", err)
		return
	}

	monitor, err := h.service.Save(c.Request.Context(), in)
	if err != nil {
		respondError(c, "Failed to save monitor", err)
		return
	}

	response.Success(c, monitor)
}
