package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/wifi-coverage-backend/internal/models"
	"github.com/jengzang/wifi-coverage-backend/internal/service"
	"github.com/jengzang/wifi-coverage-backend/pkg/response"
)

// CoverageHandler handles HTTP requests for signal estimates and heatmaps
type CoverageHandler struct {
	service *service.CoverageService
}

// NewCoverageHandler creates a new coverage handler
func NewCoverageHandler(service *service.CoverageService) *CoverageHandler {
	return &CoverageHandler{service: service}
}

// QueryPoint handles POST /api/v1/coverage/point
func (h *CoverageHandler) QueryPoint(c *gin.Context) {
	var q models.PointQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		response.BadRequest(c, "Invalid point query", err)
		return
	}

	result, err := h.service.QueryPoint(c.Request.Context(), q)
	if err != nil {
		respondError(c, "Failed to estimate signal", err)
		return
	}

	response.Success(c, result)
}

// Heatmap handles GET /api/v1/coverage/heatmap
func (h *CoverageHandler) Heatmap(c *gin.Context) {
	var q models.HeatmapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	heatmap, err := h.service.Heatmap(c.Request.Context(), q)
	if err != nil {
		respondError(c, "Failed to generate heatmap", err)
		return
	}

	response.Success(c, heatmap)
}

// Classify handles POST /api/v1/coverage/classify
func (h *CoverageHandler) Classify(c *gin.Context) {
	var req models.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid classification request", err)
		return
	}

	result, err := h.service.Classify(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to classify signal", err)
		return
	}

	response.Success(c, result)
}

// ClassifyArea handles POST /api/v1/coverage/areas/:id/classify
func (h *CoverageHandler) ClassifyArea(c *gin.Context) {
	var req models.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid classification request", err)
		return
	}

	result, err := h.service.ClassifyStored(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, "Failed to classify signal", err)
		return
	}

	response.Success(c, result)
}

// AreaReport handles GET /api/v1/coverage/areas/:id/report
func (h *CoverageHandler) AreaReport(c *gin.Context) {
	var q models.AreaReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	report, err := h.service.AreaReport(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		respondError(c, "Failed to build area report", err)
		return
	}

	response.Success(c, report)
}
