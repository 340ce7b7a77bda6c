package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/wifi-coverage-backend/internal/service"
	"github.com/jengzang/wifi-coverage-backend/pkg/response"
)

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(c, message, err)
	case errors.Is(err, service.ErrNotFound):
		response.Error(c, http.StatusNotFound, message, err)
	default:
		response.InternalError(c, message, err)
	}
}
