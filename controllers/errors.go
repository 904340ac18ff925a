package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/logger"
	"github.com/hk-arcade-map/api-go/services"
	"gorm.io/gorm"
)

func errorJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message, "success": false})
}

// handleServiceError maps service and gorm errors to a response. Anything
// unknown is logged and reported as a 500.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		errorJSON(c, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrForbidden):
		errorJSON(c, http.StatusForbidden, "You are not allowed to do that")
	case errors.Is(err, services.ErrCheckInTooSoon):
		errorJSON(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		errorJSON(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrTooFar),
		errors.Is(err, services.ErrInvalidTarget),
		errors.Is(err, services.ErrInvalidRating):
		errorJSON(c, http.StatusBadRequest, err.Error())
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
	}
}
