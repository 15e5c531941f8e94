package controllers

import (
	"errors"
	"net/http"

	"vertigo-backend/services"
	"vertigo-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondServiceError maps service errors onto HTTP statuses.
func respondServiceError(c *gin.Context, log *zap.Logger, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondWithError(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrCodeSpaceExhausted):
		utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal error")
	}
}
