// Package controller holds the gin HTTP layer: request binding, the
// authenticated user id, and the mapping from service error kinds to
// HTTP statuses.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quizshare/api/internal/apperr"
	"github.com/quizshare/api/internal/dto"
	"github.com/quizshare/api/internal/middleware"
)

func writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrForbidden):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrUnauthenticated):
		ctx.Header("WWW-Authenticate", "Bearer")
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrCodeSpaceExhausted):
		// Capacity problem on our side, not a caller mistake.
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error", Details: []string{err.Error()}})
	}
}

// mustUserID is safe on any route behind middleware.Auth.
func mustUserID(ctx *gin.Context) uint {
	id, _ := middleware.CurrentUserID(ctx)
	return id
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
