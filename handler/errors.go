package handler

import (
	"errors"

	"famdo/usecase"
	"famdo/utils"

	"github.com/gin-gonic/gin"
)

// respondError translates service errors into HTTP responses. Anything
// not carrying one of the usecase sentinels is treated as internal.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, usecase.ErrConflict):
		utils.Conflict(c, err.Error())
	case errors.Is(err, usecase.ErrInvalidOperation):
		utils.BadRequest(c, err.Error())
	default:
		utils.TrackError("handler", "internal")
		utils.InternalError(c, "Something went wrong")
	}
}
