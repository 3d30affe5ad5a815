package api

import (
	"errors"
	"net/http"
	"strconv"

	"fitstudio/internal/apperr"
	"fitstudio/internal/logger"

	"github.com/gin-gonic/gin"
)

func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindCredit:
		return http.StatusUnprocessableEntity
	case apperr.KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as JSON. Infrastructure errors are logged and hidden from the client.
func RespondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	if appErr.Kind == apperr.KindConsistency {
		logger.Error("consistency error", "path", c.FullPath(), "code", appErr.Code, "error", err)
	}

	c.JSON(StatusFor(appErr.Kind), ErrorResponse{Error: appErr.Error(), Code: appErr.Code})
}

func ParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}
