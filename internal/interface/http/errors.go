package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-appointment-scheduler/internal/application"
	"github.com/oksasatya/go-appointment-scheduler/internal/interface/middleware"
	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
	"github.com/oksasatya/go-appointment-scheduler/pkg/response"
	"github.com/oksasatya/go-appointment-scheduler/pkg/validation"
)

// writeError maps service errors onto the response envelope. Unknown errors are
// logged and reported as 500 without detail.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "validation fails", verr.Fields)
	case errors.Is(err, app.ErrInvalidProvider),
		errors.Is(err, app.ErrPastDate),
		errors.Is(err, app.ErrSlotUnavailable),
		errors.Is(err, app.ErrDuplicateUser):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, app.ErrNotProvider):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, app.ErrUnauthenticated):
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, app.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, app.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, app.ErrStorageUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		if logger != nil {
			helpers.LogError(logger, "request failed", err, logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			})
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

// bindJSON decodes the body into dst; decoding problems are reported like validation failures.
func bindJSON(c *gin.Context, dst any) bool {
	validation.Init()
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation fails", validation.ToDetails(err))
		return false
	}
	return true
}

func identity(c *gin.Context) app.Identity {
	return app.Identity{UserID: middleware.UserID(c)}
}
