package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-content-storefront/internal/application"
	"github.com/oksasatya/go-content-storefront/pkg/response"
)

// writeError maps application errors onto the response envelope.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *app.ValidationError
	var rerr *app.ResetError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", verr.Fields)
	case errors.As(err, &rerr):
		response.Error[any](c, http.StatusInternalServerError, "catalog reset incomplete", gin.H{"failed_steps": rerr.Steps})
	case errors.Is(err, app.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "Content not found.", nil)
	case errors.Is(err, app.ErrAccessDenied):
		response.Error[any](c, http.StatusForbidden, "Access denied.", nil)
	case errors.Is(err, app.ErrUnauthorized):
		response.Error[any](c, http.StatusUnauthorized, "Unauthorized", nil)
	default:
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
