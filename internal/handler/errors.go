package handler

import (
	"errors"
	"net/http"

	"classifieds-service/internal/apperr"
	"classifieds-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// writeError maps a core error to the JSON error shape all handlers share.
// Domain errors carry their own HTTP status; anything else is a 500.
func writeError(c echo.Context, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		body := echo.Map{
			"error": ae.Message,
			"code":  ae.Code,
		}
		if len(ae.Detail) > 0 {
			body["detail"] = ae.Detail
		}
		return c.JSON(ae.HTTPStatus(), body)
	}

	logger.FromContext(c).Error("Unhandled core error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error": "internal server error",
	})
}
