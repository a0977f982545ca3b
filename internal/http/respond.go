package http

import (
	"net/http"
	"strconv"

	"github.com/jmehdipour/order-service/internal/logger"
	"github.com/jmehdipour/order-service/internal/metrics"
	"github.com/jmehdipour/order-service/internal/validation"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// pathID parses an integer path parameter. Routes only match integer ids,
// so callers answer a non-integer like an unknown route (notFound).
func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]string{"Error": "Not found"})
}

// bind decodes and validates the body. ok is false once a response has been written.
func bind(c echo.Context, p validation.Payload) (ok bool, err error) {
	if err := validation.Bind(c, p); err != nil {
		if errs, isValidation := validation.AsErrors(err); isValidation {
			return false, c.JSON(http.StatusBadRequest, errs)
		}
		return false, c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
	}
	return true, nil
}

func dbError(c echo.Context, msg string, err error) error {
	logger.Log.Error(msg,
		zap.String("method", c.Request().Method),
		zap.String("route", c.Path()),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
}

func countMutation(entity, op string) {
	metrics.MutationsTotal.WithLabelValues(entity, op).Inc()
}
