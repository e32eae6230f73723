package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jmehdipour/superstore-dashboard/internal/metrics"
	echo "github.com/labstack/echo/v4"
)

// RequestMetrics counts requests by matched route and final status code.
func RequestMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			code := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					code = he.Code
				} else {
					code = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
			return err
		}
	}
}
