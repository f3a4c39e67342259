package http

import (
	"strconv"
	"time"

	"fulfillment/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// observe records request metrics and writes one log entry per request.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}
		elapsed := time.Since(start)

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request().Method
		status := c.Response().Status

		s.metrics.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
		s.metrics.HTTPRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())

		if route != "/health" && route != "/metrics" {
			s.log.Info("request",
				logger.String("method", method),
				logger.String("route", route),
				logger.Int("status", status),
				logger.Duration("elapsed", elapsed),
			)
		}
		return nil
	}
}
